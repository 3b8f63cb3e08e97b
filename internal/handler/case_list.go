/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package handler

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

var referStatusGroups = []string{"open", "draft", "closed"}

// CaseListHandler serves the referrer and programme team case lists
type CaseListHandler struct {
	referrals ReferralService
	courses   CourseService
	renderer  view.Renderer
	logger    *zap.Logger
}

// NewCaseListHandler creates a new case list handler
func NewCaseListHandler(referrals ReferralService, courses CourseService, renderer view.Renderer, logger *zap.Logger) *CaseListHandler {
	return &CaseListHandler{referrals: referrals, courses: courses, renderer: renderer, logger: logger}
}

// pageParam reads the one based page query parameter into a zero based page
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 0
	}
	return page - 1
}

func referralLink(base paths.PathBase, rv model.ReferralView) string {
	if rv.Status == model.ReferralStatusStarted {
		return paths.Draft(paths.ShowDraft, rv.ID)
	}
	return base.PersonalDetails(rv.ID)
}

type caseListRow struct {
	View model.ReferralView
	Href string
}

func caseListRows(base paths.PathBase, views []model.ReferralView) []caseListRow {
	rows := make([]caseListRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, caseListRow{View: v, Href: referralLink(base, v)})
	}
	return rows
}

// ReferCaseList handles GET /refer/referrals/case-list
func (h *CaseListHandler) ReferCaseList(c *gin.Context) {
	group := strings.ToLower(c.DefaultQuery("status", "open"))
	if !slices.Contains(referStatusGroups, group) {
		group = "open"
	}
	query := dto.DashboardQuery{
		Page:          pageParam(c),
		Size:          constants.DefaultPageSize,
		StatusGroup:   group,
		NameOrID:      strings.TrimSpace(c.Query("nameOrId")),
		SortColumn:    c.Query("sortColumn"),
		SortDirection: c.Query("sortDirection"),
	}

	views, err := h.referrals.GetMyReferralViews(c.Request.Context(), requestUser(c).Token, query)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	h.renderer.Render(c, http.StatusOK, "referrals/caseList/refer", gin.H{
		"pageHeading":    "My referrals",
		"statusGroup":    group,
		"statusGroups":   referStatusGroups,
		"rows":           caseListRows(paths.Refer, views.Content),
		"totalElements":  views.TotalElements,
		"pagination":     utils.NewPagination(paths.ReferCaseList, views.PageNumber, views.TotalPages),
		"nameOrId":       query.NameOrID,
		"successMessage": firstFlash(c, constants.FlashSuccessMessage),
	})
}

// AssessCaseListIndex handles GET /assess/referrals/case-list and opens the case list of
// the first course
func (h *CaseListHandler) AssessCaseListIndex(c *gin.Context) {
	courses, err := h.courses.GetCourses(c.Request.Context(), requestUser(c).Token)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	if len(courses) == 0 {
		h.renderer.Render(c, http.StatusOK, "referrals/caseList/assess", gin.H{
			"pageHeading": "Manage your programme team's referrals",
			"rows":        []caseListRow{},
		})
		return
	}
	redirect(c, paths.Build(paths.AssessCourseCaseList, "courseId", courses[0].ID))
}

// AssessCourseCaseList handles GET /assess/referrals/course/:courseId/case-list
func (h *CaseListHandler) AssessCourseCaseList(c *gin.Context) {
	user := requestUser(c)
	courseID := c.Param("courseId")

	var (
		course  *model.Course
		courses []model.Course
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		course, err = h.courses.GetCourse(ctx, user.Token, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = h.courses.GetCourses(ctx, user.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	query := dto.DashboardQuery{
		Page:          pageParam(c),
		Size:          constants.DefaultPageSize,
		Status:        c.Query("status"),
		Audience:      c.Query("audience"),
		CourseName:    course.Name,
		NameOrID:      strings.TrimSpace(c.Query("nameOrId")),
		SortColumn:    c.Query("sortColumn"),
		SortDirection: c.Query("sortDirection"),
	}
	views, err := h.referrals.GetOrganisationReferralViews(c.Request.Context(), user.Token, user.ActiveCaseLoadID, query)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	base := paths.Build(paths.AssessCourseCaseList, "courseId", courseID)
	h.renderer.Render(c, http.StatusOK, "referrals/caseList/assess", gin.H{
		"pageHeading":   course.Name + " referrals",
		"course":        course,
		"courses":       courses,
		"status":        query.Status,
		"audience":      query.Audience,
		"nameOrId":      query.NameOrID,
		"rows":          caseListRows(paths.Assess, views.Content),
		"totalElements": views.TotalElements,
		"pagination":    utils.NewPagination(base, views.PageNumber, views.TotalPages),
	})
}

// RegisterReferRoutes registers the referrer case list
func (h *CaseListHandler) RegisterReferRoutes(r gin.IRoutes) {
	r.GET(paths.ReferCaseList, h.ReferCaseList)
}

// RegisterAssessRoutes registers the programme team case lists
func (h *CaseListHandler) RegisterAssessRoutes(r gin.IRoutes) {
	r.GET(paths.AssessCaseListIndex, h.AssessCaseListIndex)
	r.GET(paths.AssessCourseCaseList, h.AssessCourseCaseList)
}
