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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/view"
)

// CourseHandler serves the find programmes pages
type CourseHandler struct {
	courses       CourseService
	organisations OrganisationService
	renderer      view.Renderer
	logger        *zap.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses CourseService, organisations OrganisationService, renderer view.Renderer, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, organisations: organisations, renderer: renderer, logger: logger}
}

// ListCourses handles GET /find/programmes
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.GetCourses(c.Request.Context(), requestUser(c).Token)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	visible := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		if !course.Withdrawn {
			visible = append(visible, course)
		}
	}
	h.renderer.Render(c, http.StatusOK, "courses/index", gin.H{
		"pageHeading": "Find an Accredited Programme",
		"courses":     visible,
	})
}

type offeringRow struct {
	Offering     model.CourseOffering
	Organisation *model.Organisation
	Href         string
}

// GetCourse handles GET /find/programmes/:courseId
func (h *CourseHandler) GetCourse(c *gin.Context) {
	token := requestUser(c).Token
	courseID := c.Param("courseId")

	var (
		course    *model.Course
		offerings []model.CourseOffering
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		course, err = h.courses.GetCourse(ctx, token, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		offerings, err = h.courses.GetOfferingsByCourse(ctx, token, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	// organisations are independent of each other; inactive or unknown ones are dropped
	organisations := make([]*model.Organisation, len(offerings))
	og, octx := errgroup.WithContext(c.Request.Context())
	for i, offering := range offerings {
		og.Go(func() error {
			organisation, err := h.organisations.GetOrganisation(octx, token, offering.OrganisationID)
			organisations[i] = organisation
			return err
		})
	}
	if err := og.Wait(); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	rows := make([]offeringRow, 0, len(offerings))
	for i, offering := range offerings {
		if organisations[i] == nil || offering.Withdrawn {
			continue
		}
		rows = append(rows, offeringRow{
			Offering:     offering,
			Organisation: organisations[i],
			Href:         paths.Build(paths.FindOffering, "courseOfferingId", offering.ID),
		})
	}

	h.renderer.Render(c, http.StatusOK, "courses/show", gin.H{
		"pageHeading": course.Name,
		"course":      course,
		"offerings":   rows,
	})
}

// GetOffering handles GET /find/offerings/:courseOfferingId
func (h *CourseHandler) GetOffering(c *gin.Context) {
	token := requestUser(c).Token
	offeringID := c.Param("courseOfferingId")

	var (
		course   *model.Course
		offering *model.CourseOffering
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		course, err = h.courses.GetCourseByOffering(ctx, token, offeringID)
		return err
	})
	g.Go(func() error {
		var err error
		offering, err = h.courses.GetOffering(ctx, token, offeringID)
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	organisation, err := h.organisations.GetOrganisation(c.Request.Context(), token, offering.OrganisationID)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	if organisation == nil {
		renderError(c, h.renderer, h.logger, constants.ErrOrganisationNotFound)
		return
	}

	data := gin.H{
		"pageHeading":  course.Name,
		"course":       course,
		"offering":     offering,
		"organisation": organisation,
	}
	if offering.Referable && requestUser(c).HasRole(model.RoleReferrer) {
		data["makeReferralHref"] = paths.Build(paths.StartReferral, "courseOfferingId", offering.ID)
	}
	h.renderer.Render(c, http.StatusOK, "courses/offerings/show", data)
}

// RegisterRoutes registers the find programmes routes
func (h *CourseHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(paths.FindProgrammes, h.ListCourses)
	r.GET(paths.FindProgramme, h.GetCourse)
	r.GET(paths.FindOffering, h.GetOffering)
}
