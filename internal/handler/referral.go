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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/middleware"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/service"
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

// ReferralHandler serves the draft referral journey of referrers
type ReferralHandler struct {
	referrals     ReferralService
	courses       CourseService
	people        PersonService
	organisations OrganisationService
	renderer      view.Renderer
	logger        *zap.Logger
	guard         referralGuard
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(
	referrals ReferralService,
	courses CourseService,
	people PersonService,
	organisations OrganisationService,
	renderer view.Renderer,
	logger *zap.Logger,
) *ReferralHandler {
	return &ReferralHandler{
		referrals:     referrals,
		courses:       courses,
		people:        people,
		organisations: organisations,
		renderer:      renderer,
		logger:        logger,
		guard:         referralGuard{referrals: referrals, renderer: renderer, logger: logger},
	}
}

// offeringContext is the course, offering and organisation a referral is made to
type offeringContext struct {
	Course       *model.Course
	Offering     *model.CourseOffering
	Organisation *model.Organisation
}

func (h *ReferralHandler) loadOffering(c *gin.Context, offeringID string) (*offeringContext, error) {
	token := requestUser(c).Token
	oc := &offeringContext{}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		oc.Course, err = h.courses.GetCourseByOffering(ctx, token, offeringID)
		return err
	})
	g.Go(func() error {
		offering, err := h.courses.GetOffering(ctx, token, offeringID)
		if err != nil {
			return err
		}
		oc.Offering = offering
		organisation, err := h.organisations.GetOrganisation(ctx, token, offering.OrganisationID)
		if err != nil {
			return err
		}
		if organisation == nil {
			return constants.ErrOrganisationNotFound
		}
		oc.Organisation = organisation
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return oc, nil
}

// Start handles GET /refer/offerings/:courseOfferingId/referrals/start
func (h *ReferralHandler) Start(c *gin.Context) {
	offeringID := c.Param("courseOfferingId")
	oc, err := h.loadOffering(c, offeringID)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	h.renderer.Render(c, http.StatusOK, "referrals/start", gin.H{
		"pageHeading":  "Make a referral",
		"course":       oc.Course,
		"offering":     oc.Offering,
		"organisation": oc.Organisation,
		"nextHref":     paths.Build(paths.NewPerson, "courseOfferingId", offeringID),
	})
}

// NewPerson handles GET /refer/offerings/:courseOfferingId/referrals/people/new
func (h *ReferralHandler) NewPerson(c *gin.Context) {
	form := utils.ConsumeFormState(requestSession(c), "prisonNumber")
	h.renderer.Render(c, http.StatusOK, "referrals/people/new", gin.H{
		"pageHeading":      "Enter the person's identifier",
		"courseOfferingId": c.Param("courseOfferingId"),
		"errors":           form.Errors,
		"prisonNumber":     form.Value("prisonNumber", ""),
	})
}

// FindPerson handles POST /refer/offerings/:courseOfferingId/referrals/people
func (h *ReferralHandler) FindPerson(c *gin.Context) {
	offeringID := c.Param("courseOfferingId")
	prisonNumber := strings.ToUpper(utils.TrimmedPostForm(c, "prisonNumber"))
	if prisonNumber == "" {
		form := utils.NewFormState()
		form.AddError("prisonNumber", "Enter a prison number")
		form.Flash(requestSession(c))
		redirect(c, paths.Build(paths.NewPerson, "courseOfferingId", offeringID))
		return
	}
	redirect(c, paths.Build(paths.ConfirmPerson, "courseOfferingId", offeringID, "prisonNumber", prisonNumber))
}

// ConfirmPerson handles GET /refer/offerings/:courseOfferingId/referrals/people/:prisonNumber
func (h *ReferralHandler) ConfirmPerson(c *gin.Context) {
	offeringID := c.Param("courseOfferingId")
	prisonNumber := c.Param("prisonNumber")
	user := requestUser(c)

	person, err := h.people.GetPerson(c.Request.Context(), user.Username, prisonNumber)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	if person == nil {
		form := utils.NewFormState()
		form.AddError("prisonNumber", fmt.Sprintf("No person with a prison number '%s' was found", prisonNumber))
		form.SetValue("prisonNumber", prisonNumber)
		form.Flash(requestSession(c))
		redirect(c, paths.Build(paths.NewPerson, "courseOfferingId", offeringID))
		return
	}

	h.renderer.Render(c, http.StatusOK, "referrals/people/show", gin.H{
		"pageHeading":      fmt.Sprintf("Confirm %s's details", person.Name),
		"person":           person,
		"courseOfferingId": offeringID,
		"changeHref":       paths.Build(paths.NewPerson, "courseOfferingId", offeringID),
	})
}

// Create handles POST /refer/referrals
func (h *ReferralHandler) Create(c *gin.Context) {
	user := requestUser(c)
	offeringID := c.PostForm("courseOfferingId")
	prisonNumber := c.PostForm("prisonNumber")

	referral, err := h.referrals.CreateReferral(c.Request.Context(), user.Token, offeringID, prisonNumber)
	if err != nil {
		var conflict *service.ConflictError
		if errors.As(err, &conflict) {
			redirect(c, paths.Draft(paths.Duplicate, conflict.ReferralID))
			return
		}
		renderError(c, h.renderer, h.logger, err)
		return
	}

	middleware.GetLogger(c, h.logger).Info("Referral created", zap.String("referralId", referral.ID))
	redirect(c, paths.Draft(paths.ShowDraft, referral.ID))
}

// Show handles GET /refer/referrals/new/:referralId
func (h *ReferralHandler) Show(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	user := requestUser(c)

	var (
		oc     *offeringContext
		person *model.Person
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		oc, err = h.loadOffering(c, referral.OfferingID)
		return err
	})
	g.Go(func() error {
		var err error
		person, err = h.people.GetPerson(ctx, user.Username, referral.PrisonNumber)
		if err == nil && person == nil {
			err = constants.ErrPersonNotFound
		}
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	h.renderer.Render(c, http.StatusOK, "referrals/show", gin.H{
		"pageHeading":           "Make a referral",
		"referral":              referral,
		"person":                person,
		"course":                oc.Course,
		"organisation":          oc.Organisation,
		"taskList":              utils.ReferralTaskList(referral),
		"completedSectionCount": utils.CompletedSectionCount(referral),
		"readyForSubmission":    referral.IsReadyForSubmission(),
	})
}

// ShowPerson handles GET /refer/referrals/new/:referralId/person
func (h *ReferralHandler) ShowPerson(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	person, ok := h.requirePerson(c, referral.PrisonNumber)
	if !ok {
		return
	}
	h.renderer.Render(c, http.StatusOK, "referrals/person", gin.H{
		"pageHeading": fmt.Sprintf("%s's details", person.Name),
		"referral":    referral,
		"person":      person,
		"backHref":    paths.Draft(paths.ShowDraft, referral.ID),
	})
}

func (h *ReferralHandler) requirePerson(c *gin.Context, prisonNumber string) (*model.Person, bool) {
	person, err := h.people.GetPerson(c.Request.Context(), requestUser(c).Username, prisonNumber)
	if err == nil && person == nil {
		err = constants.ErrPersonNotFound
	}
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return nil, false
	}
	return person, true
}

// CheckAnswers handles GET /refer/referrals/new/:referralId/check-answers
func (h *ReferralHandler) CheckAnswers(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	if !referral.IsReadyForSubmission() {
		redirect(c, paths.Draft(paths.ShowDraft, referral.ID))
		return
	}
	user := requestUser(c)

	var (
		oc             *offeringContext
		person         *model.Person
		participations []model.CourseParticipation
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		oc, err = h.loadOffering(c, referral.OfferingID)
		return err
	})
	g.Go(func() error {
		var err error
		person, err = h.people.GetPerson(ctx, user.Username, referral.PrisonNumber)
		if err == nil && person == nil {
			err = constants.ErrPersonNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		participations, err = h.courses.GetParticipationsByPerson(ctx, user.Token, referral.PrisonNumber)
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	summaries := make([][]utils.SummaryListRow, 0, len(participations))
	for i := range participations {
		summaries = append(summaries, utils.CourseParticipationSummary(&participations[i]))
	}

	h.renderer.Render(c, http.StatusOK, "referrals/checkAnswers", gin.H{
		"pageHeading":            "Check your answers",
		"referral":               referral,
		"person":                 person,
		"course":                 oc.Course,
		"offering":               oc.Offering,
		"organisation":           oc.Organisation,
		"participationSummaries": summaries,
		"referrer":               user,
		"submitHref":             paths.Draft(paths.DraftSubmit, referral.ID),
	})
}

// Submit handles POST /refer/referrals/new/:referralId/submit
func (h *ReferralHandler) Submit(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	if !referral.IsReadyForSubmission() {
		redirect(c, paths.Draft(paths.ShowDraft, referral.ID))
		return
	}
	if c.PostForm("confirmation") != "true" {
		form := utils.NewFormState()
		form.AddError("confirmation", "Confirm that the information you have provided is complete, accurate and up to date")
		form.Flash(requestSession(c))
		redirect(c, paths.Draft(paths.DraftCheckAnswers, referral.ID))
		return
	}

	if err := h.referrals.SubmitReferral(c.Request.Context(), requestUser(c).Token, referral.ID); err != nil {
		var conflict *service.ConflictError
		if errors.As(err, &conflict) {
			redirect(c, paths.Draft(paths.Duplicate, conflict.ReferralID))
			return
		}
		renderError(c, h.renderer, h.logger, err)
		return
	}
	redirect(c, paths.Draft(paths.DraftComplete, referral.ID))
}

// Complete handles GET /refer/referrals/new/:referralId/complete
func (h *ReferralHandler) Complete(c *gin.Context) {
	referral, ok := h.guard.submitted(c)
	if !ok {
		return
	}
	h.renderer.Render(c, http.StatusOK, "referrals/complete", gin.H{
		"pageHeading":  "Referral complete",
		"referral":     referral,
		"caseListHref": paths.ReferCaseList,
	})
}

// Duplicate handles GET /refer/referrals/:referralId/duplicate
func (h *ReferralHandler) Duplicate(c *gin.Context) {
	referral, ok := h.guard.fetch(c)
	if !ok {
		return
	}
	oc, err := h.loadOffering(c, referral.OfferingID)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	person, ok := h.requirePerson(c, referral.PrisonNumber)
	if !ok {
		return
	}
	h.renderer.Render(c, http.StatusOK, "referrals/duplicate", gin.H{
		"pageHeading":  "Duplicate referral found",
		"referral":     referral,
		"person":       person,
		"course":       oc.Course,
		"organisation": oc.Organisation,
		"referralHref": paths.Refer.StatusHistory(referral.ID),
	})
}

// ConfirmDelete handles GET /refer/referrals/new/:referralId/delete
func (h *ReferralHandler) ConfirmDelete(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	person, ok := h.requirePerson(c, referral.PrisonNumber)
	if !ok {
		return
	}
	h.renderer.Render(c, http.StatusOK, "referrals/delete", gin.H{
		"pageHeading": "Delete draft referral?",
		"referral":    referral,
		"person":      person,
		"backHref":    paths.Draft(paths.ShowDraft, referral.ID),
	})
}

// Delete handles POST /refer/referrals/new/:referralId/delete
func (h *ReferralHandler) Delete(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	if err := h.referrals.DeleteReferral(c.Request.Context(), requestUser(c).Token, referral.ID); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	requestSession(c).AddFlash(constants.FlashSuccessMessage, "Draft referral deleted")
	redirect(c, paths.WithQuery(paths.ReferCaseList, map[string][]string{"status": {"draft"}}))
}

// RegisterRoutes registers draft referral routes. Callers apply the referrer role check.
func (h *ReferralHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(paths.StartReferral, h.Start)
	r.GET(paths.NewPerson, h.NewPerson)
	r.POST(paths.FindPerson, h.FindPerson)
	r.GET(paths.ConfirmPerson, h.ConfirmPerson)
	r.POST(paths.CreateReferral, h.Create)
	r.GET(paths.ShowDraft, h.Show)
	r.GET(paths.ShowDraftPerson, h.ShowPerson)
	r.GET(paths.DraftCheckAnswers, h.CheckAnswers)
	r.POST(paths.DraftSubmit, h.Submit)
	r.GET(paths.DraftComplete, h.Complete)
	r.GET(paths.DraftDelete, h.ConfirmDelete)
	r.POST(paths.DraftDelete, h.Delete)
	r.GET(paths.Duplicate, h.Duplicate)
}
