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
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

var detailsFields = []string{
	"settingType", "communityLocation", "custodyLocation",
	"outcomeStatus", "yearStarted", "yearCompleted", "source", "detail",
}

// CourseParticipationHandler serves the programme history task of a draft referral
type CourseParticipationHandler struct {
	referrals ReferralService
	courses   CourseService
	people    PersonService
	renderer  view.Renderer
	logger    *zap.Logger
	guard     referralGuard
	validate  *validator.Validate
	now       func() time.Time
}

// NewCourseParticipationHandler creates a new programme history handler
func NewCourseParticipationHandler(
	referrals ReferralService,
	courses CourseService,
	people PersonService,
	renderer view.Renderer,
	logger *zap.Logger,
) *CourseParticipationHandler {
	return &CourseParticipationHandler{
		referrals: referrals,
		courses:   courses,
		people:    people,
		renderer:  renderer,
		logger:    logger,
		guard:     referralGuard{referrals: referrals, renderer: renderer, logger: logger},
		validate:  validator.New(),
		now:       time.Now,
	}
}

// participationRow is one programme history entry as listed on the index page
type participationRow struct {
	Participation model.CourseParticipation
	Rows          []utils.SummaryListRow
	Draft         bool
	ChangeHref    string
	DeleteHref    string
}

// Index handles GET /refer/referrals/new/:referralId/programme-history
func (h *CourseParticipationHandler) Index(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	user := requestUser(c)

	var (
		person   *model.Person
		existing []model.CourseParticipation
		drafts   []model.CourseParticipation
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
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
		existing, err = h.courses.GetParticipationsByPerson(ctx, user.Token, referral.PrisonNumber)
		return err
	})
	g.Go(func() error {
		var err error
		drafts, err = h.courses.GetParticipationsByReferral(ctx, user.Token, referral.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	seen := make(map[string]bool, len(drafts))
	rows := make([]participationRow, 0, len(existing)+len(drafts))
	for _, p := range drafts {
		seen[p.ID] = true
		rows = append(rows, h.row(referral.ID, p))
	}
	for _, p := range existing {
		if !seen[p.ID] {
			rows = append(rows, h.row(referral.ID, p))
		}
	}

	h.renderer.Render(c, http.StatusOK, "referrals/courseParticipations/index", gin.H{
		"pageHeading":    fmt.Sprintf("%s's programme history", person.Name),
		"referral":       referral,
		"person":         person,
		"participations": rows,
		"newHref":        paths.Draft(paths.DraftProgrammeHistoryNew, referral.ID),
		"reviewHref":     paths.Draft(paths.DraftProgrammeHistoryReview, referral.ID),
		"successMessage": firstFlash(c, constants.FlashSuccessMessage),
	})
}

func (h *CourseParticipationHandler) row(referralID string, p model.CourseParticipation) participationRow {
	row := participationRow{
		Participation: p,
		Rows:          utils.CourseParticipationSummary(&p),
		Draft:         p.IsDraftFor(referralID),
	}
	if row.Draft {
		row.ChangeHref = paths.DraftParticipation(paths.DraftProgrammeHistoryProgramme, referralID, p.ID)
		row.DeleteHref = paths.DraftParticipation(paths.DraftProgrammeHistoryDelete, referralID, p.ID)
	}
	return row
}

// New handles GET /refer/referrals/new/:referralId/programme-history/new
func (h *CourseParticipationHandler) New(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	h.renderProgramme(c, referral, nil, paths.Draft(paths.DraftProgrammeHistory, referral.ID))
}

// Create handles POST /refer/referrals/new/:referralId/programme-history
func (h *CourseParticipationHandler) Create(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	courseName, form := courseNameFromForm(c)
	if form.HasErrors() {
		form.Flash(requestSession(c))
		redirect(c, paths.Draft(paths.DraftProgrammeHistoryNew, referral.ID))
		return
	}

	participation, err := h.courses.CreateParticipation(c.Request.Context(), requestUser(c).Token,
		dto.CreateCourseParticipationRequest{
			CourseName:   courseName,
			PrisonNumber: referral.PrisonNumber,
			ReferralID:   referral.ID,
		})
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	redirect(c, paths.DraftParticipation(paths.DraftProgrammeHistoryDetails, referral.ID, participation.ID))
}

// EditProgramme handles GET /refer/referrals/new/:referralId/programme-history/:courseParticipationId/programme
func (h *CourseParticipationHandler) EditProgramme(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	participation, ok := h.draftParticipation(c, referral)
	if !ok {
		return
	}
	h.renderProgramme(c, referral, participation,
		paths.DraftParticipation(paths.DraftProgrammeHistoryProgramme, referral.ID, participation.ID))
}

// UpdateProgramme handles PUT /refer/referrals/new/:referralId/programme-history/:courseParticipationId/programme
func (h *CourseParticipationHandler) UpdateProgramme(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	participation, ok := h.draftParticipation(c, referral)
	if !ok {
		return
	}
	courseName, form := courseNameFromForm(c)
	if form.HasErrors() {
		form.Flash(requestSession(c))
		redirect(c, paths.DraftParticipation(paths.DraftProgrammeHistoryProgramme, referral.ID, participation.ID))
		return
	}

	update := dto.UpdateFromParticipation(participation)
	update.CourseName = courseName
	if _, err := h.courses.UpdateParticipation(c.Request.Context(), requestUser(c).Token, participation.ID, update); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	redirect(c, paths.DraftParticipation(paths.DraftProgrammeHistoryDetails, referral.ID, participation.ID))
}

// renderProgramme renders the course selection page. A name outside the known course
// list is shown as the Other option with free text.
func (h *CourseParticipationHandler) renderProgramme(c *gin.Context, referral *model.Referral, participation *model.CourseParticipation, action string) {
	names, err := h.courses.GetCourseNames(c.Request.Context(), requestUser(c).Token)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}

	selected, otherName := "", ""
	if participation != nil {
		if slices.Contains(names, participation.CourseName) {
			selected = participation.CourseName
		} else {
			selected, otherName = constants.OtherCourseValue, participation.CourseName
		}
	}
	form := utils.ConsumeFormState(requestSession(c), "courseName", "otherCourseName")

	h.renderer.Render(c, http.StatusOK, "referrals/courseParticipations/course", gin.H{
		"pageHeading":     "Add a programme",
		"referral":        referral,
		"participation":   participation,
		"courseNames":     names,
		"otherValue":      constants.OtherCourseValue,
		"courseName":      form.Value("courseName", selected),
		"otherCourseName": form.Value("otherCourseName", otherName),
		"errors":          form.Errors,
		"action":          action,
		"backHref":        paths.Draft(paths.DraftProgrammeHistory, referral.ID),
	})
}

func courseNameFromForm(c *gin.Context) (string, utils.FormState) {
	form := utils.NewFormState()
	selected := utils.TrimmedPostForm(c, "courseName")
	other := utils.TrimmedPostForm(c, "otherCourseName")

	switch {
	case selected == "":
		form.AddError("courseName", "Select a programme")
	case selected == constants.OtherCourseValue && other == "":
		form.AddError("otherCourseName", "Enter the programme name")
		form.SetValue("courseName", selected)
	}
	if selected == constants.OtherCourseValue {
		return other, form
	}
	return selected, form
}

// EditDetails handles GET /refer/referrals/new/:referralId/programme-history/:courseParticipationId/details
func (h *CourseParticipationHandler) EditDetails(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	participation, ok := h.draftParticipation(c, referral)
	if !ok {
		return
	}

	current := detailsFormFrom(participation)
	form := utils.ConsumeFormState(requestSession(c), detailsFields...)
	values := map[string]string{
		"settingType":       form.Value("settingType", current.SettingType),
		"communityLocation": form.Value("communityLocation", current.CommunityLocation),
		"custodyLocation":   form.Value("custodyLocation", current.CustodyLocation),
		"outcomeStatus":     form.Value("outcomeStatus", current.OutcomeStatus),
		"yearStarted":       form.Value("yearStarted", current.YearStarted),
		"yearCompleted":     form.Value("yearCompleted", current.YearCompleted),
		"source":            form.Value("source", current.Source),
		"detail":            form.Value("detail", current.Detail),
	}

	h.renderer.Render(c, http.StatusOK, "referrals/courseParticipations/details", gin.H{
		"pageHeading":   "Add programme details",
		"referral":      referral,
		"participation": participation,
		"values":        values,
		"errors":        form.Errors,
		"action":        paths.DraftParticipation(paths.DraftProgrammeHistoryDetails, referral.ID, participation.ID),
		"backHref":      paths.DraftParticipation(paths.DraftProgrammeHistoryProgramme, referral.ID, participation.ID),
	})
}

// UpdateDetails handles PUT /refer/referrals/new/:referralId/programme-history/:courseParticipationId/details
func (h *CourseParticipationHandler) UpdateDetails(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	participation, ok := h.draftParticipation(c, referral)
	if !ok {
		return
	}

	var details dto.CourseParticipationDetailsForm
	if err := c.ShouldBind(&details); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	trimDetails(&details)

	form := h.validateDetails(details)
	if form.HasErrors() {
		form.Flash(requestSession(c))
		redirect(c, paths.DraftParticipation(paths.DraftProgrammeHistoryDetails, referral.ID, participation.ID))
		return
	}

	update := dto.UpdateFromParticipation(participation)
	applyDetails(&update, details)
	if _, err := h.courses.UpdateParticipation(c.Request.Context(), requestUser(c).Token, participation.ID, update); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	requestSession(c).AddFlash(constants.FlashSuccessMessage, "You have successfully updated a programme.")
	redirect(c, paths.Draft(paths.DraftProgrammeHistory, referral.ID))
}

func trimDetails(d *dto.CourseParticipationDetailsForm) {
	for _, field := range []*string{
		&d.SettingType, &d.CommunityLocation, &d.CustodyLocation, &d.OutcomeStatus,
		&d.YearStarted, &d.YearCompleted, &d.Source, &d.Detail,
	} {
		*field = strings.TrimSpace(*field)
	}
	d.Detail = utils.NormaliseNewlines(d.Detail)
}

// validateDetails checks the details form and returns the flashed form state. Every
// submitted value is kept so the page can be redisplayed as typed.
func (h *CourseParticipationHandler) validateDetails(d dto.CourseParticipationDetailsForm) utils.FormState {
	form := utils.NewFormState()
	currentYear := h.now().Year()

	yearError := func(label string) string {
		return fmt.Sprintf("Enter a year %s between %d and %d", label, constants.EarliestProgrammeYear, currentYear)
	}

	var verrs validator.ValidationErrors
	if err := h.validate.Struct(d); errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Field() {
			case "SettingType":
				form.AddError("settingType", "Select a setting")
			case "OutcomeStatus":
				form.AddError("outcomeStatus", "Select an outcome")
			case "YearStarted":
				form.AddError("yearStarted", yearError("started"))
			case "YearCompleted":
				form.AddError("yearCompleted", yearError("completed"))
			}
		}
	}

	checkYear := func(field, label, value string) int {
		if value == "" || form.Error(field) != "" {
			return 0
		}
		year, _ := strconv.Atoi(value)
		if year < constants.EarliestProgrammeYear || year > currentYear {
			form.AddError(field, yearError(label))
			return 0
		}
		return year
	}
	started := checkYear("yearStarted", "started", d.YearStarted)
	completed := checkYear("yearCompleted", "completed", d.YearCompleted)
	if started != 0 && completed != 0 && completed < started {
		form.AddError("yearCompleted", "Year completed must be the same as or after the year started")
	}

	if form.HasErrors() {
		form.SetValue("settingType", d.SettingType)
		form.SetValue("communityLocation", d.CommunityLocation)
		form.SetValue("custodyLocation", d.CustodyLocation)
		form.SetValue("outcomeStatus", d.OutcomeStatus)
		form.SetValue("yearStarted", d.YearStarted)
		form.SetValue("yearCompleted", d.YearCompleted)
		form.SetValue("source", d.Source)
		form.SetValue("detail", d.Detail)
	}
	return form
}

func applyDetails(u *dto.CourseParticipationUpdate, d dto.CourseParticipationDetailsForm) {
	u.Setting = nil
	switch model.CourseParticipationSettingType(d.SettingType) {
	case model.SettingCommunity:
		u.Setting = &model.CourseParticipationSetting{Type: model.SettingCommunity, Location: d.CommunityLocation}
	case model.SettingCustody:
		u.Setting = &model.CourseParticipationSetting{Type: model.SettingCustody, Location: d.CustodyLocation}
	}

	u.Outcome = nil
	if d.OutcomeStatus != "" || d.YearStarted != "" || d.YearCompleted != "" {
		outcome := &model.CourseParticipationOutcome{Status: model.CourseParticipationOutcomeStatus(d.OutcomeStatus)}
		outcome.YearStarted, _ = strconv.Atoi(d.YearStarted)
		outcome.YearCompleted, _ = strconv.Atoi(d.YearCompleted)
		u.Outcome = outcome
	}

	u.Source = d.Source
	u.Detail = d.Detail
}

func detailsFormFrom(p *model.CourseParticipation) dto.CourseParticipationDetailsForm {
	d := dto.CourseParticipationDetailsForm{Source: p.Source, Detail: p.Detail}
	if p.Setting != nil {
		d.SettingType = string(p.Setting.Type)
		if p.Setting.Type == model.SettingCommunity {
			d.CommunityLocation = p.Setting.Location
		} else {
			d.CustodyLocation = p.Setting.Location
		}
	}
	if p.Outcome != nil {
		d.OutcomeStatus = string(p.Outcome.Status)
		if p.Outcome.YearStarted != 0 {
			d.YearStarted = strconv.Itoa(p.Outcome.YearStarted)
		}
		if p.Outcome.YearCompleted != 0 {
			d.YearCompleted = strconv.Itoa(p.Outcome.YearCompleted)
		}
	}
	return d
}

// ConfirmDelete handles GET /refer/referrals/new/:referralId/programme-history/:courseParticipationId/delete
func (h *CourseParticipationHandler) ConfirmDelete(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	participation, ok := h.draftParticipation(c, referral)
	if !ok {
		return
	}
	h.renderer.Render(c, http.StatusOK, "referrals/courseParticipations/delete", gin.H{
		"pageHeading":   "Remove programme",
		"referral":      referral,
		"participation": participation,
		"summary":       utils.CourseParticipationSummary(participation),
		"action":        paths.DraftParticipation(paths.DraftProgrammeHistoryDelete, referral.ID, participation.ID),
		"backHref":      paths.Draft(paths.DraftProgrammeHistory, referral.ID),
	})
}

// Delete handles DELETE /refer/referrals/new/:referralId/programme-history/:courseParticipationId/delete
func (h *CourseParticipationHandler) Delete(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	participation, ok := h.draftParticipation(c, referral)
	if !ok {
		return
	}
	if err := h.courses.DeleteParticipation(c.Request.Context(), requestUser(c).Token, participation.ID); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	requestSession(c).AddFlash(constants.FlashSuccessMessage, "You have successfully removed a programme.")
	redirect(c, paths.Draft(paths.DraftProgrammeHistory, referral.ID))
}

// UpdateReviewedStatus handles PUT /refer/referrals/new/:referralId/programme-history/review
func (h *CourseParticipationHandler) UpdateReviewedStatus(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	update := dto.UpdateFromReferral(referral)
	update.HasReviewedProgrammeHistory = true
	if err := h.referrals.UpdateReferral(c.Request.Context(), requestUser(c).Token, referral.ID, update); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	redirect(c, paths.Draft(paths.ShowDraft, referral.ID))
}

// draftParticipation loads the participation named in the path. Entries recorded outside
// this referral are read only and send the user back to the index.
func (h *CourseParticipationHandler) draftParticipation(c *gin.Context, referral *model.Referral) (*model.CourseParticipation, bool) {
	participation, err := h.courses.GetParticipation(c.Request.Context(), requestUser(c).Token, c.Param("courseParticipationId"))
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return nil, false
	}
	if !participation.IsDraftFor(referral.ID) {
		redirect(c, paths.Draft(paths.DraftProgrammeHistory, referral.ID))
		return nil, false
	}
	return participation, true
}

// RegisterRoutes registers the programme history routes
func (h *CourseParticipationHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(paths.DraftProgrammeHistory, h.Index)
	r.POST(paths.DraftProgrammeHistory, h.Create)
	r.GET(paths.DraftProgrammeHistoryNew, h.New)
	r.PUT(paths.DraftProgrammeHistoryReview, h.UpdateReviewedStatus)
	r.POST(paths.DraftProgrammeHistoryReview, h.UpdateReviewedStatus)
	r.GET(paths.DraftProgrammeHistoryProgramme, h.EditProgramme)
	r.PUT(paths.DraftProgrammeHistoryProgramme, h.UpdateProgramme)
	r.POST(paths.DraftProgrammeHistoryProgramme, h.UpdateProgramme)
	r.GET(paths.DraftProgrammeHistoryDetails, h.EditDetails)
	r.PUT(paths.DraftProgrammeHistoryDetails, h.UpdateDetails)
	r.POST(paths.DraftProgrammeHistoryDetails, h.UpdateDetails)
	r.GET(paths.DraftProgrammeHistoryDelete, h.ConfirmDelete)
	r.DELETE(paths.DraftProgrammeHistoryDelete, h.Delete)
	r.POST(paths.DraftProgrammeHistoryDelete, h.Delete)
}
