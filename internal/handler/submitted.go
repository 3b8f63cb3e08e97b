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
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

// SubmittedReferralHandler serves the read only pages of a submitted referral under
// both path bases
type SubmittedReferralHandler struct {
	referrals ReferralService
	courses   CourseService
	people    PersonService
	users     UserService
	renderer  view.Renderer
	logger    *zap.Logger
	guard     referralGuard
}

// NewSubmittedReferralHandler creates a new submitted referral handler
func NewSubmittedReferralHandler(
	referrals ReferralService,
	courses CourseService,
	people PersonService,
	users UserService,
	renderer view.Renderer,
	logger *zap.Logger,
) *SubmittedReferralHandler {
	return &SubmittedReferralHandler{
		referrals: referrals,
		courses:   courses,
		people:    people,
		users:     users,
		renderer:  renderer,
		logger:    logger,
		guard:     referralGuard{referrals: referrals, renderer: renderer, logger: logger},
	}
}

// referralPage is the data shared by every submitted referral page
type referralPage struct {
	Referral *model.Referral
	Person   *model.Person
	Course   *model.Course
}

func (h *SubmittedReferralHandler) load(c *gin.Context, base paths.PathBase) (*referralPage, bool) {
	var (
		referral *model.Referral
		ok       bool
	)
	if base == paths.Refer {
		referral, ok = h.guard.owned(c)
	} else {
		referral, ok = h.guard.fetch(c)
	}
	if !ok {
		return nil, false
	}
	if referral.IsStarted() {
		redirect(c, paths.Draft(paths.ShowDraft, referral.ID))
		return nil, false
	}

	page := &referralPage{Referral: referral}
	user := requestUser(c)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		page.Person, err = h.people.GetPerson(ctx, user.Username, referral.PrisonNumber)
		if err == nil && page.Person == nil {
			err = constants.ErrPersonNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		page.Course, err = h.courses.GetCourseByOffering(ctx, user.Token, referral.OfferingID)
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return nil, false
	}
	return page, true
}

func (h *SubmittedReferralHandler) render(c *gin.Context, base paths.PathBase, page *referralPage, name, heading string, data gin.H) {
	data["pageHeading"] = heading
	data["referral"] = page.Referral
	data["person"] = page.Person
	data["course"] = page.Course
	data["pathBase"] = base.String()
	data["navigation"] = submittedNavigation(base, page.Referral.ID)
	if !page.Referral.Closed {
		data["withdrawHref"] = base.WithdrawCategory(page.Referral.ID)
	}
	h.renderer.Render(c, http.StatusOK, name, data)
}

type navigationItem struct {
	Text string
	Href string
}

func submittedNavigation(base paths.PathBase, referralID string) []navigationItem {
	build := func(suffix string) string {
		return paths.Build(base.Route(suffix), "referralId", referralID)
	}
	return []navigationItem{
		{Text: "Personal details", Href: build(paths.PersonalDetailsSuffix)},
		{Text: "Programme history", Href: build(paths.ProgrammeHistorySuffix)},
		{Text: "Offence history", Href: build(paths.OffenceHistorySuffix)},
		{Text: "Sentence information", Href: build(paths.SentenceInformationSuffix)},
		{Text: "Additional information", Href: build(paths.AdditionalInformationSuffix)},
		{Text: "Status history", Href: build(paths.StatusHistorySuffix)},
	}
}

// PersonalDetails handles GET {base}/referrals/:referralId/personal-details
func (h *SubmittedReferralHandler) PersonalDetails(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := h.load(c, base)
		if !ok {
			return
		}
		h.render(c, base, page, "referrals/show/personalDetails", "Personal details", gin.H{})
	}
}

// ProgrammeHistory handles GET {base}/referrals/:referralId/programme-history
func (h *SubmittedReferralHandler) ProgrammeHistory(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := h.load(c, base)
		if !ok {
			return
		}
		participations, err := h.courses.GetParticipationsByPerson(c.Request.Context(), requestUser(c).Token, page.Referral.PrisonNumber)
		if err != nil {
			renderError(c, h.renderer, h.logger, err)
			return
		}
		summaries := make([][]utils.SummaryListRow, 0, len(participations))
		for i := range participations {
			summaries = append(summaries, utils.CourseParticipationSummary(&participations[i]))
		}
		h.render(c, base, page, "referrals/show/programmeHistory", "Programme history", gin.H{
			"participationSummaries": summaries,
		})
	}
}

// OffenceHistory handles GET {base}/referrals/:referralId/offence-history
func (h *SubmittedReferralHandler) OffenceHistory(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := h.load(c, base)
		if !ok {
			return
		}
		offences, err := h.people.GetOffenceHistory(c.Request.Context(), requestUser(c).Username, page.Referral.PrisonNumber)
		if err != nil {
			renderError(c, h.renderer, h.logger, err)
			return
		}
		var index, additional []model.OffenceHistoryDetail
		for _, o := range offences {
			if o.MainOffence {
				index = append(index, o)
			} else {
				additional = append(additional, o)
			}
		}
		h.render(c, base, page, "referrals/show/offenceHistory", "Offence history", gin.H{
			"indexOffences":      index,
			"additionalOffences": additional,
		})
	}
}

// SentenceInformation handles GET {base}/referrals/:referralId/sentence-information
func (h *SubmittedReferralHandler) SentenceInformation(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := h.load(c, base)
		if !ok {
			return
		}
		var sentence *model.SentenceDetails
		if page.Person.BookingID != "" {
			var err error
			sentence, err = h.people.GetSentenceDetails(c.Request.Context(), requestUser(c).Username, page.Person.BookingID)
			if err != nil {
				renderError(c, h.renderer, h.logger, err)
				return
			}
		}
		h.render(c, base, page, "referrals/show/sentenceInformation", "Sentence information", gin.H{
			"sentenceDetails": sentence,
		})
	}
}

// AdditionalInformation handles GET {base}/referrals/:referralId/additional-information
func (h *SubmittedReferralHandler) AdditionalInformation(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := h.load(c, base)
		if !ok {
			return
		}
		h.render(c, base, page, "referrals/show/additionalInformation", "Additional information", gin.H{
			"additionalInformation": page.Referral.AdditionalInformation,
		})
	}
}

// StatusHistory handles GET {base}/referrals/:referralId/status-history
func (h *SubmittedReferralHandler) StatusHistory(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := h.load(c, base)
		if !ok {
			return
		}
		user := requestUser(c)
		history, err := h.referrals.GetStatusHistory(c.Request.Context(), user.Token, page.Referral.ID)
		if err != nil {
			renderError(c, h.renderer, h.logger, err)
			return
		}

		names := map[string]string{}
		for i := range history {
			entry := &history[i]
			if entry.ByUserDisplayName != "" || entry.Username == "" {
				continue
			}
			name, seen := names[entry.Username]
			if !seen {
				name = h.users.GetFullNameFromUsername(c.Request.Context(), user.Token, entry.Username)
				names[entry.Username] = name
			}
			entry.ByUserDisplayName = name
		}

		h.render(c, base, page, "referrals/show/statusHistory", "Status history", gin.H{
			"statusHistory":  history,
			"successMessage": firstFlash(c, constants.FlashSuccessMessage),
		})
	}
}

// RegisterRoutes registers the submitted referral pages under base
func (h *SubmittedReferralHandler) RegisterRoutes(r gin.IRoutes, base paths.PathBase) {
	r.GET(base.Route(paths.PersonalDetailsSuffix), h.PersonalDetails(base))
	r.GET(base.Route(paths.ProgrammeHistorySuffix), h.ProgrammeHistory(base))
	r.GET(base.Route(paths.OffenceHistorySuffix), h.OffenceHistory(base))
	r.GET(base.Route(paths.SentenceInformationSuffix), h.SentenceInformation(base))
	r.GET(base.Route(paths.AdditionalInformationSuffix), h.AdditionalInformation(base))
	r.GET(base.Route(paths.StatusHistorySuffix), h.StatusHistory(base))
}
