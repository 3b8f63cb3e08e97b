package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredited-programmes-ui/internal/middleware"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/session"
)

func newSubmittedRouter(user *model.User, referrals *fakeReferrals, people *fakePeople, renderer *fakeRenderer) *gin.Engine {
	h := NewSubmittedReferralHandler(referrals, newFakeCourses(), people,
		&fakeUsers{names: map[string]string{"PT_USER": "Programme Team"}}, renderer, testLogger())
	return newTestRouter(session.New(), user, func(r *gin.Engine) {
		h.RegisterRoutes(r.Group("", middleware.RequireRole(model.RoleReferrer)), paths.Refer)
		h.RegisterRoutes(r.Group("", middleware.RequireRole(model.RoleProgrammeTeam)), paths.Assess)
	})
}

func TestSubmittedPagesRenderUnderBothBases(t *testing.T) {
	pages := map[string]string{
		paths.PersonalDetailsSuffix:       "referrals/show/personalDetails",
		paths.ProgrammeHistorySuffix:      "referrals/show/programmeHistory",
		paths.OffenceHistorySuffix:        "referrals/show/offenceHistory",
		paths.SentenceInformationSuffix:   "referrals/show/sentenceInformation",
		paths.AdditionalInformationSuffix: "referrals/show/additionalInformation",
		paths.StatusHistorySuffix:         "referrals/show/statusHistory",
	}
	bases := map[paths.PathBase]*model.User{paths.Refer: referrer(), paths.Assess: programmeTeam()}

	for base, user := range bases {
		for suffix, template := range pages {
			t.Run(base.String()+suffix, func(t *testing.T) {
				renderer := &fakeRenderer{}
				router := newSubmittedRouter(user, newFakeReferrals(submittedReferral("referral-1")), newFakePeople(), renderer)

				w := perform(router, http.MethodGet, paths.Build(base.Route(suffix), "referralId", "referral-1"), nil)

				require.Equal(t, http.StatusOK, w.Code)
				call := renderer.last(t)
				assert.Equal(t, template, call.Name)
				assert.Equal(t, base.String(), call.Data["pathBase"])
				assert.Equal(t, base.WithdrawCategory("referral-1"), call.Data["withdrawHref"])
				nav := call.Data["navigation"].([]navigationItem)
				assert.Equal(t, base.PersonalDetails("referral-1"), nav[0].Href)
			})
		}
	}
}

func TestSubmittedPagesRedirectDraftsToShow(t *testing.T) {
	renderer := &fakeRenderer{}
	router := newSubmittedRouter(referrer(), newFakeReferrals(startedReferral("referral-1")), newFakePeople(), renderer)

	w := perform(router, http.MethodGet, paths.Refer.PersonalDetails("referral-1"), nil)

	assert.Equal(t, "/refer/referrals/new/referral-1", w.Header().Get("Location"))
}

func TestReferrerCannotViewOthersSubmittedReferral(t *testing.T) {
	referral := submittedReferral("referral-1")
	referral.ReferrerUsername = "SOMEONE_ELSE"
	people := newFakePeople()
	router := newSubmittedRouter(referrer(), newFakeReferrals(referral), people, &fakeRenderer{})

	w := perform(router, http.MethodGet, paths.Refer.PersonalDetails("referral-1"), nil)

	assert.Equal(t, paths.AuthError, w.Header().Get("Location"))
	assert.Zero(t, people.calls)
}

func TestStatusHistoryFillsDisplayNames(t *testing.T) {
	referrals := newFakeReferrals(submittedReferral("referral-1"))
	referrals.history = []model.ReferralStatusHistory{
		{ID: "h2", Status: "WITHDRAWN", Username: "PT_USER"},
		{ID: "h1", Status: "REFERRAL_SUBMITTED", Username: testReferrer, ByUserDisplayName: "Referrer User"},
	}
	renderer := &fakeRenderer{}
	router := newSubmittedRouter(programmeTeam(), referrals, newFakePeople(), renderer)

	perform(router, http.MethodGet, paths.Assess.StatusHistory("referral-1"), nil)

	history := renderer.last(t).Data["statusHistory"].([]model.ReferralStatusHistory)
	assert.Equal(t, "Programme Team", history[0].ByUserDisplayName)
	assert.Equal(t, "Referrer User", history[1].ByUserDisplayName)
}

func TestOffenceHistorySplitsIndexOffence(t *testing.T) {
	people := newFakePeople()
	people.offences = []model.OffenceHistoryDetail{
		{OffenceCode: "RR84070", MainOffence: true},
		{OffenceCode: "TH68001"},
	}
	renderer := &fakeRenderer{}
	router := newSubmittedRouter(programmeTeam(), newFakeReferrals(submittedReferral("referral-1")), people, renderer)

	perform(router, http.MethodGet, paths.Build(paths.Assess.Route(paths.OffenceHistorySuffix), "referralId", "referral-1"), nil)

	call := renderer.last(t)
	assert.Len(t, call.Data["indexOffences"], 1)
	assert.Len(t, call.Data["additionalOffences"], 1)
}
