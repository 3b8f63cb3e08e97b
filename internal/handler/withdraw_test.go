package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/middleware"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/session"
)

type withdrawFixture struct {
	referrals *fakeReferrals
	audit     *fakeAudit
	renderer  *fakeRenderer
	sess      *session.Session
	router    *gin.Engine
}

func newWithdrawFixture(user *model.User, data *session.ReferralStatusUpdateData) *withdrawFixture {
	f := &withdrawFixture{
		referrals: newFakeReferrals(submittedReferral("referral-1")),
		audit:     &fakeAudit{},
		renderer:  &fakeRenderer{},
		sess:      session.New(),
	}
	f.sess.ReferralStatusUpdateData = data
	refData := &fakeRefData{
		categories: []model.ReferralStatusCategory{{Code: "W_ADMIN", Description: "Administrative error"}},
		reasons: map[string][]model.ReferralStatusReason{
			"W_ADMIN": {{Code: "W_DUPLICATE", Description: "Duplicate referral"}},
		},
	}
	h := NewWithdrawHandler(f.referrals, refData, f.audit, f.renderer, testLogger())
	f.router = newTestRouter(f.sess, user, func(r *gin.Engine) {
		h.RegisterRoutes(r, paths.Refer)
		h.RegisterRoutes(r.Group("", middleware.RequireRole(model.RoleProgrammeTeam)), paths.Assess)
	})
	return f
}

func wizardData(category, reason string) *session.ReferralStatusUpdateData {
	return &session.ReferralStatusUpdateData{
		ReferralID:         "referral-1",
		Status:             constants.WithdrawnStatus,
		StatusCategoryCode: category,
		StatusReasonCode:   reason,
	}
}

func TestWithdrawCategoryRequired(t *testing.T) {
	f := newWithdrawFixture(referrer(), nil)

	w := perform(f.router, http.MethodPost, "/refer/referrals/referral-1/withdraw", url.Values{"categoryCode": {""}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/refer/referrals/referral-1/withdraw", w.Header().Get("Location"))
	assert.Equal(t, []string{"Select a withdrawal category"}, f.sess.Flash[constants.FlashErrors+"categoryCode"])
	assert.Nil(t, f.sess.ReferralStatusUpdateData)
}

func TestWithdrawCategoryStoresState(t *testing.T) {
	f := newWithdrawFixture(referrer(), nil)

	w := perform(f.router, http.MethodPost, "/refer/referrals/referral-1/withdraw", url.Values{"categoryCode": {"W_ADMIN"}})

	assert.Equal(t, "/refer/referrals/referral-1/withdraw-reason", w.Header().Get("Location"))
	require.NotNil(t, f.sess.ReferralStatusUpdateData)
	assert.True(t, f.sess.ReferralStatusUpdateData.Matches("referral-1", constants.WithdrawnStatus))
	assert.Equal(t, "W_ADMIN", f.sess.ReferralStatusUpdateData.StatusCategoryCode)
}

func TestWithdrawCategoryPageStartsWizard(t *testing.T) {
	f := newWithdrawFixture(referrer(), &session.ReferralStatusUpdateData{ReferralID: "other", Status: constants.WithdrawnStatus})

	w := perform(f.router, http.MethodGet, "/refer/referrals/referral-1/withdraw", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "referrals/withdraw/category", f.renderer.last(t).Name)
	assert.True(t, f.sess.ReferralStatusUpdateData.Matches("referral-1", constants.WithdrawnStatus))
	assert.Equal(t, "/refer/referrals/referral-1/status-history", f.sess.ReferralStatusUpdateData.PreviousPath)
}

func TestWithdrawStepsRequireMatchingState(t *testing.T) {
	steps := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/refer/referrals/referral-1/withdraw-reason"},
		{http.MethodPost, "/refer/referrals/referral-1/withdraw-reason"},
		{http.MethodGet, "/refer/referrals/referral-1/withdraw-reason-information"},
		{http.MethodPost, "/refer/referrals/referral-1/withdraw-reason-information"},
	}
	states := map[string]*session.ReferralStatusUpdateData{
		"missing":        nil,
		"other referral": {ReferralID: "referral-2", Status: constants.WithdrawnStatus},
		"other status":   {ReferralID: "referral-1", Status: "ON_PROGRAMME"},
	}

	for name, state := range states {
		for _, step := range steps {
			t.Run(name+" "+step.method+" "+step.target, func(t *testing.T) {
				f := newWithdrawFixture(referrer(), state)

				w := perform(f.router, step.method, step.target, url.Values{"reasonCode": {"X"}, "reason": {"text"}})

				assert.Equal(t, "/refer/referrals/referral-1/withdraw", w.Header().Get("Location"))
				assert.Empty(t, f.referrals.statusUpdates)
			})
		}
	}
}

func TestWithdrawReasonWithoutReasonsSkipsToInformation(t *testing.T) {
	f := newWithdrawFixture(referrer(), wizardData("W_NO_REASONS", ""))

	w := perform(f.router, http.MethodGet, "/refer/referrals/referral-1/withdraw-reason", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/refer/referrals/referral-1/withdraw-reason-information", w.Header().Get("Location"))
}

func TestWithdrawReasonPage(t *testing.T) {
	f := newWithdrawFixture(referrer(), wizardData("W_ADMIN", ""))

	w := perform(f.router, http.MethodGet, "/refer/referrals/referral-1/withdraw-reason", nil)

	require.Equal(t, http.StatusOK, w.Code)
	call := f.renderer.last(t)
	assert.Equal(t, "referrals/withdraw/reason", call.Name)
	assert.Len(t, call.Data["reasons"], 1)
}

func TestWithdrawReasonRequired(t *testing.T) {
	f := newWithdrawFixture(referrer(), wizardData("W_ADMIN", ""))

	w := perform(f.router, http.MethodPost, "/refer/referrals/referral-1/withdraw-reason", url.Values{})

	assert.Equal(t, "/refer/referrals/referral-1/withdraw-reason", w.Header().Get("Location"))
	assert.Equal(t, []string{"Select a withdrawal reason"}, f.sess.Flash[constants.FlashErrors+"reasonCode"])
}

func TestWithdrawReasonStored(t *testing.T) {
	f := newWithdrawFixture(referrer(), wizardData("W_ADMIN", ""))

	w := perform(f.router, http.MethodPost, "/refer/referrals/referral-1/withdraw-reason",
		url.Values{"reasonCode": {"W_DUPLICATE"}})

	assert.Equal(t, "/refer/referrals/referral-1/withdraw-reason-information", w.Header().Get("Location"))
	assert.Equal(t, "W_DUPLICATE", f.sess.ReferralStatusUpdateData.StatusReasonCode)
}

func TestWithdrawReasonInformationValidation(t *testing.T) {
	tests := []struct {
		name      string
		reason    string
		wantError string
		wantValue []string
	}{
		{name: "empty", reason: "  ", wantError: "Enter a reason"},
		{
			name:      "too long",
			reason:    strings.Repeat("x", 101),
			wantError: "Reason must be 100 characters or fewer",
			wantValue: []string{strings.Repeat("x", 101)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWithdrawFixture(referrer(), wizardData("W_ADMIN", "W_DUPLICATE"))

			w := perform(f.router, http.MethodPost, "/refer/referrals/referral-1/withdraw-reason-information",
				url.Values{"reason": {tt.reason}})

			assert.Equal(t, "/refer/referrals/referral-1/withdraw-reason-information", w.Header().Get("Location"))
			assert.Equal(t, []string{tt.wantError}, f.sess.Flash[constants.FlashErrors+"reason"])
			assert.Equal(t, tt.wantValue, f.sess.Flash[constants.FlashValues+"reason"])
			assert.Empty(t, f.referrals.statusUpdates)
			assert.NotNil(t, f.sess.ReferralStatusUpdateData)
		})
	}
}

func TestWithdrawReferral(t *testing.T) {
	tests := []struct {
		name     string
		user     *model.User
		base     paths.PathBase
		wantPt   bool
		wantHist string
	}{
		{name: "referrer", user: referrer(), base: paths.Refer, wantHist: "/refer/referrals/referral-1/status-history"},
		{name: "programme team", user: programmeTeam(), base: paths.Assess, wantPt: true, wantHist: "/assess/referrals/referral-1/status-history"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWithdrawFixture(tt.user, wizardData("W_ADMIN", "W_DUPLICATE"))

			w := perform(f.router, http.MethodPost, tt.base.WithdrawReasonInformation("referral-1"),
				url.Values{"reason": {" No longer needed "}})

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.wantHist, w.Header().Get("Location"))
			assert.Equal(t, []dto.ReferralStatusUpdate{{
				Status:   "WITHDRAWN",
				Category: "W_ADMIN",
				Reason:   "W_DUPLICATE",
				Notes:    "No longer needed",
				PtUser:   tt.wantPt,
			}}, f.referrals.statusUpdates)
			assert.Nil(t, f.sess.ReferralStatusUpdateData)
			require.Len(t, f.audit.events, 1)
			assert.Equal(t, constants.AuditWithdrawReferralEvent, f.audit.events[0].What)
			assert.Equal(t, tt.user.Username, f.audit.events[0].Who)
		})
	}
}

func TestWithdrawFailureStillClearsState(t *testing.T) {
	f := newWithdrawFixture(referrer(), wizardData("W_ADMIN", ""))
	f.referrals.statusErr = errors.New("upstream down")

	w := perform(f.router, http.MethodPost, "/refer/referrals/referral-1/withdraw-reason-information",
		url.Values{"reason": {"Moved prison"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Nil(t, f.sess.ReferralStatusUpdateData)
	assert.Empty(t, f.audit.events)
}

func TestAssessWithdrawRequiresProgrammeTeam(t *testing.T) {
	f := newWithdrawFixture(referrer(), nil)

	w := perform(f.router, http.MethodGet, "/assess/referrals/referral-1/withdraw", nil)

	assert.Equal(t, paths.AuthError, w.Header().Get("Location"))
	assert.Nil(t, f.sess.ReferralStatusUpdateData)
}

func TestReferrerCannotWithdrawOthersReferral(t *testing.T) {
	f := newWithdrawFixture(referrer(), nil)
	f.referrals.referrals["referral-1"].ReferrerUsername = "SOMEONE_ELSE"

	w := perform(f.router, http.MethodPost, "/refer/referrals/referral-1/withdraw", url.Values{"categoryCode": {"W_ADMIN"}})

	assert.Equal(t, paths.AuthError, w.Header().Get("Location"))
	assert.Nil(t, f.sess.ReferralStatusUpdateData)
}

func TestWithdrawReasonChecksReferral(t *testing.T) {
	t.Run("not the referrer", func(t *testing.T) {
		f := newWithdrawFixture(referrer(), wizardData("W_ADMIN", ""))
		f.referrals.referrals["referral-1"].ReferrerUsername = "SOMEONE_ELSE"

		w := perform(f.router, http.MethodPost, "/refer/referrals/referral-1/withdraw-reason",
			url.Values{"reasonCode": {"W_DUPLICATE"}})

		assert.Equal(t, paths.AuthError, w.Header().Get("Location"))
		assert.Empty(t, f.sess.ReferralStatusUpdateData.StatusReasonCode)
	})

	t.Run("referral gone", func(t *testing.T) {
		f := newWithdrawFixture(referrer(), wizardData("W_ADMIN", ""))
		delete(f.referrals.referrals, "referral-1")

		w := perform(f.router, http.MethodPost, "/refer/referrals/referral-1/withdraw-reason",
			url.Values{"reasonCode": {"W_DUPLICATE"}})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "pages/error", f.renderer.last(t).Name)
		assert.Empty(t, f.sess.ReferralStatusUpdateData.StatusReasonCode)
	})
}
