package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/session"
)

func TestPniFindPerson(t *testing.T) {
	sess := session.New()
	renderer := &fakeRenderer{}
	pni := &fakePni{score: &model.PniScore{PrisonNumber: "A1234AA", ProgrammePathway: "HIGH_INTENSITY_BC"}}
	router := newTestRouter(sess, referrer(), func(r *gin.Engine) {
		NewPniHandler(newFakePeople(), pni, renderer, testLogger()).RegisterRoutes(r)
	})

	w := perform(router, http.MethodPost, paths.PniFindPerson, url.Values{"prisonNumber": {"a1234aa"}})
	assert.Equal(t, paths.RecommendedPathway, w.Header().Get("Location"))
	require.NotNil(t, sess.PniFindAndReferData)
	assert.Equal(t, "A1234AA", sess.PniFindAndReferData.PrisonNumber)

	w = perform(router, http.MethodGet, paths.RecommendedPathway, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIGH_INTENSITY_BC", renderer.last(t).Data["programmePathway"])
}

func TestPniFindPersonNotFound(t *testing.T) {
	sess := session.New()
	router := newTestRouter(sess, referrer(), func(r *gin.Engine) {
		NewPniHandler(newFakePeople(), &fakePni{}, &fakeRenderer{}, testLogger()).RegisterRoutes(r)
	})

	w := perform(router, http.MethodPost, paths.PniFindPerson, url.Values{"prisonNumber": {"Z9999ZZ"}})

	assert.Equal(t, paths.PniFindPerson, w.Header().Get("Location"))
	assert.Nil(t, sess.PniFindAndReferData)
	assert.Equal(t, []string{"No person with a prison number 'Z9999ZZ' was found"},
		sess.Flash[constants.FlashErrors+"prisonNumber"])
}

func TestRecommendedPathwayWithoutPersonRedirects(t *testing.T) {
	router := newTestRouter(session.New(), referrer(), func(r *gin.Engine) {
		NewPniHandler(newFakePeople(), &fakePni{}, &fakeRenderer{}, testLogger()).RegisterRoutes(r)
	})

	w := perform(router, http.MethodGet, paths.RecommendedPathway, nil)

	assert.Equal(t, paths.PniFindPerson, w.Header().Get("Location"))
}

func TestRecommendedPathwayWithoutScore(t *testing.T) {
	sess := session.New()
	sess.PniFindAndReferData = &session.PniFindAndReferData{PrisonNumber: "A1234AA"}
	renderer := &fakeRenderer{}
	router := newTestRouter(sess, referrer(), func(r *gin.Engine) {
		NewPniHandler(newFakePeople(), &fakePni{}, renderer, testLogger()).RegisterRoutes(r)
	})

	perform(router, http.MethodGet, paths.RecommendedPathway, nil)

	assert.Equal(t, "MISSING_INFORMATION", renderer.last(t).Data["programmePathway"])
}

func TestCourseOfferingPage(t *testing.T) {
	renderer := &fakeRenderer{}
	router := newTestRouter(session.New(), referrer(), func(r *gin.Engine) {
		NewCourseHandler(newFakeCourses(), newFakeOrganisations(), renderer, testLogger()).RegisterRoutes(r)
	})

	w := perform(router, http.MethodGet, "/find/offerings/offering-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	call := renderer.last(t)
	assert.Equal(t, "/refer/offerings/offering-1/referrals/start", call.Data["makeReferralHref"])
	assert.Equal(t, "Moorland (HMP & YOI)", call.Data["organisation"].(*model.Organisation).Name)
}

func TestCoursePageDropsUnknownOrganisations(t *testing.T) {
	courses := newFakeCourses()
	courses.offerings = append(courses.offerings, model.CourseOffering{ID: "offering-2", OrganisationID: "XXX"})
	renderer := &fakeRenderer{}
	router := newTestRouter(session.New(), programmeTeam(), func(r *gin.Engine) {
		NewCourseHandler(courses, newFakeOrganisations(), renderer, testLogger()).RegisterRoutes(r)
	})

	perform(router, http.MethodGet, "/find/programmes/course-1", nil)

	rows := renderer.last(t).Data["offerings"].([]offeringRow)
	require.Len(t, rows, 1)
	assert.Equal(t, "offering-1", rows[0].Offering.ID)
}

func TestReportsFetchesEveryReportType(t *testing.T) {
	statistics := &fakeStatistics{}
	renderer := &fakeRenderer{}
	h := NewReportHandler(statistics, renderer, testLogger())
	h.now = func() time.Time { return time.Date(2024, 3, 18, 10, 0, 0, 0, time.UTC) }
	router := newTestRouter(session.New(), programmeTeam(), func(r *gin.Engine) { h.RegisterRoutes(r) })

	w := perform(router, http.MethodGet, paths.Reports, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, statistics.types, 4)
	call := renderer.last(t)
	assert.Equal(t, "2024-03-01", call.Data["startDate"])
	assert.Equal(t, []string{"MDI"}, call.Data["locations"])
}

func TestReportsRejectsInvalidDates(t *testing.T) {
	statistics := &fakeStatistics{}
	renderer := &fakeRenderer{}
	router := newTestRouter(session.New(), programmeTeam(), func(r *gin.Engine) {
		NewReportHandler(statistics, renderer, testLogger()).RegisterRoutes(r)
	})

	perform(router, http.MethodGet, "/reports?startDate=2024-05-01&endDate=2024-04-01", nil)

	assert.Empty(t, statistics.types)
	assert.Equal(t, map[string]string{"endDate": "End date must be after the start date"}, renderer.last(t).Data["errors"])
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		healthy  bool
		wantCode int
	}{
		{name: "healthy", healthy: true, wantCode: http.StatusOK},
		{name: "unhealthy", healthy: false, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := &fakeHealth{result: dto.HealthResponse{
				Healthy: tt.healthy,
				Checks:  map[string]string{"hmppsAuth": "ok"},
				Build:   dto.BuildInfo{BuildNumber: "1_0_0", GitRef: "abc"},
			}}
			router := newTestRouter(session.New(), nil, func(r *gin.Engine) { NewHealthHandler(health).RegisterRoutes(r) })

			w := perform(router, http.MethodGet, paths.Health, nil)

			assert.Equal(t, tt.wantCode, w.Code)
			var body dto.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.healthy, body.Healthy)
			assert.Equal(t, "ok", body.Checks["hmppsAuth"])
		})
	}
}

func TestPing(t *testing.T) {
	router := newTestRouter(session.New(), nil, func(r *gin.Engine) { NewHealthHandler(&fakeHealth{}).RegisterRoutes(r) })

	w := perform(router, http.MethodGet, paths.Ping, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func newAuthRouter(sess *session.Session, auth *fakeAuthClient, audit *fakeAudit, renderer *fakeRenderer) *gin.Engine {
	h := NewAuthHandler(auth, audit, "https://acp.example.com/", renderer, testLogger())
	return newTestRouter(sess, nil, func(r *gin.Engine) { h.RegisterPublicRoutes(r) })
}

func TestSignInStoresState(t *testing.T) {
	sess := session.New()
	router := newAuthRouter(sess, &fakeAuthClient{}, &fakeAudit{}, &fakeRenderer{})

	w := perform(router, http.MethodGet, paths.SignIn, nil)

	require.Equal(t, http.StatusFound, w.Code)
	require.NotEmpty(t, sess.AuthState)
	location := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "https://auth.example.com/oauth/authorize?state="+sess.AuthState))
	assert.Contains(t, location, url.QueryEscape("https://acp.example.com/sign-in/callback"))
}

func TestSignInCallback(t *testing.T) {
	sess := session.New()
	sess.AuthState = "state-1"
	sess.ReturnTo = "/refer/referrals/case-list"
	auth := &fakeAuthClient{token: &client.TokenResponse{AccessToken: "header.payload.signature"}}
	audit := &fakeAudit{}
	router := newAuthRouter(sess, auth, audit, &fakeRenderer{})

	w := perform(router, http.MethodGet, "/sign-in/callback?state=state-1&code=code-1", nil)

	assert.Equal(t, "/refer/referrals/case-list", w.Header().Get("Location"))
	assert.Equal(t, "header.payload.signature", sess.UserToken)
	assert.Empty(t, sess.AuthState)
	assert.Empty(t, sess.ReturnTo)
	assert.Equal(t, []string{"code-1"}, auth.codes)
	assert.Equal(t, "https://acp.example.com/sign-in/callback", auth.redirect)
	require.Len(t, audit.events, 1)
	assert.Equal(t, constants.AuditSignInEvent, audit.events[0].What)
}

func TestSignInCallbackRejected(t *testing.T) {
	tests := []struct {
		name   string
		state  string
		target string
		err    error
	}{
		{name: "state mismatch", state: "state-1", target: "/sign-in/callback?state=other&code=code-1"},
		{name: "no stored state", target: "/sign-in/callback?state=&code=code-1"},
		{name: "missing code", state: "state-1", target: "/sign-in/callback?state=state-1"},
		{name: "exchange failure", state: "state-1", target: "/sign-in/callback?state=state-1&code=code-1", err: errors.New("denied")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.New()
			sess.AuthState = tt.state
			router := newAuthRouter(sess, &fakeAuthClient{err: tt.err, token: &client.TokenResponse{}}, &fakeAudit{}, &fakeRenderer{})

			w := perform(router, http.MethodGet, tt.target, nil)

			assert.Equal(t, paths.AuthError, w.Header().Get("Location"))
			assert.Empty(t, sess.UserToken)
		})
	}
}

func TestSignInCallbackIgnoresOffSiteReturnTo(t *testing.T) {
	sess := session.New()
	sess.AuthState = "state-1"
	sess.ReturnTo = "//evil.example.com"
	router := newAuthRouter(sess, &fakeAuthClient{token: &client.TokenResponse{AccessToken: "t"}}, &fakeAudit{}, &fakeRenderer{})

	w := perform(router, http.MethodGet, "/sign-in/callback?state=state-1&code=code-1", nil)

	assert.Equal(t, paths.Dashboard, w.Header().Get("Location"))
}

func TestSignOut(t *testing.T) {
	sess := session.New()
	sess.UserToken = "token"
	sess.User = referrer()
	router := newAuthRouter(sess, &fakeAuthClient{}, &fakeAudit{}, &fakeRenderer{})

	w := perform(router, http.MethodGet, paths.SignOut, nil)

	assert.Equal(t, "https://auth.example.com/sign-out?redirect_uri="+url.QueryEscape("https://acp.example.com"), w.Header().Get("Location"))
	assert.Empty(t, sess.UserToken)
	assert.Nil(t, sess.User)
}

func TestAuthErrorPage(t *testing.T) {
	renderer := &fakeRenderer{}
	router := newAuthRouter(session.New(), &fakeAuthClient{}, &fakeAudit{}, renderer)

	w := perform(router, http.MethodGet, paths.AuthError, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "autherror", renderer.last(t).Name)
}
