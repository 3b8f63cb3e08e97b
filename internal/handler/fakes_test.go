package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/session"
)

const (
	testReferrer = "REFERRER_USER"
	testToken    = "user-token"
)

type renderCall struct {
	Status int
	Name   string
	Data   gin.H
}

type fakeRenderer struct {
	calls []renderCall
}

func (r *fakeRenderer) Render(c *gin.Context, status int, name string, data gin.H) {
	r.calls = append(r.calls, renderCall{Status: status, Name: name, Data: data})
	c.String(status, name)
}

func (r *fakeRenderer) last(t *testing.T) renderCall {
	t.Helper()
	if len(r.calls) == 0 {
		t.Fatal("nothing rendered")
	}
	return r.calls[len(r.calls)-1]
}

type fakeReferrals struct {
	mu            sync.Mutex
	referrals     map[string]*model.Referral
	createResult  *model.Referral
	createErr     error
	submitErr     error
	statusErr     error
	created       []string
	updates       []dto.ReferralUpdate
	submitted     []string
	deleted       []string
	statusUpdates []dto.ReferralStatusUpdate
	history       []model.ReferralStatusHistory
	views         *model.Paginated[model.ReferralView]
	lastQuery     dto.DashboardQuery
	lastOrg       string
}

func newFakeReferrals(referrals ...*model.Referral) *fakeReferrals {
	f := &fakeReferrals{referrals: map[string]*model.Referral{}}
	for _, r := range referrals {
		f.referrals[r.ID] = r
	}
	return f
}

func (f *fakeReferrals) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created) + len(f.updates) + len(f.submitted) + len(f.deleted) + len(f.statusUpdates)
}

func (f *fakeReferrals) CreateReferral(_ context.Context, _, offeringID, prisonNumber string) (*model.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, offeringID+"/"+prisonNumber)
	return f.createResult, f.createErr
}

func (f *fakeReferrals) GetReferral(_ context.Context, _, id string) (*model.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.referrals[id]
	if !ok {
		return nil, constants.ErrReferralNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReferrals) UpdateReferral(_ context.Context, _, _ string, update dto.ReferralUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeReferrals) SubmitReferral(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, id)
	return f.submitErr
}

func (f *fakeReferrals) DeleteReferral(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeReferrals) UpdateReferralStatus(_ context.Context, _, _ string, update dto.ReferralStatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusUpdates = append(f.statusUpdates, update)
	return f.statusErr
}

func (f *fakeReferrals) GetStatusHistory(context.Context, string, string) ([]model.ReferralStatusHistory, error) {
	return f.history, nil
}

func (f *fakeReferrals) GetMyReferralViews(_ context.Context, _ string, q dto.DashboardQuery) (*model.Paginated[model.ReferralView], error) {
	f.lastQuery = q
	return f.pageOfViews(), nil
}

func (f *fakeReferrals) GetOrganisationReferralViews(_ context.Context, _, organisationID string, q dto.DashboardQuery) (*model.Paginated[model.ReferralView], error) {
	f.lastQuery = q
	f.lastOrg = organisationID
	return f.pageOfViews(), nil
}

func (f *fakeReferrals) pageOfViews() *model.Paginated[model.ReferralView] {
	if f.views != nil {
		return f.views
	}
	return &model.Paginated[model.ReferralView]{}
}

type fakeCourses struct {
	mu             sync.Mutex
	courses        []model.Course
	names          []string
	offerings      []model.CourseOffering
	participations map[string]*model.CourseParticipation
	byPerson       []model.CourseParticipation
	byReferral     []model.CourseParticipation
	created        []dto.CreateCourseParticipationRequest
	updates        map[string]dto.CourseParticipationUpdate
	deleted        []string
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{
		courses: []model.Course{{ID: "course-1", Name: "Kaizen", Audience: "General offence"}},
		names:   []string{"Kaizen", "Becoming New Me Plus"},
		offerings: []model.CourseOffering{
			{ID: "offering-1", OrganisationID: "MDI", Referable: true},
		},
		participations: map[string]*model.CourseParticipation{},
		updates:        map[string]dto.CourseParticipationUpdate{},
	}
}

func (f *fakeCourses) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created) + len(f.updates) + len(f.deleted)
}

func (f *fakeCourses) GetCourses(context.Context, string) ([]model.Course, error) {
	return f.courses, nil
}

func (f *fakeCourses) GetCourse(_ context.Context, _, id string) (*model.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == id {
			return &f.courses[i], nil
		}
	}
	return nil, constants.ErrCourseNotFound
}

func (f *fakeCourses) GetCourseNames(context.Context, string) ([]string, error) {
	return f.names, nil
}

func (f *fakeCourses) GetOfferingsByCourse(context.Context, string, string) ([]model.CourseOffering, error) {
	return f.offerings, nil
}

func (f *fakeCourses) GetOffering(_ context.Context, _, id string) (*model.CourseOffering, error) {
	for i := range f.offerings {
		if f.offerings[i].ID == id {
			return &f.offerings[i], nil
		}
	}
	return nil, constants.ErrOfferingNotFound
}

func (f *fakeCourses) GetCourseByOffering(context.Context, string, string) (*model.Course, error) {
	return &f.courses[0], nil
}

func (f *fakeCourses) CreateParticipation(_ context.Context, _ string, req dto.CreateCourseParticipationRequest) (*model.CourseParticipation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	p := &model.CourseParticipation{
		ID:           "participation-new",
		CourseName:   req.CourseName,
		PrisonNumber: req.PrisonNumber,
		ReferralID:   req.ReferralID,
	}
	f.participations[p.ID] = p
	return p, nil
}

func (f *fakeCourses) GetParticipation(_ context.Context, _, id string) (*model.CourseParticipation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participations[id]
	if !ok {
		return nil, constants.ErrParticipationNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCourses) UpdateParticipation(_ context.Context, _, id string, update dto.CourseParticipationUpdate) (*model.CourseParticipation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[id] = update
	p := f.participations[id]
	if p != nil {
		p.CourseName = update.CourseName
		p.Setting = update.Setting
		p.Outcome = update.Outcome
		p.Detail = update.Detail
		p.Source = update.Source
	}
	return p, nil
}

func (f *fakeCourses) DeleteParticipation(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCourses) GetParticipationsByPerson(context.Context, string, string) ([]model.CourseParticipation, error) {
	return f.byPerson, nil
}

func (f *fakeCourses) GetParticipationsByReferral(context.Context, string, string) ([]model.CourseParticipation, error) {
	return f.byReferral, nil
}

type fakePeople struct {
	mu       sync.Mutex
	people   map[string]*model.Person
	calls    int
	offences []model.OffenceHistoryDetail
	sentence *model.SentenceDetails
}

func newFakePeople() *fakePeople {
	return &fakePeople{people: map[string]*model.Person{
		"A1234AA": {PrisonNumber: "A1234AA", Name: "Del Hatton", BookingID: "1234"},
	}}
}

func (f *fakePeople) GetPerson(_ context.Context, _, prisonNumber string) (*model.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.people[prisonNumber], nil
}

func (f *fakePeople) GetSentenceDetails(context.Context, string, string) (*model.SentenceDetails, error) {
	return f.sentence, nil
}

func (f *fakePeople) GetOffenceHistory(context.Context, string, string) ([]model.OffenceHistoryDetail, error) {
	return f.offences, nil
}

type fakeOrganisations struct {
	organisations map[string]*model.Organisation
}

func newFakeOrganisations() *fakeOrganisations {
	return &fakeOrganisations{organisations: map[string]*model.Organisation{
		"MDI": {ID: "MDI", Name: "Moorland (HMP & YOI)"},
	}}
}

func (f *fakeOrganisations) GetOrganisation(_ context.Context, _, code string) (*model.Organisation, error) {
	return f.organisations[code], nil
}

type fakeRefData struct {
	categories []model.ReferralStatusCategory
	reasons    map[string][]model.ReferralStatusReason
}

func (f *fakeRefData) GetReferralStatusCodeCategories(context.Context, string, string) ([]model.ReferralStatusCategory, error) {
	return f.categories, nil
}

func (f *fakeRefData) GetReferralStatusCodeReasons(_ context.Context, _, _, categoryCode string) ([]model.ReferralStatusReason, error) {
	return f.reasons[categoryCode], nil
}

type fakeUsers struct {
	names map[string]string
}

func (f *fakeUsers) GetFullNameFromUsername(_ context.Context, _, username string) string {
	if name, ok := f.names[username]; ok {
		return name
	}
	return username
}

func (f *fakeUsers) GetEmailFromUsername(context.Context, string, string) string {
	return ""
}

type auditRecord struct {
	What    string
	Who     string
	Details map[string]any
}

type fakeAudit struct {
	mu     sync.Mutex
	events []auditRecord
}

func (f *fakeAudit) SendAuditMessage(_ context.Context, what, who, _ string, details map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, auditRecord{What: what, Who: who, Details: details})
}

type fakePni struct {
	score    *model.PniScore
	dateInfo *model.OasysAssessmentDateInfo
}

func (f *fakePni) GetPni(context.Context, string, string) (*model.PniScore, error) {
	return f.score, nil
}

func (f *fakePni) GetAssessmentDateInfo(context.Context, string, string) (*model.OasysAssessmentDateInfo, error) {
	return f.dateInfo, nil
}

type fakeStatistics struct {
	mu    sync.Mutex
	types []string
}

func (f *fakeStatistics) GetReport(_ context.Context, _, reportType, startDate, endDate string, locations []string) (*model.ReportContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, reportType)
	return &model.ReportContent{
		ReportType: reportType,
		Content:    model.ReportCounts{Count: 3},
		Parameters: model.ReportParams{StartDate: startDate, EndDate: endDate, LocationCodes: locations},
	}, nil
}

type fakeHealth struct {
	result dto.HealthResponse
}

func (f *fakeHealth) Check(context.Context) dto.HealthResponse {
	return f.result
}

type fakeAuthClient struct {
	token    *client.TokenResponse
	err      error
	codes    []string
	redirect string
}

func (f *fakeAuthClient) AuthorizeURL(redirectURI, state string) string {
	return "https://auth.example.com/oauth/authorize?state=" + state + "&redirect_uri=" + url.QueryEscape(redirectURI)
}

func (f *fakeAuthClient) SignOutURL(redirectURI string) string {
	return "https://auth.example.com/sign-out?redirect_uri=" + url.QueryEscape(redirectURI)
}

func (f *fakeAuthClient) GetUserToken(_ context.Context, code, redirectURI string) (*client.TokenResponse, error) {
	f.codes = append(f.codes, code)
	f.redirect = redirectURI
	return f.token, f.err
}

func startedReferral(id string) *model.Referral {
	return &model.Referral{
		ID:               id,
		OfferingID:       "offering-1",
		PrisonNumber:     "A1234AA",
		ReferrerUsername: testReferrer,
		Status:           model.ReferralStatusStarted,
	}
}

func submittedReferral(id string) *model.Referral {
	r := startedReferral(id)
	r.Status = model.ReferralStatusSubmitted
	r.AdditionalInformation = "Some text"
	r.OasysConfirmed = true
	r.HasReviewedProgrammeHistory = true
	return r
}

func referrer() *model.User {
	return &model.User{
		Username:         testReferrer,
		Name:             "Referrer User",
		ActiveCaseLoadID: "MDI",
		Roles:            []string{model.RoleReferrer},
		Token:            testToken,
	}
}

func programmeTeam() *model.User {
	return &model.User{
		Username:         "PT_USER",
		ActiveCaseLoadID: "MDI",
		Roles:            []string{model.RoleProgrammeTeam},
		Token:            testToken,
	}
}

// newTestRouter builds an engine that injects sess and user the way the session and
// auth middleware do
func newTestRouter(sess *session.Session, user *model.User, register func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.SessionKey, sess)
		if user != nil {
			c.Set(constants.UserKey, user)
		}
		c.Next()
	})
	register(r)
	return r
}

func perform(r http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
