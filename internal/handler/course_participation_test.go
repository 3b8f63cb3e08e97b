package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
)

func TestOtherCourseNameRoundTrip(t *testing.T) {
	f := newDraftFixture(referrer(), startedReferral("referral-1"))

	w := perform(f.router, http.MethodPost, paths.Draft(paths.DraftProgrammeHistory, "referral-1"),
		url.Values{"courseName": {"Other"}, "otherCourseName": {"  Custom course  "}})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/refer/referrals/new/referral-1/programme-history/participation-new/details", w.Header().Get("Location"))
	require.Len(t, f.courses.created, 1)
	assert.Equal(t, dto.CreateCourseParticipationRequest{
		CourseName:   "Custom course",
		PrisonNumber: "A1234AA",
		ReferralID:   "referral-1",
	}, f.courses.created[0])

	perform(f.router, http.MethodGet,
		paths.DraftParticipation(paths.DraftProgrammeHistoryProgramme, "referral-1", "participation-new"), nil)

	call := f.renderer.last(t)
	assert.Equal(t, "referrals/courseParticipations/course", call.Name)
	assert.Equal(t, constants.OtherCourseValue, call.Data["courseName"])
	assert.Equal(t, "Custom course", call.Data["otherCourseName"])

	perform(f.router, http.MethodPut,
		paths.DraftParticipation(paths.DraftProgrammeHistoryProgramme, "referral-1", "participation-new"),
		url.Values{"courseName": {"Other"}, "otherCourseName": {"Custom course"}})

	assert.Equal(t, "Custom course", f.courses.updates["participation-new"].CourseName)
}

func TestEditProgrammePreselectsKnownCourse(t *testing.T) {
	f := newDraftFixture(referrer(), startedReferral("referral-1"))

	perform(f.router, http.MethodGet,
		paths.DraftParticipation(paths.DraftProgrammeHistoryProgramme, "referral-1", "participation-1"), nil)

	call := f.renderer.last(t)
	assert.Equal(t, "Kaizen", call.Data["courseName"])
	assert.Equal(t, "", call.Data["otherCourseName"])
}

func TestCreateParticipationValidation(t *testing.T) {
	tests := []struct {
		name  string
		form  url.Values
		field string
		msg   string
	}{
		{name: "nothing selected", form: url.Values{}, field: "courseName", msg: "Select a programme"},
		{
			name:  "other without a name",
			form:  url.Values{"courseName": {"Other"}, "otherCourseName": {"  "}},
			field: "otherCourseName",
			msg:   "Enter the programme name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDraftFixture(referrer(), startedReferral("referral-1"))

			w := perform(f.router, http.MethodPost, paths.Draft(paths.DraftProgrammeHistory, "referral-1"), tt.form)

			assert.Equal(t, "/refer/referrals/new/referral-1/programme-history/new", w.Header().Get("Location"))
			assert.Empty(t, f.courses.created)
			assert.Equal(t, []string{tt.msg}, f.sess.Flash[constants.FlashErrors+tt.field])
		})
	}
}

func TestUpdateDetails(t *testing.T) {
	f := newDraftFixture(referrer(), startedReferral("referral-1"))

	w := perform(f.router, http.MethodPut,
		paths.DraftParticipation(paths.DraftProgrammeHistoryDetails, "referral-1", "participation-1"),
		url.Values{
			"setting[type]":            {"custody"},
			"setting[custodyLocation]": {"Whatton (HMP)"},
			"outcome[status]":          {"complete"},
			"outcome[yearCompleted]":   {"2019"},
			"source":                   {" PNOMIS "},
			"detail":                   {"Line one\r\nLine two"},
		})

	assert.Equal(t, "/refer/referrals/new/referral-1/programme-history", w.Header().Get("Location"))
	update := f.courses.updates["participation-1"]
	assert.Equal(t, "Kaizen", update.CourseName)
	assert.Equal(t, &model.CourseParticipationSetting{Type: model.SettingCustody, Location: "Whatton (HMP)"}, update.Setting)
	assert.Equal(t, &model.CourseParticipationOutcome{Status: model.OutcomeComplete, YearCompleted: 2019}, update.Outcome)
	assert.Equal(t, "PNOMIS", update.Source)
	assert.Equal(t, "Line one\nLine two", update.Detail)
}

func TestUpdateDetailsValidation(t *testing.T) {
	year := time.Now().Year()
	rangeMsg := func(label string) string {
		return fmt.Sprintf("Enter a year %s between 1990 and %d", label, year)
	}

	tests := []struct {
		name   string
		form   url.Values
		errors map[string]string
	}{
		{
			name:   "not a year",
			form:   url.Values{"outcome[yearStarted]": {"20x1"}},
			errors: map[string]string{"yearStarted": rangeMsg("started")},
		},
		{
			name:   "before 1990",
			form:   url.Values{"outcome[yearCompleted]": {"1989"}},
			errors: map[string]string{"yearCompleted": rangeMsg("completed")},
		},
		{
			name:   "in the future",
			form:   url.Values{"outcome[yearStarted]": {fmt.Sprint(year + 1)}},
			errors: map[string]string{"yearStarted": rangeMsg("started")},
		},
		{
			name:   "unknown setting",
			form:   url.Values{"setting[type]": {"hospital"}},
			errors: map[string]string{"settingType": "Select a setting"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDraftFixture(referrer(), startedReferral("referral-1"))
			target := paths.DraftParticipation(paths.DraftProgrammeHistoryDetails, "referral-1", "participation-1")

			w := perform(f.router, http.MethodPut, target, tt.form)

			assert.Equal(t, target, w.Header().Get("Location"))
			assert.Empty(t, f.courses.updates)
			for field, msg := range tt.errors {
				assert.Equal(t, []string{msg}, f.sess.Flash[constants.FlashErrors+field])
			}

			perform(f.router, http.MethodGet, target, nil)
			call := f.renderer.last(t)
			assert.Equal(t, tt.errors, call.Data["errors"])
		})
	}
}

func TestEditDetailsShowsSavedValues(t *testing.T) {
	f := newDraftFixture(referrer(), startedReferral("referral-1"))
	f.courses.participations["participation-1"].Setting = &model.CourseParticipationSetting{
		Type: model.SettingCommunity, Location: "Leeds",
	}
	f.courses.participations["participation-1"].Outcome = &model.CourseParticipationOutcome{YearStarted: 2015}

	perform(f.router, http.MethodGet,
		paths.DraftParticipation(paths.DraftProgrammeHistoryDetails, "referral-1", "participation-1"), nil)

	values := f.renderer.last(t).Data["values"].(map[string]string)
	assert.Equal(t, "community", values["settingType"])
	assert.Equal(t, "Leeds", values["communityLocation"])
	assert.Equal(t, "2015", values["yearStarted"])
	assert.Equal(t, "", values["yearCompleted"])
}

func TestDeleteOnlyRemovesDraftParticipations(t *testing.T) {
	f := newDraftFixture(referrer(), startedReferral("referral-1"))
	f.courses.participations["participation-2"] = &model.CourseParticipation{
		ID: "participation-2", CourseName: "Kaizen", PrisonNumber: "A1234AA",
	}

	w := perform(f.router, http.MethodDelete,
		paths.DraftParticipation(paths.DraftProgrammeHistoryDelete, "referral-1", "participation-2"), nil)
	assert.Equal(t, "/refer/referrals/new/referral-1/programme-history", w.Header().Get("Location"))
	assert.Empty(t, f.courses.deleted)

	perform(f.router, http.MethodDelete,
		paths.DraftParticipation(paths.DraftProgrammeHistoryDelete, "referral-1", "participation-1"), nil)
	assert.Equal(t, []string{"participation-1"}, f.courses.deleted)
}

func TestProgrammeHistoryIndexMergesParticipations(t *testing.T) {
	f := newDraftFixture(referrer(), startedReferral("referral-1"))
	draft := model.CourseParticipation{ID: "participation-1", CourseName: "Kaizen", ReferralID: "referral-1"}
	f.courses.byReferral = []model.CourseParticipation{draft}
	f.courses.byPerson = []model.CourseParticipation{
		draft,
		{ID: "participation-old", CourseName: "Healthy Sex Programme"},
	}

	perform(f.router, http.MethodGet, paths.Draft(paths.DraftProgrammeHistory, "referral-1"), nil)

	rows := f.renderer.last(t).Data["participations"].([]participationRow)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Draft)
	assert.NotEmpty(t, rows[0].DeleteHref)
	assert.False(t, rows[1].Draft)
	assert.Empty(t, rows[1].ChangeHref)
}

func TestUpdateReviewedStatus(t *testing.T) {
	f := newDraftFixture(referrer(), startedReferral("referral-1"))

	w := perform(f.router, http.MethodPut, paths.Draft(paths.DraftProgrammeHistoryReview, "referral-1"), url.Values{})

	assert.Equal(t, "/refer/referrals/new/referral-1", w.Header().Get("Location"))
	require.Len(t, f.referrals.updates, 1)
	assert.True(t, f.referrals.updates[0].HasReviewedProgrammeHistory)
}
