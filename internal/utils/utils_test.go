package utils

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/session"
)

func TestFormStateFlashRoundTrip(t *testing.T) {
	sess := session.New()

	state := NewFormState()
	state.AddError("reason", "Reason must be 100 characters or fewer")
	state.SetValue("reason", "typed value")
	state.Flash(sess)

	loaded := ConsumeFormState(sess, "reason", "other")
	assert.True(t, loaded.HasErrors())
	assert.Equal(t, "Reason must be 100 characters or fewer", loaded.Error("reason"))
	assert.Equal(t, "typed value", loaded.Value("reason", ""))
	assert.Equal(t, "default", loaded.Value("other", "default"))

	// consumed
	assert.False(t, ConsumeFormState(sess, "reason").HasErrors())
}

func TestReferralTaskList(t *testing.T) {
	draft := &model.Referral{ID: "r1"}
	sections := ReferralTaskList(draft)
	assert.Len(t, sections, 3)
	assert.Empty(t, sections[2].Items[0].Href)
	assert.Equal(t, 1, CompletedSectionCount(draft))

	ready := &model.Referral{ID: "r1", HasReviewedProgrammeHistory: true, OasysConfirmed: true, AdditionalInformation: "info"}
	sections = ReferralTaskList(ready)
	assert.Equal(t, "/refer/referrals/new/r1/check-answers", sections[2].Items[0].Href)
	assert.Equal(t, 4, CompletedSectionCount(ready))
}

func TestCourseParticipationSummary(t *testing.T) {
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := CourseParticipationSummary(&model.CourseParticipation{
		CourseName: "Kaizen",
		Setting:    &model.CourseParticipationSetting{Type: model.SettingCustody, Location: "Whatton"},
		Outcome:    &model.CourseParticipationOutcome{Status: model.OutcomeComplete, YearCompleted: 2020},
		AddedBy:    "Jane Doe",
		CreatedAt:  &created,
	})

	assert.Equal(t, []SummaryListRow{
		{Key: "Programme name", Value: "Kaizen"},
		{Key: "Setting", Value: "Custody (Whatton)"},
		{Key: "Outcome", Value: "Complete (year completed 2020)"},
		{Key: "Added by", Value: "Jane Doe, 1 February 2024"},
	}, rows)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination("/refer/referrals/case-list", 1, 3)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, "/refer/referrals/case-list?page=1", p.Previous)
	assert.Equal(t, "/refer/referrals/case-list?page=3", p.Next)

	first := NewPagination("/x", 0, 1)
	assert.Empty(t, first.Previous)
	assert.Empty(t, first.Next)
}

func TestErrorToResponse(t *testing.T) {
	status, resp := ErrorToResponse(constants.ErrReferralNotFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", resp.Message)

	status, _ = ErrorToResponse(constants.ErrReferralStarted)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = ErrorToResponse(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, resp.Description, "boom")
}
