package paths

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathBasePrefix(t *testing.T) {
	assert.Equal(t, "/refer", Refer.Prefix())
	assert.Equal(t, "/assess", Assess.Prefix())
	assert.Equal(t, "assess", Assess.String())
	assert.Equal(t, "/assess/referrals/:referralId/withdraw", Assess.Route(WithdrawCategorySuffix))
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		pairs    []string
		expected string
	}{
		{
			name:     "single param",
			pattern:  ShowDraft,
			pairs:    []string{"referralId", "abc-123"},
			expected: "/refer/referrals/new/abc-123",
		},
		{
			name:     "two params",
			pattern:  DraftProgrammeHistoryDetails,
			pairs:    []string{"referralId", "r1", "courseParticipationId", "p1"},
			expected: "/refer/referrals/new/r1/programme-history/p1/details",
		},
		{
			name:     "value escaped",
			pattern:  ConfirmPerson,
			pairs:    []string{"courseOfferingId", "o1", "prisonNumber", "A 1/2"},
			expected: "/refer/offerings/o1/referrals/people/A%201%2F2",
		},
		{
			name:     "missing param kept",
			pattern:  ConfirmPerson,
			pairs:    []string{"courseOfferingId", "o1"},
			expected: "/refer/offerings/o1/referrals/people/:prisonNumber",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Build(tt.pattern, tt.pairs...))
		})
	}
}

func TestTypedHelpers(t *testing.T) {
	assert.Equal(t, "/refer/referrals/r1/status-history", Refer.StatusHistory("r1"))
	assert.Equal(t, "/assess/referrals/r1/status-history", Assess.StatusHistory("r1"))
	assert.Equal(t, "/assess/referrals/r1/withdraw-reason", Assess.WithdrawReason("r1"))
	assert.Equal(t, "/refer/referrals/r1/withdraw-reason-information", Refer.WithdrawReasonInformation("r1"))
	assert.Equal(t, "/refer/referrals/new/r1/complete", Draft(DraftComplete, "r1"))
	assert.Equal(t, "/refer/referrals/new/r1/programme-history/p1/delete",
		DraftParticipation(DraftProgrammeHistoryDelete, "r1", "p1"))
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "/sign-in", WithQuery("/sign-in", nil))
	assert.Equal(t, "/sign-in?returnTo=%2Frefer", WithQuery("/sign-in", url.Values{"returnTo": []string{"/refer"}}))
}
