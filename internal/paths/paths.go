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

package paths

import (
	"net/url"
	"strings"
)

// PathBase selects which of the two route trees a shared handler serves
type PathBase int

const (
	// Refer is the referrer journey under /refer
	Refer PathBase = iota
	// Assess is the programme team journey under /assess
	Assess
)

// Prefix returns the URL prefix of the base
func (b PathBase) Prefix() string {
	if b == Assess {
		return "/assess"
	}
	return "/refer"
}

func (b PathBase) String() string {
	if b == Assess {
		return "assess"
	}
	return "refer"
}

// Route returns the gin route pattern for a suffix shared by both bases
func (b PathBase) Route(suffix string) string {
	return b.Prefix() + suffix
}

// Shared suffixes, mounted under both /refer and /assess
const (
	PersonalDetailsSuffix       = "/referrals/:referralId/personal-details"
	ProgrammeHistorySuffix      = "/referrals/:referralId/programme-history"
	OffenceHistorySuffix        = "/referrals/:referralId/offence-history"
	SentenceInformationSuffix   = "/referrals/:referralId/sentence-information"
	AdditionalInformationSuffix = "/referrals/:referralId/additional-information"
	StatusHistorySuffix         = "/referrals/:referralId/status-history"

	WithdrawCategorySuffix          = "/referrals/:referralId/withdraw"
	WithdrawReasonSuffix            = "/referrals/:referralId/withdraw-reason"
	WithdrawReasonInformationSuffix = "/referrals/:referralId/withdraw-reason-information"
)

// Draft referral routes, referrer only
const (
	StartReferral   = "/refer/offerings/:courseOfferingId/referrals/start"
	NewPerson       = "/refer/offerings/:courseOfferingId/referrals/people/new"
	FindPerson      = "/refer/offerings/:courseOfferingId/referrals/people"
	ConfirmPerson   = "/refer/offerings/:courseOfferingId/referrals/people/:prisonNumber"
	CreateReferral  = "/refer/referrals"
	ShowDraft       = "/refer/referrals/new/:referralId"
	ShowDraftPerson = "/refer/referrals/new/:referralId/person"

	DraftProgrammeHistory          = "/refer/referrals/new/:referralId/programme-history"
	DraftProgrammeHistoryNew       = "/refer/referrals/new/:referralId/programme-history/new"
	DraftProgrammeHistoryReview    = "/refer/referrals/new/:referralId/programme-history/review"
	DraftProgrammeHistoryProgramme = "/refer/referrals/new/:referralId/programme-history/:courseParticipationId/programme"
	DraftProgrammeHistoryDetails   = "/refer/referrals/new/:referralId/programme-history/:courseParticipationId/details"
	DraftProgrammeHistoryDelete    = "/refer/referrals/new/:referralId/programme-history/:courseParticipationId/delete"

	DraftConfirmOasys          = "/refer/referrals/new/:referralId/confirm-oasys"
	DraftAdditionalInformation = "/refer/referrals/new/:referralId/additional-information"
	DraftCheckAnswers          = "/refer/referrals/new/:referralId/check-answers"
	DraftSubmit                = "/refer/referrals/new/:referralId/submit"
	DraftComplete              = "/refer/referrals/new/:referralId/complete"
	DraftDelete                = "/refer/referrals/new/:referralId/delete"
	Duplicate                  = "/refer/referrals/:referralId/duplicate"
)

// Case lists
const (
	ReferCaseList        = "/refer/referrals/case-list"
	AssessCaseListIndex  = "/assess/referrals/case-list"
	AssessCourseCaseList = "/assess/referrals/course/:courseId/case-list"
)

// Find, PNI and reporting routes
const (
	FindProgrammes     = "/find/programmes"
	FindProgramme      = "/find/programmes/:courseId"
	FindOffering       = "/find/offerings/:courseOfferingId"
	PniFindPerson      = "/find/person"
	RecommendedPathway = "/find/recommended-pathway"
	Reports            = "/reports"
)

// Authentication and probes
const (
	SignIn         = "/sign-in"
	SignInCallback = "/sign-in/callback"
	SignOut        = "/sign-out"
	AuthError      = "/authError"
	Health         = "/health"
	Ping           = "/ping"
	Dashboard      = "/"
)

// Build fills the :name segments of pattern from name/value pairs. Values are
// path-escaped; missing names are left untouched.
func Build(pattern string, pairs ...string) string {
	params := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		params[pairs[i]] = pairs[i+1]
	}

	segments := strings.Split(pattern, "/")
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		if value, ok := params[segment[1:]]; ok {
			segments[i] = url.PathEscape(value)
		}
	}
	return strings.Join(segments, "/")
}

// WithQuery appends an encoded query string when q is not empty
func WithQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// StatusHistory returns the status history page of a referral under b
func (b PathBase) StatusHistory(referralID string) string {
	return Build(b.Route(StatusHistorySuffix), "referralId", referralID)
}

// WithdrawCategory returns the first page of the withdrawal wizard under b
func (b PathBase) WithdrawCategory(referralID string) string {
	return Build(b.Route(WithdrawCategorySuffix), "referralId", referralID)
}

// WithdrawReason returns the reason page of the withdrawal wizard under b
func (b PathBase) WithdrawReason(referralID string) string {
	return Build(b.Route(WithdrawReasonSuffix), "referralId", referralID)
}

// WithdrawReasonInformation returns the free text page of the withdrawal wizard under b
func (b PathBase) WithdrawReasonInformation(referralID string) string {
	return Build(b.Route(WithdrawReasonInformationSuffix), "referralId", referralID)
}

// PersonalDetails returns the first submitted referral page under b
func (b PathBase) PersonalDetails(referralID string) string {
	return Build(b.Route(PersonalDetailsSuffix), "referralId", referralID)
}

// Draft returns a draft referral page
func Draft(pattern, referralID string) string {
	return Build(pattern, "referralId", referralID)
}

// DraftParticipation returns a draft programme history entry page
func DraftParticipation(pattern, referralID, courseParticipationID string) string {
	return Build(pattern, "referralId", referralID, "courseParticipationId", courseParticipationID)
}
