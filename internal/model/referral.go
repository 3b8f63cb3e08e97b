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

package model

import (
	"strings"
	"time"
)

// ReferralStatus is the upstream status code of a referral
type ReferralStatus string

const (
	ReferralStatusStarted            ReferralStatus = "referral_started"
	ReferralStatusSubmitted          ReferralStatus = "referral_submitted"
	ReferralStatusAssessmentStarted  ReferralStatus = "assessment_started"
	ReferralStatusAwaitingAssessment ReferralStatus = "awaiting_assessment"
	ReferralStatusAssessedSuitable   ReferralStatus = "assessed_suitable"
	ReferralStatusOnProgramme        ReferralStatus = "on_programme"
	ReferralStatusProgrammeComplete  ReferralStatus = "programme_complete"
	ReferralStatusNotSuitable        ReferralStatus = "not_suitable"
	ReferralStatusWithdrawn          ReferralStatus = "withdrawn"
	ReferralStatusDeselected         ReferralStatus = "deselected"
)

// Referral is a request to enrol a person onto a course offering
type Referral struct {
	ID                          string         `json:"id"`
	OfferingID                  string         `json:"offeringId"`
	PrisonNumber                string         `json:"prisonNumber"`
	ReferrerUsername            string         `json:"referrerUsername"`
	PrimaryPomUsername          string         `json:"primaryPomUsername,omitempty"`
	AdditionalInformation       string         `json:"additionalInformation,omitempty"`
	HasReviewedProgrammeHistory bool           `json:"hasReviewedProgrammeHistory"`
	OasysConfirmed              bool           `json:"oasysConfirmed"`
	Status                      ReferralStatus `json:"status"`
	StatusDescription           string         `json:"statusDescription,omitempty"`
	StatusColour                string         `json:"statusColour,omitempty"`
	SubmittedOn                 *time.Time     `json:"submittedOn,omitempty"`
	Closed                      bool           `json:"closed"`
}

// IsStarted reports whether the referral is still a draft
func (r *Referral) IsStarted() bool {
	return r.Status == ReferralStatusStarted
}

// IsReadyForSubmission reports whether every answer needed to submit has been given
func (r *Referral) IsReadyForSubmission() bool {
	return r.HasReviewedProgrammeHistory &&
		r.OasysConfirmed &&
		strings.TrimSpace(r.AdditionalInformation) != ""
}

// ReferralStatusHistory is one entry of the referral's status timeline
type ReferralStatusHistory struct {
	ID                  string     `json:"id"`
	Status              string     `json:"status"`
	StatusDescription   string     `json:"statusDescription"`
	StatusColour        string     `json:"statusColour"`
	PreviousStatus      string     `json:"previousStatus,omitempty"`
	CategoryDescription string     `json:"categoryDescription,omitempty"`
	ReasonDescription   string     `json:"reasonDescription,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	StatusStartDate     *time.Time `json:"statusStartDate,omitempty"`
	Username            string     `json:"username"`
	ByUserDisplayName   string     `json:"byDisplayName,omitempty"`
}

// ReferralView is the flattened case list projection of a referral
type ReferralView struct {
	ID                  string         `json:"id"`
	PrisonNumber        string         `json:"prisonNumber"`
	Forename            string         `json:"forename,omitempty"`
	Surname             string         `json:"surname,omitempty"`
	CourseName          string         `json:"courseName,omitempty"`
	Audience            string         `json:"audience,omitempty"`
	OrganisationName    string         `json:"organisationName,omitempty"`
	Status              ReferralStatus `json:"status"`
	StatusDescription   string         `json:"statusDescription,omitempty"`
	StatusColour        string         `json:"statusColour,omitempty"`
	SubmittedOn         *time.Time     `json:"submittedOn,omitempty"`
	ReferrerUsername    string         `json:"referrerUsername,omitempty"`
	EarliestReleaseDate *time.Time     `json:"earliestReleaseDate,omitempty"`
}

// Paginated wraps one page of upstream results
type Paginated[T any] struct {
	Content       []T  `json:"content"`
	PageNumber    int  `json:"pageNumber"`
	PageSize      int  `json:"pageSize"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	PageIsEmpty   bool `json:"pageIsEmpty"`
}

// ReferralStatusRefData is the reference data describing a status code
type ReferralStatusRefData struct {
	Code         string `json:"code"`
	Description  string `json:"description"`
	Colour       string `json:"colour"`
	Closed       bool   `json:"closed"`
	Draft        bool   `json:"draft"`
	HoldDecision bool   `json:"hold"`
	Release      bool   `json:"release"`
}

// ReferralStatusCategory groups the reasons a status may be entered for
type ReferralStatusCategory struct {
	Code               string `json:"code"`
	Description        string `json:"description"`
	ReferralStatusCode string `json:"referralStatusCode"`
}

// ReferralStatusReason is a selectable reason inside a category
type ReferralStatusReason struct {
	Code                 string `json:"code"`
	Description          string `json:"description"`
	ReferralCategoryCode string `json:"referralCategoryCode"`
}
