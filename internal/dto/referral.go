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

package dto

import (
	"net/url"
	"strconv"

	"accredited-programmes-ui/internal/model"
)

// CreateReferralRequest is the body of POST /referrals
type CreateReferralRequest struct {
	OfferingID   string `json:"offeringId"`
	PrisonNumber string `json:"prisonNumber"`
}

// ReferralUpdate is the body of PUT /referrals/{id}
type ReferralUpdate struct {
	AdditionalInformation       string `json:"additionalInformation,omitempty"`
	OasysConfirmed              bool   `json:"oasysConfirmed"`
	HasReviewedProgrammeHistory bool   `json:"hasReviewedProgrammeHistory"`
}

// UpdateFromReferral copies the editable fields of referral
func UpdateFromReferral(r *model.Referral) ReferralUpdate {
	return ReferralUpdate{
		AdditionalInformation:       r.AdditionalInformation,
		OasysConfirmed:              r.OasysConfirmed,
		HasReviewedProgrammeHistory: r.HasReviewedProgrammeHistory,
	}
}

// ReferralStatusUpdate is the body of POST /referrals/{id}/status
type ReferralStatusUpdate struct {
	Status   string `json:"status"`
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Notes    string `json:"notes,omitempty"`
	PtUser   bool   `json:"ptUser"`
}

// ReferralConflict is the 409 body returned when a duplicate referral exists
type ReferralConflict struct {
	ID               string `json:"id"`
	DeveloperMessage string `json:"developerMessage"`
	UserMessage      string `json:"userMessage"`
}

// DashboardQuery holds case list filters and paging
type DashboardQuery struct {
	Page          int
	Size          int
	Status        string
	StatusGroup   string
	Audience      string
	CourseName    string
	NameOrID      string
	SortColumn    string
	SortDirection string
}

// Values encodes the query for the upstream dashboard endpoints
func (q DashboardQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("status", q.Status)
	set("statusGroup", q.StatusGroup)
	set("audience", q.Audience)
	set("courseName", q.CourseName)
	set("nameOrId", q.NameOrID)
	set("sortColumn", q.SortColumn)
	set("sortDirection", q.SortDirection)
	return v
}
