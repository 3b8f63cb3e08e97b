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

import "accredited-programmes-ui/internal/model"

// CreateCourseParticipationRequest is the body of POST /course-participations
type CreateCourseParticipationRequest struct {
	CourseName   string `json:"courseName"`
	PrisonNumber string `json:"prisonNumber"`
	ReferralID   string `json:"referralId"`
}

// CourseParticipationUpdate is the body of PUT /course-participations/{id}
type CourseParticipationUpdate struct {
	CourseName string                            `json:"courseName"`
	Setting    *model.CourseParticipationSetting `json:"setting,omitempty"`
	Outcome    *model.CourseParticipationOutcome `json:"outcome,omitempty"`
	Detail     string                            `json:"detail,omitempty"`
	Source     string                            `json:"source,omitempty"`
}

// UpdateFromParticipation copies the editable fields of p
func UpdateFromParticipation(p *model.CourseParticipation) CourseParticipationUpdate {
	return CourseParticipationUpdate{
		CourseName: p.CourseName,
		Setting:    p.Setting,
		Outcome:    p.Outcome,
		Detail:     p.Detail,
		Source:     p.Source,
	}
}

// CourseParticipationDetailsForm is the bound form of the programme history details page.
// Year ranges depend on the current date and are checked by the handler.
type CourseParticipationDetailsForm struct {
	SettingType       string `form:"setting[type]" validate:"omitempty,oneof=community custody"`
	CommunityLocation string `form:"setting[communityLocation]"`
	CustodyLocation   string `form:"setting[custodyLocation]"`
	OutcomeStatus     string `form:"outcome[status]" validate:"omitempty,oneof=complete incomplete"`
	YearStarted       string `form:"outcome[yearStarted]" validate:"omitempty,numeric,len=4"`
	YearCompleted     string `form:"outcome[yearCompleted]" validate:"omitempty,numeric,len=4"`
	Source            string `form:"source"`
	Detail            string `form:"detail"`
}
