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

package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
)

// TaskListItem is one row of the draft referral task list
type TaskListItem struct {
	Text     string
	Href     string
	Complete bool
	Tag      string
}

// TaskListSection groups task list rows under a heading
type TaskListSection struct {
	Heading string
	Items   []TaskListItem
}

func taskItem(text, href string, complete bool) TaskListItem {
	tag := "Not started"
	if complete {
		tag = "Completed"
	}
	return TaskListItem{Text: text, Href: href, Complete: complete, Tag: tag}
}

// ReferralTaskList builds the sections shown on the draft referral page
func ReferralTaskList(r *model.Referral) []TaskListSection {
	checkAnswers := TaskListItem{Text: "Check answers and submit", Tag: "Cannot start yet"}
	if r.IsReadyForSubmission() {
		checkAnswers = TaskListItem{Text: "Check answers and submit", Href: paths.Draft(paths.DraftCheckAnswers, r.ID), Tag: "Not started"}
	}

	return []TaskListSection{
		{
			Heading: "Personal details",
			Items: []TaskListItem{
				taskItem("Confirm personal details", paths.Draft(paths.ShowDraftPerson, r.ID), true),
			},
		},
		{
			Heading: "Referral information",
			Items: []TaskListItem{
				taskItem("Review Accredited Programme history", paths.Draft(paths.DraftProgrammeHistory, r.ID), r.HasReviewedProgrammeHistory),
				taskItem("Confirm the OASys information", paths.Draft(paths.DraftConfirmOasys, r.ID), r.OasysConfirmed),
				taskItem("Add additional information", paths.Draft(paths.DraftAdditionalInformation, r.ID), r.AdditionalInformation != ""),
			},
		},
		{
			Heading: "Check answers and submit",
			Items:   []TaskListItem{checkAnswers},
		},
	}
}

// CompletedSectionCount returns how many task list sections are complete
func CompletedSectionCount(r *model.Referral) int {
	count := 1 // personal details are confirmed on creation
	for _, done := range []bool{r.HasReviewedProgrammeHistory, r.OasysConfirmed, r.AdditionalInformation != ""} {
		if done {
			count++
		}
	}
	return count
}

// SummaryListRow is one key/value row of a summary card
type SummaryListRow struct {
	Key   string
	Value string
}

// CourseParticipationSummary returns the rows shown for one programme history entry
func CourseParticipationSummary(p *model.CourseParticipation) []SummaryListRow {
	rows := []SummaryListRow{{Key: "Programme name", Value: p.CourseName}}

	if p.Setting != nil {
		setting := capitalise(string(p.Setting.Type))
		if p.Setting.Location != "" {
			setting = fmt.Sprintf("%s (%s)", setting, p.Setting.Location)
		}
		rows = append(rows, SummaryListRow{Key: "Setting", Value: setting})
	}
	if p.Outcome != nil && p.Outcome.Status != "" {
		outcome := capitalise(string(p.Outcome.Status))
		switch {
		case p.Outcome.Status == model.OutcomeComplete && p.Outcome.YearCompleted > 0:
			outcome += " (year completed " + strconv.Itoa(p.Outcome.YearCompleted) + ")"
		case p.Outcome.Status == model.OutcomeIncomplete && p.Outcome.YearStarted > 0:
			outcome += " (year started " + strconv.Itoa(p.Outcome.YearStarted) + ")"
		}
		rows = append(rows, SummaryListRow{Key: "Outcome", Value: outcome})
	}
	if p.Detail != "" {
		rows = append(rows, SummaryListRow{Key: "Additional detail", Value: p.Detail})
	}
	if p.Source != "" {
		rows = append(rows, SummaryListRow{Key: "Source of information", Value: p.Source})
	}
	if p.AddedBy != "" {
		added := p.AddedBy
		if p.CreatedAt != nil {
			added += ", " + FormatDate(*p.CreatedAt)
		}
		rows = append(rows, SummaryListRow{Key: "Added by", Value: added})
	}
	return rows
}

// Pagination is the page navigation of a case list
type Pagination struct {
	Page       int
	TotalPages int
	Previous   string
	Next       string
}

// NewPagination builds links to adjacent pages; page is zero based
func NewPagination(basePath string, page, totalPages int) Pagination {
	p := Pagination{Page: page + 1, TotalPages: totalPages}
	if page > 0 {
		p.Previous = fmt.Sprintf("%s?page=%d", basePath, page)
	}
	if page+1 < totalPages {
		p.Next = fmt.Sprintf("%s?page=%d", basePath, page+2)
	}
	return p
}

// FormatDate renders a date as "1 January 2024"
func FormatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
