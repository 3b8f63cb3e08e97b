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

package handler

import (
	"context"

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/model"
)

// ReferralService manages referrals
type ReferralService interface {
	CreateReferral(ctx context.Context, token, offeringID, prisonNumber string) (*model.Referral, error)
	GetReferral(ctx context.Context, token, id string) (*model.Referral, error)
	UpdateReferral(ctx context.Context, token, id string, update dto.ReferralUpdate) error
	SubmitReferral(ctx context.Context, token, id string) error
	DeleteReferral(ctx context.Context, token, id string) error
	UpdateReferralStatus(ctx context.Context, token, id string, update dto.ReferralStatusUpdate) error
	GetStatusHistory(ctx context.Context, token, id string) ([]model.ReferralStatusHistory, error)
	GetMyReferralViews(ctx context.Context, token string, q dto.DashboardQuery) (*model.Paginated[model.ReferralView], error)
	GetOrganisationReferralViews(ctx context.Context, token, organisationID string, q dto.DashboardQuery) (*model.Paginated[model.ReferralView], error)
}

// CourseService reads courses and manages programme history
type CourseService interface {
	GetCourses(ctx context.Context, token string) ([]model.Course, error)
	GetCourse(ctx context.Context, token, id string) (*model.Course, error)
	GetCourseNames(ctx context.Context, token string) ([]string, error)
	GetOfferingsByCourse(ctx context.Context, token, courseID string) ([]model.CourseOffering, error)
	GetOffering(ctx context.Context, token, offeringID string) (*model.CourseOffering, error)
	GetCourseByOffering(ctx context.Context, token, offeringID string) (*model.Course, error)
	CreateParticipation(ctx context.Context, token string, req dto.CreateCourseParticipationRequest) (*model.CourseParticipation, error)
	GetParticipation(ctx context.Context, token, id string) (*model.CourseParticipation, error)
	UpdateParticipation(ctx context.Context, token, id string, update dto.CourseParticipationUpdate) (*model.CourseParticipation, error)
	DeleteParticipation(ctx context.Context, token, id string) error
	GetParticipationsByPerson(ctx context.Context, token, prisonNumber string) ([]model.CourseParticipation, error)
	GetParticipationsByReferral(ctx context.Context, token, referralID string) ([]model.CourseParticipation, error)
}

// PersonService reads prisoner details
type PersonService interface {
	GetPerson(ctx context.Context, username, prisonNumber string) (*model.Person, error)
	GetSentenceDetails(ctx context.Context, username, bookingID string) (*model.SentenceDetails, error)
	GetOffenceHistory(ctx context.Context, username, prisonNumber string) ([]model.OffenceHistoryDetail, error)
}

// OrganisationService reads organisations
type OrganisationService interface {
	GetOrganisation(ctx context.Context, token, code string) (*model.Organisation, error)
}

// ReferenceDataService reads status categories and reasons
type ReferenceDataService interface {
	GetReferralStatusCodeCategories(ctx context.Context, token, statusCode string) ([]model.ReferralStatusCategory, error)
	GetReferralStatusCodeReasons(ctx context.Context, token, statusCode, categoryCode string) ([]model.ReferralStatusReason, error)
}

// UserService reads other users' details
type UserService interface {
	GetFullNameFromUsername(ctx context.Context, token, username string) string
	GetEmailFromUsername(ctx context.Context, token, username string) string
}

// StatisticsService reads reports
type StatisticsService interface {
	GetReport(ctx context.Context, token, reportType, startDate, endDate string, locationCodes []string) (*model.ReportContent, error)
}

// PniService reads PNI and OASys data
type PniService interface {
	GetPni(ctx context.Context, token, prisonNumber string) (*model.PniScore, error)
	GetAssessmentDateInfo(ctx context.Context, token, prisonNumber string) (*model.OasysAssessmentDateInfo, error)
}

// AuditService publishes audit events
type AuditService interface {
	SendAuditMessage(ctx context.Context, what, who, correlationID string, details map[string]any)
}

// HealthService checks upstream health
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// AuthClient drives the authorization_code flow
type AuthClient interface {
	AuthorizeURL(redirectURI, state string) string
	SignOutURL(redirectURI string) string
	GetUserToken(ctx context.Context, code, redirectURI string) (*client.TokenResponse, error)
}
