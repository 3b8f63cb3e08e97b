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

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/model"
)

// CourseService reads courses and manages programme history
type CourseService struct {
	courseClient        client.RestClientBuilder[*client.CourseClient]
	participationClient client.RestClientBuilder[*client.CourseParticipationClient]
	logger              *zap.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseClient client.RestClientBuilder[*client.CourseClient],
	participationClient client.RestClientBuilder[*client.CourseParticipationClient],
	logger *zap.Logger,
) *CourseService {
	return &CourseService{
		courseClient:        courseClient,
		participationClient: participationClient,
		logger:              logger,
	}
}

// GetCourses returns every course
func (s *CourseService) GetCourses(ctx context.Context, token string) ([]model.Course, error) {
	courses, err := s.courseClient(token).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	return courses, nil
}

// GetCourse returns the course with id
func (s *CourseService) GetCourse(ctx context.Context, token, id string) (*model.Course, error) {
	course, err := s.courseClient(token).Find(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, constants.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course %s: %w", id, err)
	}
	return course, nil
}

// GetCourseNames returns the names offered on the programme history course radio
func (s *CourseService) GetCourseNames(ctx context.Context, token string) ([]string, error) {
	names, err := s.courseClient(token).FindCourseNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get course names: %w", err)
	}
	return names, nil
}

// GetOfferingsByCourse returns the offerings of a course
func (s *CourseService) GetOfferingsByCourse(ctx context.Context, token, courseID string) ([]model.CourseOffering, error) {
	offerings, err := s.courseClient(token).FindOfferings(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get offerings of course %s: %w", courseID, err)
	}
	return offerings, nil
}

// GetOffering returns the offering with id
func (s *CourseService) GetOffering(ctx context.Context, token, offeringID string) (*model.CourseOffering, error) {
	offering, err := s.courseClient(token).FindOffering(ctx, offeringID)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, constants.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("failed to get offering %s: %w", offeringID, err)
	}
	return offering, nil
}

// GetCourseByOffering returns the course an offering belongs to
func (s *CourseService) GetCourseByOffering(ctx context.Context, token, offeringID string) (*model.Course, error) {
	course, err := s.courseClient(token).FindCourseByOffering(ctx, offeringID)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, constants.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course of offering %s: %w", offeringID, err)
	}
	return course, nil
}

// CreateParticipation adds a programme history entry while drafting a referral
func (s *CourseService) CreateParticipation(ctx context.Context, token string, req dto.CreateCourseParticipationRequest) (*model.CourseParticipation, error) {
	participation, err := s.participationClient(token).Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create course participation: %w", err)
	}
	return participation, nil
}

// GetParticipation returns the participation with id
func (s *CourseService) GetParticipation(ctx context.Context, token, id string) (*model.CourseParticipation, error) {
	participation, err := s.participationClient(token).Find(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, constants.ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to get course participation %s: %w", id, err)
	}
	return participation, nil
}

// UpdateParticipation replaces the editable fields of a participation
func (s *CourseService) UpdateParticipation(ctx context.Context, token, id string, update dto.CourseParticipationUpdate) (*model.CourseParticipation, error) {
	participation, err := s.participationClient(token).Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update course participation %s: %w", id, err)
	}
	return participation, nil
}

// DeleteParticipation removes a participation
func (s *CourseService) DeleteParticipation(ctx context.Context, token, id string) error {
	if err := s.participationClient(token).Destroy(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course participation %s: %w", id, err)
	}
	return nil
}

// GetParticipationsByPerson returns the recorded programme history of a person
func (s *CourseService) GetParticipationsByPerson(ctx context.Context, token, prisonNumber string) ([]model.CourseParticipation, error) {
	participations, err := s.participationClient(token).FindByPerson(ctx, prisonNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get course participations of %s: %w", prisonNumber, err)
	}
	return participations, nil
}

// GetParticipationsByReferral returns the entries added while drafting a referral
func (s *CourseService) GetParticipationsByReferral(ctx context.Context, token, referralID string) ([]model.CourseParticipation, error) {
	participations, err := s.participationClient(token).FindByReferral(ctx, referralID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course participations of referral %s: %w", referralID, err)
	}
	return participations, nil
}
