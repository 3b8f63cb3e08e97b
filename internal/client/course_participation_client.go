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

package client

import (
	"context"

	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/model"
)

// CourseParticipationClient manages programme history entries
type CourseParticipationClient struct {
	rest *RestClient
}

// NewCourseParticipationClient creates a CourseParticipationClient over rest
func NewCourseParticipationClient(rest *RestClient) *CourseParticipationClient {
	return &CourseParticipationClient{rest: rest}
}

// Create adds a participation
func (c *CourseParticipationClient) Create(ctx context.Context, req dto.CreateCourseParticipationRequest) (*model.CourseParticipation, error) {
	var participation model.CourseParticipation
	if err := c.rest.Post(ctx, Request{Path: "/course-participations", Data: req}, &participation); err != nil {
		return nil, err
	}
	return &participation, nil
}

// Find returns the participation with id
func (c *CourseParticipationClient) Find(ctx context.Context, id string) (*model.CourseParticipation, error) {
	var participation model.CourseParticipation
	if err := c.rest.Get(ctx, Request{Path: pathf("/course-participations/%s", id)}, &participation); err != nil {
		return nil, err
	}
	return &participation, nil
}

// Update replaces the editable fields of a participation
func (c *CourseParticipationClient) Update(ctx context.Context, id string, update dto.CourseParticipationUpdate) (*model.CourseParticipation, error) {
	var participation model.CourseParticipation
	if err := c.rest.Put(ctx, Request{Path: pathf("/course-participations/%s", id), Data: update}, &participation); err != nil {
		return nil, err
	}
	return &participation, nil
}

// Destroy removes a participation
func (c *CourseParticipationClient) Destroy(ctx context.Context, id string) error {
	return c.rest.Delete(ctx, Request{Path: pathf("/course-participations/%s", id)}, nil)
}

// FindByPerson returns the recorded programme history of a person
func (c *CourseParticipationClient) FindByPerson(ctx context.Context, prisonNumber string) ([]model.CourseParticipation, error) {
	var participations []model.CourseParticipation
	if err := c.rest.Get(ctx, Request{Path: pathf("/people/%s/course-participations", prisonNumber)}, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

// FindByReferral returns the participations added while drafting a referral
func (c *CourseParticipationClient) FindByReferral(ctx context.Context, referralID string) ([]model.CourseParticipation, error) {
	var participations []model.CourseParticipation
	if err := c.rest.Get(ctx, Request{Path: pathf("/referrals/%s/course-participations", referralID)}, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}
