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

// ReferralClient manages referrals on the accredited programmes API
type ReferralClient struct {
	rest *RestClient
}

// NewReferralClient creates a ReferralClient over rest
func NewReferralClient(rest *RestClient) *ReferralClient {
	return &ReferralClient{rest: rest}
}

// Create starts a draft referral
func (c *ReferralClient) Create(ctx context.Context, req dto.CreateReferralRequest) (*model.Referral, error) {
	var referral model.Referral
	if err := c.rest.Post(ctx, Request{Path: "/referrals", Data: req}, &referral); err != nil {
		return nil, err
	}
	return &referral, nil
}

// Find returns the referral with id
func (c *ReferralClient) Find(ctx context.Context, id string) (*model.Referral, error) {
	var referral model.Referral
	if err := c.rest.Get(ctx, Request{Path: pathf("/referrals/%s", id)}, &referral); err != nil {
		return nil, err
	}
	return &referral, nil
}

// Update replaces the editable fields of a draft referral
func (c *ReferralClient) Update(ctx context.Context, id string, update dto.ReferralUpdate) error {
	return c.rest.Put(ctx, Request{Path: pathf("/referrals/%s", id), Data: update}, nil)
}

// Submit submits a draft referral
func (c *ReferralClient) Submit(ctx context.Context, id string) error {
	return c.rest.Post(ctx, Request{Path: pathf("/referrals/%s/submit", id)}, nil)
}

// Delete removes a draft referral
func (c *ReferralClient) Delete(ctx context.Context, id string) error {
	return c.rest.Delete(ctx, Request{Path: pathf("/referrals/%s", id)}, nil)
}

// UpdateStatus moves a referral to a new status
func (c *ReferralClient) UpdateStatus(ctx context.Context, id string, update dto.ReferralStatusUpdate) error {
	return c.rest.Post(ctx, Request{Path: pathf("/referrals/%s/status", id), Data: update}, nil)
}

// FindStatusHistory returns the status timeline, newest first
func (c *ReferralClient) FindStatusHistory(ctx context.Context, id string) ([]model.ReferralStatusHistory, error) {
	var history []model.ReferralStatusHistory
	if err := c.rest.Get(ctx, Request{Path: pathf("/referrals/%s/status-history", id)}, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// FindMyReferralViews returns the signed-in referrer's case list
func (c *ReferralClient) FindMyReferralViews(ctx context.Context, q dto.DashboardQuery) (*model.Paginated[model.ReferralView], error) {
	var page model.Paginated[model.ReferralView]
	if err := c.rest.Get(ctx, Request{Path: "/referrals/view/me/dashboard", Query: q.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FindOrganisationReferralViews returns the case list of an organisation
func (c *ReferralClient) FindOrganisationReferralViews(ctx context.Context, organisationID string, q dto.DashboardQuery) (*model.Paginated[model.ReferralView], error) {
	var page model.Paginated[model.ReferralView]
	path := pathf("/referrals/view/organisation/%s/dashboard", organisationID)
	if err := c.rest.Get(ctx, Request{Path: path, Query: q.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
