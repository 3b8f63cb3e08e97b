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

	"accredited-programmes-ui/internal/model"
)

// ReferenceDataClient reads status reference data
type ReferenceDataClient struct {
	rest *RestClient
}

// NewReferenceDataClient creates a ReferenceDataClient over rest
func NewReferenceDataClient(rest *RestClient) *ReferenceDataClient {
	return &ReferenceDataClient{rest: rest}
}

// FindReferralStatuses returns every referral status
func (c *ReferenceDataClient) FindReferralStatuses(ctx context.Context) ([]model.ReferralStatusRefData, error) {
	var statuses []model.ReferralStatusRefData
	if err := c.rest.Get(ctx, Request{Path: "/reference-data/referral-status"}, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// FindStatusCategories returns the categories of a status, e.g. WITHDRAWN
func (c *ReferenceDataClient) FindStatusCategories(ctx context.Context, statusCode string) ([]model.ReferralStatusCategory, error) {
	var categories []model.ReferralStatusCategory
	path := pathf("/reference-data/referral-status/%s/categories", statusCode)
	if err := c.rest.Get(ctx, Request{Path: path}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindStatusReasons returns the reasons of a status category
func (c *ReferenceDataClient) FindStatusReasons(ctx context.Context, statusCode, categoryCode string) ([]model.ReferralStatusReason, error) {
	var reasons []model.ReferralStatusReason
	path := pathf("/reference-data/referral-status/%s/categories/%s/reasons", statusCode, categoryCode)
	if err := c.rest.Get(ctx, Request{Path: path}, &reasons); err != nil {
		return nil, err
	}
	return reasons, nil
}
