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

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/model"
)

// ReferenceDataService reads status categories and reasons
type ReferenceDataService struct {
	referenceDataClient client.RestClientBuilder[*client.ReferenceDataClient]
}

// NewReferenceDataService creates a new ReferenceDataService
func NewReferenceDataService(referenceDataClient client.RestClientBuilder[*client.ReferenceDataClient]) *ReferenceDataService {
	return &ReferenceDataService{referenceDataClient: referenceDataClient}
}

// GetReferralStatusCodeCategories returns the categories of a status
func (s *ReferenceDataService) GetReferralStatusCodeCategories(ctx context.Context, token, statusCode string) ([]model.ReferralStatusCategory, error) {
	categories, err := s.referenceDataClient(token).FindStatusCategories(ctx, statusCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s categories: %w", statusCode, err)
	}
	return categories, nil
}

// GetReferralStatusCodeReasons returns the reasons of a status category
func (s *ReferenceDataService) GetReferralStatusCodeReasons(ctx context.Context, token, statusCode, categoryCode string) ([]model.ReferralStatusReason, error) {
	reasons, err := s.referenceDataClient(token).FindStatusReasons(ctx, statusCode, categoryCode)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s reasons for %s: %w", statusCode, categoryCode, err)
	}
	return reasons, nil
}
