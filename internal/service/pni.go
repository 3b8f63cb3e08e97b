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
	"accredited-programmes-ui/internal/model"
)

// PniService reads programme needs identification results and OASys metadata
type PniService struct {
	pniClient   client.RestClientBuilder[*client.PniClient]
	oasysClient client.RestClientBuilder[*client.OasysClient]
	logger      *zap.Logger
}

// NewPniService creates a new PniService
func NewPniService(
	pniClient client.RestClientBuilder[*client.PniClient],
	oasysClient client.RestClientBuilder[*client.OasysClient],
	logger *zap.Logger,
) *PniService {
	return &PniService{pniClient: pniClient, oasysClient: oasysClient, logger: logger}
}

// GetPni returns the PNI score of a person, or nil when none has been calculated
func (s *PniService) GetPni(ctx context.Context, token, prisonNumber string) (*model.PniScore, error) {
	score, err := s.pniClient(token).FindPni(ctx, prisonNumber)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get PNI of %s: %w", prisonNumber, err)
	}
	return score, nil
}

// GetAssessmentDateInfo returns the latest OASys assessment date, or nil when unavailable
func (s *PniService) GetAssessmentDateInfo(ctx context.Context, token, prisonNumber string) (*model.OasysAssessmentDateInfo, error) {
	info, err := s.oasysClient(token).FindAssessmentDateInfo(ctx, prisonNumber)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, nil
		}
		// OASys is often unavailable, the pages render without the date
		s.logger.Warn("Failed to get OASys assessment date", zap.String("prisonNumber", prisonNumber), zap.Error(err))
		return nil, nil
	}
	return info, nil
}
