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

// ReferralService manages referrals on behalf of the signed-in user
type ReferralService struct {
	referralClient client.RestClientBuilder[*client.ReferralClient]
	logger         *zap.Logger
}

// NewReferralService creates a new ReferralService
func NewReferralService(referralClient client.RestClientBuilder[*client.ReferralClient], logger *zap.Logger) *ReferralService {
	return &ReferralService{referralClient: referralClient, logger: logger}
}

// CreateReferral starts a draft referral. A duplicate returns *ConflictError.
func (s *ReferralService) CreateReferral(ctx context.Context, token, offeringID, prisonNumber string) (*model.Referral, error) {
	referral, err := s.referralClient(token).Create(ctx, dto.CreateReferralRequest{
		OfferingID:   offeringID,
		PrisonNumber: prisonNumber,
	})
	if err != nil {
		if conflict := asConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}
	s.logger.Info("Created referral", zap.String("referralId", referral.ID), zap.String("offeringId", offeringID))
	return referral, nil
}

// GetReferral returns the referral with id
func (s *ReferralService) GetReferral(ctx context.Context, token, id string) (*model.Referral, error) {
	referral, err := s.referralClient(token).Find(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, constants.ErrReferralNotFound
		}
		return nil, fmt.Errorf("failed to get referral %s: %w", id, err)
	}
	return referral, nil
}

// UpdateReferral writes the editable fields of a draft
func (s *ReferralService) UpdateReferral(ctx context.Context, token, id string, update dto.ReferralUpdate) error {
	if err := s.referralClient(token).Update(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update referral %s: %w", id, err)
	}
	return nil
}

// SubmitReferral submits a draft. An existing submitted duplicate returns *ConflictError.
func (s *ReferralService) SubmitReferral(ctx context.Context, token, id string) error {
	if err := s.referralClient(token).Submit(ctx, id); err != nil {
		if conflict := asConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to submit referral %s: %w", id, err)
	}
	s.logger.Info("Submitted referral", zap.String("referralId", id))
	return nil
}

// DeleteReferral removes a draft
func (s *ReferralService) DeleteReferral(ctx context.Context, token, id string) error {
	if err := s.referralClient(token).Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete referral %s: %w", id, err)
	}
	return nil
}

// UpdateReferralStatus moves a referral to a new status
func (s *ReferralService) UpdateReferralStatus(ctx context.Context, token, id string, update dto.ReferralStatusUpdate) error {
	if err := s.referralClient(token).UpdateStatus(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update status of referral %s: %w", id, err)
	}
	s.logger.Info("Updated referral status", zap.String("referralId", id), zap.String("status", update.Status))
	return nil
}

// GetStatusHistory returns the status timeline of a referral
func (s *ReferralService) GetStatusHistory(ctx context.Context, token, id string) ([]model.ReferralStatusHistory, error) {
	history, err := s.referralClient(token).FindStatusHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get status history of referral %s: %w", id, err)
	}
	return history, nil
}

// GetMyReferralViews returns the referrer's own case list
func (s *ReferralService) GetMyReferralViews(ctx context.Context, token string, q dto.DashboardQuery) (*model.Paginated[model.ReferralView], error) {
	page, err := s.referralClient(token).FindMyReferralViews(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get referral case list: %w", err)
	}
	return page, nil
}

// GetOrganisationReferralViews returns the case list of an organisation
func (s *ReferralService) GetOrganisationReferralViews(ctx context.Context, token, organisationID string, q dto.DashboardQuery) (*model.Paginated[model.ReferralView], error) {
	page, err := s.referralClient(token).FindOrganisationReferralViews(ctx, organisationID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get case list for organisation %s: %w", organisationID, err)
	}
	return page, nil
}
