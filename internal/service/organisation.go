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

// OrganisationService maps prison register records to organisations
type OrganisationService struct {
	organisationClient client.RestClientBuilder[*client.OrganisationClient]
	logger             *zap.Logger
}

// NewOrganisationService creates a new OrganisationService
func NewOrganisationService(organisationClient client.RestClientBuilder[*client.OrganisationClient], logger *zap.Logger) *OrganisationService {
	return &OrganisationService{organisationClient: organisationClient, logger: logger}
}

// GetOrganisation returns the organisation with code, or nil when it is unknown or inactive
func (s *OrganisationService) GetOrganisation(ctx context.Context, token, code string) (*model.Organisation, error) {
	prison, err := s.organisationClient(token).FindPrison(ctx, code)
	if err != nil {
		if client.IsNotFound(err) {
			s.logger.Debug("Organisation not found", zap.String("code", code))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get organisation %s: %w", code, err)
	}
	if !prison.Active {
		return nil, nil
	}
	return OrganisationFromPrison(prison), nil
}

// OrganisationFromPrison maps a prison register record
func OrganisationFromPrison(p *model.Prison) *model.Organisation {
	org := &model.Organisation{
		ID:   p.PrisonID,
		Name: p.PrisonName,
	}
	if len(p.Categories) > 0 {
		org.Category = p.Categories[0]
	}
	if len(p.Addresses) > 0 {
		a := p.Addresses[0]
		org.Address = model.OrganisationAddress{
			AddressLine1: a.AddressLine1,
			AddressLine2: a.AddressLine2,
			Town:         a.Town,
			County:       a.County,
			Postcode:     a.Postcode,
			Country:      a.Country,
		}
	}
	return org
}
