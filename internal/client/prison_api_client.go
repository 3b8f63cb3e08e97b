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

// PrisonAPIClient reads bookings and caseloads from the prison API
type PrisonAPIClient struct {
	rest *RestClient
}

// NewPrisonAPIClient creates a PrisonAPIClient over rest
func NewPrisonAPIClient(rest *RestClient) *PrisonAPIClient {
	return &PrisonAPIClient{rest: rest}
}

// FindSentenceDetails returns the sentence details of a booking
func (c *PrisonAPIClient) FindSentenceDetails(ctx context.Context, bookingID string) (*model.SentenceDetails, error) {
	var details model.SentenceDetails
	if err := c.rest.Get(ctx, Request{Path: pathf("/api/bookings/%s/sentenceDetail", bookingID)}, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// FindOffenceHistory returns the offences recorded against a person
func (c *PrisonAPIClient) FindOffenceHistory(ctx context.Context, prisonNumber string) ([]model.OffenceHistoryDetail, error) {
	var offences []model.OffenceHistoryDetail
	if err := c.rest.Get(ctx, Request{Path: pathf("/api/bookings/offenderNo/%s/offenceHistory", prisonNumber)}, &offences); err != nil {
		return nil, err
	}
	return offences, nil
}

// FindCaseloads returns the caseloads of the token's user
func (c *PrisonAPIClient) FindCaseloads(ctx context.Context) ([]model.Caseload, error) {
	var caseloads []model.Caseload
	if err := c.rest.Get(ctx, Request{Path: "/api/users/me/caseLoads"}, &caseloads); err != nil {
		return nil, err
	}
	return caseloads, nil
}
