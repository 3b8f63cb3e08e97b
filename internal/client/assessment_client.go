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

// PniClient reads programme needs identification scores
type PniClient struct {
	rest *RestClient
}

// NewPniClient creates a PniClient over rest
func NewPniClient(rest *RestClient) *PniClient {
	return &PniClient{rest: rest}
}

// FindPni returns the PNI score of a person
func (c *PniClient) FindPni(ctx context.Context, prisonNumber string) (*model.PniScore, error) {
	var score model.PniScore
	if err := c.rest.Get(ctx, Request{Path: pathf("/PNI/%s", prisonNumber)}, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// OasysClient reads OASys assessment metadata
type OasysClient struct {
	rest *RestClient
}

// NewOasysClient creates an OasysClient over rest
func NewOasysClient(rest *RestClient) *OasysClient {
	return &OasysClient{rest: rest}
}

// FindAssessmentDateInfo returns the latest completed assessment date of a person
func (c *OasysClient) FindAssessmentDateInfo(ctx context.Context, prisonNumber string) (*model.OasysAssessmentDateInfo, error) {
	var info model.OasysAssessmentDateInfo
	if err := c.rest.Get(ctx, Request{Path: pathf("/oasys/%s/assessment_date", prisonNumber)}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
