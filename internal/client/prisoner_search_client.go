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

// PrisonerSearchClient looks up prisoners by number
type PrisonerSearchClient struct {
	rest *RestClient
}

// NewPrisonerSearchClient creates a PrisonerSearchClient over rest
func NewPrisonerSearchClient(rest *RestClient) *PrisonerSearchClient {
	return &PrisonerSearchClient{rest: rest}
}

// FindPrisoner returns the prisoner with prisonNumber
func (c *PrisonerSearchClient) FindPrisoner(ctx context.Context, prisonNumber string) (*model.Prisoner, error) {
	var prisoner model.Prisoner
	if err := c.rest.Get(ctx, Request{Path: pathf("/prisoner/%s", prisonNumber)}, &prisoner); err != nil {
		return nil, err
	}
	return &prisoner, nil
}
