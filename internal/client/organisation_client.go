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

// OrganisationClient reads prison register records
type OrganisationClient struct {
	rest *RestClient
}

// NewOrganisationClient creates an OrganisationClient over rest
func NewOrganisationClient(rest *RestClient) *OrganisationClient {
	return &OrganisationClient{rest: rest}
}

// FindPrison returns the prison register record for code
func (c *OrganisationClient) FindPrison(ctx context.Context, code string) (*model.Prison, error) {
	var prison model.Prison
	if err := c.rest.Get(ctx, Request{Path: pathf("/organisation/%s", code)}, &prison); err != nil {
		return nil, err
	}
	return &prison, nil
}
