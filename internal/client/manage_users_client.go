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

// ManageUsersClient reads staff details from the manage users API
type ManageUsersClient struct {
	rest *RestClient
}

// NewManageUsersClient creates a ManageUsersClient over rest
func NewManageUsersClient(rest *RestClient) *ManageUsersClient {
	return &ManageUsersClient{rest: rest}
}

// FindMe returns the token's user
func (c *ManageUsersClient) FindMe(ctx context.Context) (*model.UserDetails, error) {
	var user model.UserDetails
	if err := c.rest.Get(ctx, Request{Path: "/users/me"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUser returns the user with username
func (c *ManageUsersClient) FindUser(ctx context.Context, username string) (*model.UserDetails, error) {
	var user model.UserDetails
	if err := c.rest.Get(ctx, Request{Path: pathf("/users/%s", username)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindEmail returns the email address of username
func (c *ManageUsersClient) FindEmail(ctx context.Context, username string) (*model.UserEmail, error) {
	var email model.UserEmail
	if err := c.rest.Get(ctx, Request{Path: pathf("/users/%s/email", username)}, &email); err != nil {
		return nil, err
	}
	return &email, nil
}
