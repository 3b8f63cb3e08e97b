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
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/model"
)

// UserService builds the signed-in user from manage users and prison API data
type UserService struct {
	manageUsersClient client.RestClientBuilder[*client.ManageUsersClient]
	prisonAPIClient   client.RestClientBuilder[*client.PrisonAPIClient]
	logger            *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	manageUsersClient client.RestClientBuilder[*client.ManageUsersClient],
	prisonAPIClient client.RestClientBuilder[*client.PrisonAPIClient],
	logger *zap.Logger,
) *UserService {
	return &UserService{
		manageUsersClient: manageUsersClient,
		prisonAPIClient:   prisonAPIClient,
		logger:            logger,
	}
}

// GetUser returns the user behind token, with display name and caseloads
func (s *UserService) GetUser(ctx context.Context, token string, roles []string) (*model.User, error) {
	var details *model.UserDetails
	var caseloads []model.Caseload

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details, err = s.manageUsersClient(token).FindMe(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		caseloads, err = s.prisonAPIClient(token).FindCaseloads(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get user details: %w", err)
	}

	user := &model.User{
		Username:         details.Username,
		Name:             details.Name,
		DisplayName:      initialiseName(details.Name),
		UserID:           details.UserID,
		ActiveCaseLoadID: details.ActiveCaseLoadID,
		Roles:            roles,
		Token:            token,
	}
	for _, c := range caseloads {
		user.Caseloads = append(user.Caseloads, c.CaseLoadID)
		if c.CurrentlyActive && user.ActiveCaseLoadID == "" {
			user.ActiveCaseLoadID = c.CaseLoadID
		}
	}
	return user, nil
}

// GetFullNameFromUsername returns the name of another user, falling back to the username
func (s *UserService) GetFullNameFromUsername(ctx context.Context, token, username string) string {
	details, err := s.manageUsersClient(token).FindUser(ctx, username)
	if err != nil {
		s.logger.Debug("Failed to look up user name", zap.String("username", username), zap.Error(err))
		return username
	}
	return details.Name
}

// GetEmailFromUsername returns the email address of a user, or empty when unknown
func (s *UserService) GetEmailFromUsername(ctx context.Context, token, username string) string {
	email, err := s.manageUsersClient(token).FindEmail(ctx, username)
	if err != nil {
		s.logger.Debug("Failed to look up user email", zap.String("username", username), zap.Error(err))
		return ""
	}
	return email.Email
}

// initialiseName turns "John Smith" into "J. Smith"
func initialiseName(name string) string {
	for i, r := range name {
		if r == ' ' {
			if i == 0 {
				break
			}
			_, size := utf8.DecodeRuneInString(name)
			return name[:size] + "." + name[i:]
		}
	}
	return name
}
