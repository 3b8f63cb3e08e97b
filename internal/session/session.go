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

package session

import (
	"context"

	"github.com/google/uuid"

	"accredited-programmes-ui/internal/model"
)

// ReferralStatusUpdateData is the withdrawal wizard state. It is only valid for the
// referral it names.
type ReferralStatusUpdateData struct {
	ReferralID          string `json:"referralId"`
	Status              string `json:"status"`
	StatusCategoryCode  string `json:"statusCategoryCode,omitempty"`
	StatusReasonCode    string `json:"statusReasonCode,omitempty"`
	PreviousPath        string `json:"previousPath,omitempty"`
	FinalStatusDecision string `json:"finalStatusDecision,omitempty"`
}

// Matches reports whether the wizard state belongs to referralID and status
func (d *ReferralStatusUpdateData) Matches(referralID, status string) bool {
	return d != nil && d.ReferralID == referralID && d.Status == status
}

// PniFindAndReferData holds the person chosen on the PNI find page
type PniFindAndReferData struct {
	PrisonNumber string `json:"prisonNumber"`
}

// Session is the server side state of one browser session
type Session struct {
	ID                       string                    `json:"id"`
	UserToken                string                    `json:"userToken,omitempty"`
	User                     *model.User               `json:"user,omitempty"`
	ReturnTo                 string                    `json:"returnTo,omitempty"`
	AuthState                string                    `json:"authState,omitempty"`
	ReferralStatusUpdateData *ReferralStatusUpdateData `json:"referralStatusUpdateData,omitempty"`
	PniFindAndReferData      *PniFindAndReferData      `json:"pniFindAndReferData,omitempty"`
	Flash                    map[string][]string       `json:"flash,omitempty"`
}

// New creates an empty session with a random id
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// AddFlash appends messages under key, to be read once on the next request
func (s *Session) AddFlash(key string, messages ...string) {
	if s.Flash == nil {
		s.Flash = make(map[string][]string)
	}
	s.Flash[key] = append(s.Flash[key], messages...)
}

// ConsumeFlash returns and removes the messages held under key
func (s *Session) ConsumeFlash(key string) []string {
	messages := s.Flash[key]
	delete(s.Flash, key)
	return messages
}

// SignOut drops everything tied to the signed-in user
func (s *Session) SignOut() {
	s.UserToken = ""
	s.User = nil
	s.ReferralStatusUpdateData = nil
	s.PniFindAndReferData = nil
	s.Flash = nil
}

// Store persists sessions between requests. Get returns nil and no error for an
// unknown id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Destroy(ctx context.Context, id string) error
}
