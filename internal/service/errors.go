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
	"errors"
	"fmt"
	"regexp"

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/dto"
)

// ConflictError is returned when a referral for the same person and offering already exists
type ConflictError struct {
	ReferralID string
	Err        error
}

// Error implements the error interface for ConflictError
func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate referral %s", e.ReferralID)
}

// Unwrap returns the underlying error for error unwrapping
func (e *ConflictError) Unwrap() error {
	return e.Err
}

var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// asConflict maps an upstream 409 to a ConflictError carrying the existing referral id.
// It returns nil when err is not a conflict or the id cannot be found.
func asConflict(err error) *ConflictError {
	var se *client.SanitisedError
	if !errors.As(err, &se) || !client.IsConflict(err) {
		return nil
	}

	var body dto.ReferralConflict
	if decodeErr := se.DecodeData(&body); decodeErr == nil {
		if body.ID != "" {
			return &ConflictError{ReferralID: body.ID, Err: err}
		}
		for _, msg := range []string{body.DeveloperMessage, body.UserMessage} {
			if id := uuidPattern.FindString(msg); id != "" {
				return &ConflictError{ReferralID: id, Err: err}
			}
		}
	}
	return nil
}
