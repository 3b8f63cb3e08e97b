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

package utils

import (
	"errors"
	"net/http"

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/constants"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code int, message string, description ...string) ErrorResponse {
	resp := ErrorResponse{
		Code:    code,
		Message: message,
	}
	if len(description) > 0 {
		resp.Description = description[0]
	}
	return resp
}

// ErrorToResponse maps an error returned by a service to an HTTP status and a user
// facing response. Upstream details other than the message never leave the server.
func ErrorToResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, constants.ErrReferralNotFound),
		errors.Is(err, constants.ErrCourseNotFound),
		errors.Is(err, constants.ErrOfferingNotFound),
		errors.Is(err, constants.ErrParticipationNotFound),
		errors.Is(err, constants.ErrPersonNotFound),
		errors.Is(err, constants.ErrOrganisationNotFound),
		errors.Is(err, constants.ErrNotFound):
		return makeError(http.StatusNotFound, err.Error())
	case errors.Is(err, constants.ErrReferralStarted):
		return makeError(http.StatusBadRequest, err.Error())
	case errors.Is(err, constants.ErrForbidden), errors.Is(err, constants.ErrNotReferralOwner):
		return makeError(http.StatusForbidden, err.Error())
	}

	var se *client.SanitisedError
	if errors.As(err, &se) {
		if se.Status == http.StatusNotFound {
			return makeError(http.StatusNotFound, se.Message)
		}
		return makeError(http.StatusInternalServerError, se.Message)
	}
	return makeError(http.StatusInternalServerError, "Something went wrong. Try again later.")
}

// makeError creates a standardized error response tuple
func makeError(status int, message string) (int, ErrorResponse) {
	return status, NewErrorResponse(status, http.StatusText(status), message)
}
