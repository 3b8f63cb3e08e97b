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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// sensitiveHeaders are stripped from every error that leaves the transport layer
var sensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}

// SanitisedError is the only error shape returned by RestClient. It never carries
// credentials from the request or response.
type SanitisedError struct {
	Upstream string      // upstream name, e.g. accreditedProgrammesApi
	Status   int         // HTTP status, zero when no response was received
	Text     string      // status text or underlying transport message
	Headers  http.Header // response headers without credentials
	Data     []byte      // raw response body
	Message  string      // human readable message for error views
	Err      error       // underlying cause if any
}

// Error implements the error interface for SanitisedError
func (e *SanitisedError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Upstream, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Upstream, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *SanitisedError) Unwrap() error {
	return e.Err
}

// DecodeData unmarshals the response body of the error into v
func (e *SanitisedError) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return errors.New("error response has no body")
	}
	return json.Unmarshal(e.Data, v)
}

// upstreamErrorBody is the error payload shape returned by the HMPPS APIs
type upstreamErrorBody struct {
	Status           int    `json:"status"`
	UserMessage      string `json:"userMessage"`
	DeveloperMessage string `json:"developerMessage"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func newSanitisedError(upstream string, resp *http.Response, body []byte, cause error) *SanitisedError {
	e := &SanitisedError{
		Upstream: upstream,
		Err:      cause,
	}

	if resp == nil {
		e.Text = "transport error"
		if cause != nil {
			e.Text = cause.Error()
		}
		e.Message = "The service is currently unavailable. Try again later."
		return e
	}

	e.Status = resp.StatusCode
	e.Text = http.StatusText(resp.StatusCode)
	e.Headers = stripSensitive(resp.Header)
	e.Data = body
	e.Message = e.Text

	var payload upstreamErrorBody
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.UserMessage != "":
			e.Message = payload.UserMessage
		case payload.ErrorDescription != "":
			e.Message = payload.ErrorDescription
		case payload.DeveloperMessage != "":
			e.Message = payload.DeveloperMessage
		}
	}
	return e
}

func stripSensitive(h http.Header) http.Header {
	if h == nil {
		return nil
	}
	out := h.Clone()
	for _, name := range sensitiveHeaders {
		out.Del(name)
	}
	return out
}

// StatusOf returns the upstream HTTP status of err, or zero when err is not a SanitisedError
func StatusOf(err error) int {
	var se *SanitisedError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// IsNotFound reports whether err is an upstream 404
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsConflict reports whether err is an upstream 409
func IsConflict(err error) bool {
	return StatusOf(err) == http.StatusConflict
}
