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
	"time"

	"accredited-programmes-ui/config"
)

// Upstream names used for logging and metrics labels
const (
	AccreditedProgrammesAPIName = "accreditedProgrammesApi"
	PrisonAPIName               = "prisonApi"
	PrisonerSearchAPIName       = "prisonerSearchApi"
	ManageUsersAPIName          = "manageUsersApi"
	HmppsAuthName               = "hmppsAuth"
	TokenVerificationName       = "tokenVerification"
)

// DefaultMaxRetries is the number of extra attempts for idempotent requests
const DefaultMaxRetries = 2

// DefaultRetryBackoff is the wait between attempts
const DefaultRetryBackoff = 100 * time.Millisecond

// UpstreamConfig contains the per-upstream settings used to create a shared http.Client
type UpstreamConfig struct {
	Name            string        // upstream name, used as metrics label
	BaseURL         string        // full base URL including scheme
	ResponseTimeout time.Duration // time allowed until response headers arrive
	DeadlineTimeout time.Duration // time allowed for a whole attempt
	MaxConnsPerHost int
	IdleConnTimeout time.Duration
	MaxRetries      int // extra attempts for GET and DELETE
	RetryBackoff    time.Duration
}

// UpstreamConfigFrom maps environment configuration of an upstream API
func UpstreamConfigFrom(name string, api config.UpstreamAPI) UpstreamConfig {
	return UpstreamConfig{
		Name:            name,
		BaseURL:         api.URL,
		ResponseTimeout: api.ResponseTimeout(),
		DeadlineTimeout: api.DeadlineTimeout(),
		MaxConnsPerHost: api.MaxSockets,
		IdleConnTimeout: api.IdleTimeout(),
		MaxRetries:      DefaultMaxRetries,
		RetryBackoff:    DefaultRetryBackoff,
	}
}
