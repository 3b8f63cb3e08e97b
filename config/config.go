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

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Server holds the configuration parameters for the application.
type Server struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Server configurations
	Port       string `envconfig:"PORT" default:"3000"`
	IngressURL string `envconfig:"INGRESS_URL" default:"http://localhost:3000" validate:"required,url"`
	Production bool   `envconfig:"PRODUCTION" default:"false"`

	// Build metadata reported on the health endpoint
	Build Build `envconfig:"BUILD"`

	Session Session `envconfig:"SESSION"`
	Redis   Redis   `envconfig:"REDIS"`

	// Upstream APIs. Each carries its own timeout and connection pool settings.
	AccreditedProgrammesAPI UpstreamAPI       `envconfig:"ACCREDITED_PROGRAMMES_API"`
	PrisonAPI               UpstreamAPI       `envconfig:"PRISON_API"`
	PrisonerSearchAPI       UpstreamAPI       `envconfig:"PRISONER_SEARCH_API"`
	ManageUsersAPI          UpstreamAPI       `envconfig:"MANAGE_USERS_API"`
	HmppsAuth               HmppsAuth         `envconfig:"HMPPS_AUTH"`
	TokenVerification       TokenVerification `envconfig:"TOKEN_VERIFICATION"`

	Audit   Audit   `envconfig:"AUDIT"`
	Metrics Metrics `envconfig:"METRICS"`
	Pni     Pni     `envconfig:"PNI"`
}

// Build holds the build information injected at deploy time
type Build struct {
	Number string `envconfig:"NUMBER" default:"1_0_0"`
	GitRef string `envconfig:"GIT_REF" default:"xxxxxxxxxxxxxxxxxxx"`
}

// Session holds session cookie configuration
type Session struct {
	Secret        string `envconfig:"SECRET" default:"app-insecure-default-session"`
	CookieName    string `envconfig:"COOKIE_NAME" default:"accredited-programmes-ui.session"`
	ExpiryMinutes int    `envconfig:"EXPIRY_MINUTES" default:"120" validate:"gt=0"`
}

// Expiry returns the session lifetime
func (s Session) Expiry() time.Duration {
	return time.Duration(s.ExpiryMinutes) * time.Minute
}

// Redis holds the connection settings of the cache backing sessions and system tokens
type Redis struct {
	Enabled    bool   `envconfig:"ENABLED" default:"false"`
	Host       string `envconfig:"HOST" default:"localhost"`
	Port       int    `envconfig:"PORT" default:"6379"`
	Password   string `envconfig:"AUTH_TOKEN" default:""`
	TLSEnabled bool   `envconfig:"TLS_ENABLED" default:"false"`
}

// Addr returns host:port
func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// UpstreamAPI holds per-upstream connection settings. Timeouts are in milliseconds.
type UpstreamAPI struct {
	URL               string `envconfig:"URL" default:"http://localhost:9091" validate:"required,url"`
	TimeoutResponse   int    `envconfig:"TIMEOUT_RESPONSE" default:"10000" validate:"gt=0"`
	TimeoutDeadline   int    `envconfig:"TIMEOUT_DEADLINE" default:"10000" validate:"gt=0"`
	MaxSockets        int    `envconfig:"AGENT_MAX_SOCKETS" default:"100" validate:"gt=0"`
	FreeSocketTimeout int    `envconfig:"FREE_SOCKET_TIMEOUT" default:"30000" validate:"gt=0"`
}

// ResponseTimeout is the time allowed for the upstream to start responding
func (u UpstreamAPI) ResponseTimeout() time.Duration {
	return time.Duration(u.TimeoutResponse) * time.Millisecond
}

// DeadlineTimeout is the time allowed for a whole attempt, including reading the body
func (u UpstreamAPI) DeadlineTimeout() time.Duration {
	return time.Duration(u.TimeoutDeadline) * time.Millisecond
}

// IdleTimeout is how long a pooled keep-alive connection may stay idle
func (u UpstreamAPI) IdleTimeout() time.Duration {
	return time.Duration(u.FreeSocketTimeout) * time.Millisecond
}

// HmppsAuth holds the OAuth2 server settings and client credentials
type HmppsAuth struct {
	UpstreamAPI
	ExternalURL        string `envconfig:"EXTERNAL_URL" default:"http://localhost:9091" validate:"required,url"`
	APIClientID        string `envconfig:"API_CLIENT_ID" default:"clientid"`
	APIClientSecret    string `envconfig:"API_CLIENT_SECRET" default:"clientsecret"`
	SystemClientID     string `envconfig:"SYSTEM_CLIENT_ID" default:"clientid"`
	SystemClientSecret string `envconfig:"SYSTEM_CLIENT_SECRET" default:"clientsecret"`
}

// TokenVerification holds the token verification API settings
type TokenVerification struct {
	UpstreamAPI
	Enabled bool `envconfig:"ENABLED" default:"false"`
}

// Audit holds the audit queue settings
type Audit struct {
	Enabled           bool   `envconfig:"ENABLED" default:"false"`
	QueueURL          string `envconfig:"SQS_QUEUE_URL" default:""`
	Region            string `envconfig:"SQS_REGION" default:"eu-west-2"`
	ServiceName       string `envconfig:"SERVICE_NAME" default:"hmpps-accredited-programmes-ui"`
	RedirectRulesPath string `envconfig:"REDIRECT_RULES_PATH" default:""`
}

// Metrics holds the prometheus endpoint settings
type Metrics struct {
	Enabled bool `envconfig:"ENABLED" default:"true"`
	Port    int  `envconfig:"PORT" default:"3001"`
}

// Pni holds the programme needs identification settings
type Pni struct {
	// OrganisationIDs lists the prisons allowed to use the PNI find and refer journey
	OrganisationIDs []string `envconfig:"ORGANISATION_IDS" default:"BWN,MDI,WRI"`
}

// package-level variable and mutex for thread safety
var (
	processOnce     sync.Once
	settingInstance *Server
)

// GetConfig initializes and returns a singleton instance of the Server struct.
// It uses sync.Once to ensure that the initialization logic is executed only once,
// making it safe for concurrent use. If there is an error during the initialization,
// the function will panic.
func GetConfig() *Server {
	var err error
	processOnce.Do(func() {
		settingInstance, err = Load()
	})
	if err != nil {
		panic(err)
	}
	return settingInstance
}

// Load reads the configuration from the environment and validates it.
func Load() (*Server, error) {
	cfg := &Server{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateConfig validates field constraints and the cross-field rules envconfig cannot express
//
// Parameters:
//   - cfg: configuration to validate
//
// Returns:
//   - error: Validation error if configuration is invalid, nil otherwise
func validateConfig(cfg *Server) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Audit.Enabled && cfg.Audit.QueueURL == "" {
		return fmt.Errorf("audit is enabled but AUDIT_SQS_QUEUE_URL is not configured")
	}

	if cfg.Production {
		if cfg.Session.Secret == "app-insecure-default-session" {
			return fmt.Errorf("SESSION_SECRET must be configured in production")
		}
		if !cfg.Redis.Enabled {
			return fmt.Errorf("REDIS_ENABLED must be true in production")
		}
	}

	return nil
}
