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
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/metrics"
	"accredited-programmes-ui/internal/tokenstore"
)

const tokenStoreTimeout = 5 * time.Second

// HmppsAuthConfig carries the OAuth2 client credentials
type HmppsAuthConfig struct {
	ExternalURL        string // browser facing auth URL
	APIClientID        string // authorization_code client used for sign-in
	APIClientSecret    string
	SystemClientID     string // client_credentials client used for system tokens
	SystemClientSecret string
}

// TokenResponse is the OAuth2 token endpoint payload
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
}

// HmppsAuthClient obtains user and system tokens from HMPPS Auth
type HmppsAuthClient struct {
	upstream *Upstream
	store    tokenstore.TokenStore
	cfg      HmppsAuthConfig
	group    singleflight.Group
	logger   *zap.Logger
}

// NewHmppsAuthClient creates a new auth client. System tokens are cached in store.
func NewHmppsAuthClient(upstream *Upstream, store tokenstore.TokenStore, cfg HmppsAuthConfig, logger *zap.Logger) *HmppsAuthClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HmppsAuthClient{
		upstream: upstream,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetSystemClientToken returns a client_credentials token on behalf of username.
// An empty username requests an anonymous system token. Cached tokens are returned
// without a network call; concurrent misses for the same key share one request.
func (c *HmppsAuthClient) GetSystemClientToken(ctx context.Context, username string) (string, error) {
	key := username
	if key == "" {
		key = constants.AnonymousTokenKey
	}

	token, err := c.store.GetToken(ctx, key)
	if err != nil {
		// a broken cache must not block sign-in, fall through to the token endpoint
		c.logger.Warn("Failed to read system token from cache", zap.String("key", key), zap.Error(err))
	}
	if token != "" {
		metrics.TokenCacheLookupsTotal.WithLabelValues("hit").Inc()
		return token, nil
	}
	metrics.TokenCacheLookupsTotal.WithLabelValues("miss").Inc()

	// the shared flight must not be cancelled by the first caller leaving
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (any, error) {
		resp, err := c.requestSystemToken(flightCtx, username)
		if err != nil {
			return "", err
		}
		c.storeAsync(key, resp)
		return resp.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *HmppsAuthClient) requestSystemToken(ctx context.Context, username string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if username != "" {
		form.Set("username", username)
	}

	var resp TokenResponse
	err := c.upstream.Client("").Post(ctx, Request{
		Path:    "/oauth/token",
		Form:    form,
		Headers: map[string]string{"Authorization": basicAuth(c.cfg.SystemClientID, c.cfg.SystemClientSecret)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain system token: %w", err)
	}
	return &resp, nil
}

// storeAsync caches the token in the background with ttl expires_in minus the expiry buffer
func (c *HmppsAuthClient) storeAsync(key string, resp *TokenResponse) {
	ttl := time.Duration(resp.ExpiresIn-constants.TokenExpiryBuffer) * time.Second
	if ttl <= 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), tokenStoreTimeout)
		defer cancel()
		if err := c.store.SetToken(ctx, key, resp.AccessToken, ttl); err != nil {
			c.logger.Warn("Failed to cache system token", zap.String("key", key), zap.Error(err))
		}
	}()
}

// GetUserToken exchanges an authorization code for a user token
func (c *HmppsAuthClient) GetUserToken(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	var resp TokenResponse
	err := c.upstream.Client("").Post(ctx, Request{
		Path:    "/oauth/token",
		Form:    form,
		Headers: map[string]string{"Authorization": basicAuth(c.cfg.APIClientID, c.cfg.APIClientSecret)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return &resp, nil
}

// AuthorizeURL returns the browser URL that starts the authorization_code flow
func (c *HmppsAuthClient) AuthorizeURL(redirectURI, state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.APIClientID)
	q.Set("redirect_uri", redirectURI)
	if state != "" {
		q.Set("state", state)
	}
	return strings.TrimRight(c.cfg.ExternalURL, "/") + "/oauth/authorize?" + q.Encode()
}

// SignOutURL returns the browser URL that ends the HMPPS Auth session
func (c *HmppsAuthClient) SignOutURL(redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", c.cfg.APIClientID)
	q.Set("redirect_uri", redirectURI)
	return strings.TrimRight(c.cfg.ExternalURL, "/") + "/sign-out?" + q.Encode()
}

func basicAuth(id, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(id+":"+secret))
}
