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

	"go.uber.org/zap"
)

// TokenVerificationClient checks user tokens against the token verification API
type TokenVerificationClient struct {
	upstream *Upstream
	enabled  bool
	logger   *zap.Logger
}

// NewTokenVerificationClient creates a verifier. A disabled verifier accepts every token.
func NewTokenVerificationClient(upstream *Upstream, enabled bool, logger *zap.Logger) *TokenVerificationClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenVerificationClient{upstream: upstream, enabled: enabled, logger: logger}
}

// Verify reports whether token is still active
func (c *TokenVerificationClient) Verify(ctx context.Context, token string) bool {
	if !c.enabled {
		return true
	}
	var resp struct {
		Active bool `json:"active"`
	}
	if err := c.upstream.Client(token).Post(ctx, Request{Path: "/token/verify"}, &resp); err != nil {
		c.logger.Warn("Token verification failed", zap.Error(err))
		return false
	}
	return resp.Active
}
