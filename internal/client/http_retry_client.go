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
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"accredited-programmes-ui/internal/metrics"
)

// RetryableHTTPClient wraps an HTTP client with retry logic for idempotent requests
type RetryableHTTPClient struct {
	client     *http.Client
	name       string
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewRetryableHTTPClient creates a new HTTP client with a pooled transport sized from cfg
//
// Parameters:
//   - cfg: upstream settings; DeadlineTimeout bounds every attempt
//   - logger: logger used for retry attempts
//
// Returns:
//   - *RetryableHTTPClient: A configured HTTP client with retry logic
func NewRetryableHTTPClient(cfg UpstreamConfig, logger *zap.Logger) *RetryableHTTPClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = cfg.MaxConnsPerHost
	transport.MaxIdleConnsPerHost = cfg.MaxConnsPerHost
	transport.IdleConnTimeout = cfg.IdleConnTimeout
	transport.ResponseHeaderTimeout = cfg.ResponseTimeout

	if logger == nil {
		logger = zap.NewNop()
	}

	return &RetryableHTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.DeadlineTimeout,
		},
		name:       cfg.Name,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		logger:     logger,
	}
}

// Do executes an HTTP request with retry logic
//
// Retry behavior:
//   - Only GET, HEAD and DELETE are retried; other methods get a single attempt
//   - Retries on network errors, timeouts or 5xx server errors
//   - Does NOT retry on 4xx client errors (non-retryable)
//   - Waits for the configured backoff between attempts unless the request context ends
//   - Maximum attempts = maxRetries + 1 (initial attempt + retries)
//
// Parameters:
//   - req: The HTTP request to execute
//
// Returns:
//   - *http.Response: The last HTTP response, including a final 5xx
//   - error: Error if all attempts failed without a response
func (r *RetryableHTTPClient) Do(req *http.Request) (*http.Response, error) {
	retries := 0
	if isIdempotent(req.Method) {
		retries = r.maxRetries
	}

	var resp *http.Response
	var err error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, bodyErr
				}
				req.Body = body
			}
			metrics.UpstreamRetriesTotal.WithLabelValues(r.name, req.Method).Inc()
		}

		resp, err = r.client.Do(req)

		// Success: no error and status code < 500
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if attempt == retries {
			break
		}

		if err != nil {
			r.logger.Warn("Upstream attempt failed, retrying",
				zap.String("upstream", r.name),
				zap.String("method", req.Method),
				zap.Int("attempt", attempt+1),
				zap.Int("maxAttempts", retries+1),
				zap.Error(err))
		} else {
			r.logger.Warn("Upstream attempt returned server error, retrying",
				zap.String("upstream", r.name),
				zap.String("method", req.Method),
				zap.Int("attempt", attempt+1),
				zap.Int("maxAttempts", retries+1),
				zap.Int("status", resp.StatusCode))
			// discard the body so the connection goes back to the pool
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(r.backoff):
		}
	}

	if err != nil {
		r.logger.Error("All upstream attempts failed",
			zap.String("upstream", r.name),
			zap.String("method", req.Method),
			zap.Int("attempts", retries+1),
			zap.Error(err))
		return nil, err
	}

	return resp, nil
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	}
	return false
}
