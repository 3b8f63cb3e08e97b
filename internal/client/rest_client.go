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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"accredited-programmes-ui/internal/metrics"
)

// Upstream owns the shared connection pool of one upstream API. It is safe for
// concurrent use; per-token RestClients created from it are cheap.
type Upstream struct {
	cfg        UpstreamConfig
	httpClient *RetryableHTTPClient
	logger     *zap.Logger
}

// NewUpstream creates a new Upstream for the provided UpstreamConfig.
func NewUpstream(cfg UpstreamConfig, logger *zap.Logger) *Upstream {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Upstream{
		cfg:        cfg,
		httpClient: NewRetryableHTTPClient(cfg, logger),
		logger:     logger.With(zap.String("upstream", cfg.Name)),
	}
}

// Name returns the upstream name
func (u *Upstream) Name() string {
	return u.cfg.Name
}

// BaseURL returns the configured base URL
func (u *Upstream) BaseURL() string {
	return u.cfg.BaseURL
}

// Client returns a RestClient that authenticates with token. An empty token sends no
// Authorization header.
func (u *Upstream) Client(token string) *RestClient {
	return &RestClient{upstream: u, token: token}
}

// Ping calls {baseURL}/health/ping without credentials
func (u *Upstream) Ping(ctx context.Context) error {
	return u.Client("").Get(ctx, Request{Path: "/health/ping", Raw: true}, nil)
}

// Request describes one upstream call
type Request struct {
	Path    string
	Query   url.Values
	Data    any        // JSON encoded body
	Form    url.Values // form encoded body, takes precedence over Data
	Headers map[string]string
	Raw     bool // when set, out must be *[]byte and receives the undecoded body
}

// RestClient performs authenticated JSON calls against one upstream
type RestClient struct {
	upstream *Upstream
	token    string
}

// Get executes a GET request and decodes the response into out
func (c *RestClient) Get(ctx context.Context, req Request, out any) error {
	return c.do(ctx, http.MethodGet, req, out)
}

// Post executes a POST request and decodes the response into out
func (c *RestClient) Post(ctx context.Context, req Request, out any) error {
	return c.do(ctx, http.MethodPost, req, out)
}

// Put executes a PUT request and decodes the response into out
func (c *RestClient) Put(ctx context.Context, req Request, out any) error {
	return c.do(ctx, http.MethodPut, req, out)
}

// Delete executes a DELETE request and decodes the response into out
func (c *RestClient) Delete(ctx context.Context, req Request, out any) error {
	return c.do(ctx, http.MethodDelete, req, out)
}

// buildURL joins base URL with the request path ensuring single slashes.
func (c *RestClient) buildURL(path string, query url.Values) string {
	base := strings.TrimRight(c.upstream.cfg.BaseURL, "/")
	full := base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

// newRequest encodes the body of req and returns an *http.Request with Content-Type set.
func (c *RestClient) newRequest(ctx context.Context, method string, req Request) (*http.Request, error) {
	var body []byte
	contentType := ""
	switch {
	case req.Form != nil:
		body = []byte(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Data != nil:
		b, err := json.Marshal(req.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = b
		contentType = "application/json"
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(req.Path, req.Query), reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

// do executes the request, maps any failure to a SanitisedError and decodes the
// response JSON into out. If out is nil, the body is discarded.
func (c *RestClient) do(ctx context.Context, method string, req Request, out any) error {
	name := c.upstream.cfg.Name
	log := c.upstream.logger

	httpReq, err := c.newRequest(ctx, method, req)
	if err != nil {
		return newSanitisedError(name, nil, nil, err)
	}

	log.Debug("Upstream request", zap.String("method", method), zap.String("path", req.Path))

	start := time.Now()
	resp, err := c.upstream.httpClient.Do(httpReq)
	metrics.UpstreamRequestDurationSeconds.WithLabelValues(name, method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(name, method, "error").Inc()
		log.Warn("Upstream request failed", zap.String("method", method), zap.String("path", req.Path), zap.Error(err))
		return newSanitisedError(name, nil, nil, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(name, method, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return newSanitisedError(name, nil, nil, fmt.Errorf("reading response body failed: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("Upstream returned unexpected status",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Int("status", resp.StatusCode))
		return newSanitisedError(name, resp, b, nil)
	}

	if out == nil {
		return nil
	}

	if req.Raw {
		raw, ok := out.(*[]byte)
		if !ok {
			return newSanitisedError(name, nil, nil, fmt.Errorf("raw request requires *[]byte, got %T", out))
		}
		*raw = b
		return nil
	}

	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return newSanitisedError(name, resp, b, fmt.Errorf("decoding response failed: %w", err))
	}
	return nil
}

// RestClientBuilder creates a typed client bound to a bearer token
type RestClientBuilder[T any] func(token string) T

// NewBuilder returns a RestClientBuilder that wraps the upstream's RestClient with wrap
func NewBuilder[T any](u *Upstream, wrap func(*RestClient) T) RestClientBuilder[T] {
	return func(token string) T {
		return wrap(u.Client(token))
	}
}
