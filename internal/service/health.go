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
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"accredited-programmes-ui/internal/dto"
)

const healthCheckTimeout = 5 * time.Second

// Pinger is an upstream that can report its own health
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// HealthService pings upstreams concurrently
type HealthService struct {
	upstreams []Pinger
	build     dto.BuildInfo
	startedAt time.Time
	logger    *zap.Logger
}

// NewHealthService creates a new HealthService
func NewHealthService(upstreams []Pinger, build dto.BuildInfo, logger *zap.Logger) *HealthService {
	return &HealthService{
		upstreams: upstreams,
		build:     build,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// Check pings every upstream and reports healthy only when all respond
func (s *HealthService) Check(ctx context.Context) dto.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var mu sync.Mutex
	checks := make(map[string]string, len(s.upstreams))
	healthy := true

	// a failed upstream must not cancel the others, so errors are recorded rather than returned
	var g errgroup.Group
	for _, upstream := range s.upstreams {
		g.Go(func() error {
			status := "ok"
			if err := upstream.Ping(ctx); err != nil {
				s.logger.Warn("Upstream health check failed", zap.String("upstream", upstream.Name()), zap.Error(err))
				status = err.Error()
			}
			mu.Lock()
			defer mu.Unlock()
			checks[upstream.Name()] = status
			if status != "ok" {
				healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	return dto.HealthResponse{
		Healthy: healthy,
		Checks:  checks,
		Build:   s.build,
		Uptime:  time.Since(s.startedAt).Seconds(),
	}
}
