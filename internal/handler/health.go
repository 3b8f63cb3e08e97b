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

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accredited-programmes-ui/internal/paths"
)

// HealthHandler serves the probes
type HealthHandler struct {
	health HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(health HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	result := h.health.Check(c.Request.Context())
	status := http.StatusOK
	if !result.Healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, result)
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// RegisterRoutes registers the probe routes
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(paths.Health, h.Health)
	r.GET(paths.Ping, h.Ping)
}
