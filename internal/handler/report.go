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
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/service"
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

const reportDateLayout = "2006-01-02"

// ReportHandler serves the referral statistics page
type ReportHandler struct {
	statistics StatisticsService
	renderer   view.Renderer
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportHandler creates a new report handler
func NewReportHandler(statistics StatisticsService, renderer view.Renderer, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{statistics: statistics, renderer: renderer, logger: logger, now: time.Now}
}

// Reports handles GET /reports
func (h *ReportHandler) Reports(c *gin.Context) {
	user := requestUser(c)
	now := h.now()
	form := utils.NewFormState()

	startDate := c.DefaultQuery("startDate", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(reportDateLayout))
	endDate := c.Query("endDate")
	start, err := time.Parse(reportDateLayout, startDate)
	if err != nil {
		form.AddError("startDate", "Enter a valid start date")
	}
	if endDate != "" {
		end, err := time.Parse(reportDateLayout, endDate)
		switch {
		case err != nil:
			form.AddError("endDate", "Enter a valid end date")
		case form.Error("startDate") == "" && end.Before(start):
			form.AddError("endDate", "End date must be after the start date")
		}
	}

	var locations []string
	if location := c.Query("location"); location != "" {
		locations = []string{location}
	} else if user.ActiveCaseLoadID != "" {
		locations = []string{user.ActiveCaseLoadID}
	}

	reports := make([]*model.ReportContent, len(service.ReportTypes))
	if !form.HasErrors() {
		g, ctx := errgroup.WithContext(c.Request.Context())
		for i, reportType := range service.ReportTypes {
			g.Go(func() error {
				var err error
				reports[i], err = h.statistics.GetReport(ctx, user.Token, reportType, startDate, endDate, locations)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			renderError(c, h.renderer, h.logger, err)
			return
		}
	}

	h.renderer.Render(c, http.StatusOK, "reports/show", gin.H{
		"pageHeading": "Accredited Programmes data",
		"reports":     reports,
		"startDate":   startDate,
		"endDate":     endDate,
		"locations":   locations,
		"errors":      form.Errors,
		"action":      paths.Reports,
	})
}

// RegisterRoutes registers the reporting routes
func (h *ReportHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(paths.Reports, h.Reports)
}
