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
	"go.uber.org/zap"

	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

// OasysHandler serves the OASys confirmation task of a draft referral
type OasysHandler struct {
	referrals ReferralService
	pni       PniService
	renderer  view.Renderer
	logger    *zap.Logger
	guard     referralGuard
}

// NewOasysHandler creates a new OASys confirmation handler
func NewOasysHandler(referrals ReferralService, pni PniService, renderer view.Renderer, logger *zap.Logger) *OasysHandler {
	return &OasysHandler{
		referrals: referrals,
		pni:       pni,
		renderer:  renderer,
		logger:    logger,
		guard:     referralGuard{referrals: referrals, renderer: renderer, logger: logger},
	}
}

// Show handles GET /refer/referrals/new/:referralId/confirm-oasys
func (h *OasysHandler) Show(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	// a missing assessment date only hides the hint on the page
	dateInfo, _ := h.pni.GetAssessmentDateInfo(c.Request.Context(), requestUser(c).Token, referral.PrisonNumber)

	form := utils.ConsumeFormState(requestSession(c), "oasysConfirmed")
	h.renderer.Render(c, http.StatusOK, "referrals/confirmOasys", gin.H{
		"pageHeading":    "Confirm the OASys information",
		"referral":       referral,
		"assessmentDate": dateInfo,
		"errors":         form.Errors,
		"oasysConfirmed": referral.OasysConfirmed,
		"backHref":       paths.Draft(paths.ShowDraft, referral.ID),
	})
}

// Update handles PUT /refer/referrals/new/:referralId/confirm-oasys
func (h *OasysHandler) Update(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	if c.PostForm("oasysConfirmed") != "true" {
		form := utils.NewFormState()
		form.AddError("oasysConfirmed", "Confirm that the information is up to date")
		form.Flash(requestSession(c))
		redirect(c, paths.Draft(paths.DraftConfirmOasys, referral.ID))
		return
	}

	update := dto.UpdateFromReferral(referral)
	update.OasysConfirmed = true
	if err := h.referrals.UpdateReferral(c.Request.Context(), requestUser(c).Token, referral.ID, update); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	redirect(c, paths.Draft(paths.ShowDraft, referral.ID))
}

// RegisterRoutes registers the OASys confirmation routes
func (h *OasysHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(paths.DraftConfirmOasys, h.Show)
	r.PUT(paths.DraftConfirmOasys, h.Update)
	r.POST(paths.DraftConfirmOasys, h.Update)
}
