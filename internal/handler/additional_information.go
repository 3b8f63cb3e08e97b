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
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

// AdditionalInformationHandler serves the additional information task of a draft referral
type AdditionalInformationHandler struct {
	referrals ReferralService
	renderer  view.Renderer
	logger    *zap.Logger
	guard     referralGuard
}

// NewAdditionalInformationHandler creates a new additional information handler
func NewAdditionalInformationHandler(referrals ReferralService, renderer view.Renderer, logger *zap.Logger) *AdditionalInformationHandler {
	return &AdditionalInformationHandler{
		referrals: referrals,
		renderer:  renderer,
		logger:    logger,
		guard:     referralGuard{referrals: referrals, renderer: renderer, logger: logger},
	}
}

// Show handles GET /refer/referrals/new/:referralId/additional-information
func (h *AdditionalInformationHandler) Show(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}
	form := utils.ConsumeFormState(requestSession(c), "additionalInformation")
	h.renderer.Render(c, http.StatusOK, "referrals/additionalInformation", gin.H{
		"pageHeading":           "Add additional information",
		"referral":              referral,
		"errors":                form.Errors,
		"additionalInformation": form.Value("additionalInformation", referral.AdditionalInformation),
		"maxLength":             constants.AdditionalInformationMaxLength,
		"backHref":              paths.Draft(paths.ShowDraft, referral.ID),
	})
}

// Update handles PUT /refer/referrals/new/:referralId/additional-information
func (h *AdditionalInformationHandler) Update(c *gin.Context) {
	referral, ok := h.guard.started(c)
	if !ok {
		return
	}

	value := utils.NormaliseNewlines(strings.TrimSpace(c.PostForm("additionalInformation")))
	form := utils.NewFormState()
	switch {
	case value == "":
		form.AddError("additionalInformation", "Enter additional information")
	case utf8.RuneCountInString(value) > constants.AdditionalInformationMaxLength:
		form.AddError("additionalInformation",
			fmt.Sprintf("Additional information must be %d characters or fewer", constants.AdditionalInformationMaxLength))
		form.SetValue("additionalInformation", value)
	}
	if form.HasErrors() {
		form.Flash(requestSession(c))
		redirect(c, paths.Draft(paths.DraftAdditionalInformation, referral.ID))
		return
	}

	update := dto.UpdateFromReferral(referral)
	update.AdditionalInformation = value
	if err := h.referrals.UpdateReferral(c.Request.Context(), requestUser(c).Token, referral.ID, update); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	redirect(c, paths.Draft(paths.ShowDraft, referral.ID))
}

// RegisterRoutes registers the additional information routes
func (h *AdditionalInformationHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(paths.DraftAdditionalInformation, h.Show)
	r.PUT(paths.DraftAdditionalInformation, h.Update)
	r.POST(paths.DraftAdditionalInformation, h.Update)
}
