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
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/middleware"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/session"
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

// WithdrawHandler serves the withdrawal wizard under both path bases. State between
// steps lives in Session.ReferralStatusUpdateData.
type WithdrawHandler struct {
	referrals ReferralService
	refData   ReferenceDataService
	audit     AuditService
	renderer  view.Renderer
	logger    *zap.Logger
	guard     referralGuard
}

// NewWithdrawHandler creates a new withdrawal wizard handler
func NewWithdrawHandler(
	referrals ReferralService,
	refData ReferenceDataService,
	audit AuditService,
	renderer view.Renderer,
	logger *zap.Logger,
) *WithdrawHandler {
	return &WithdrawHandler{
		referrals: referrals,
		refData:   refData,
		audit:     audit,
		renderer:  renderer,
		logger:    logger,
		guard:     referralGuard{referrals: referrals, renderer: renderer, logger: logger},
	}
}

// referral loads the referral being withdrawn. Referrers may only withdraw their own.
func (h *WithdrawHandler) referral(c *gin.Context, base paths.PathBase) (*model.Referral, bool) {
	if base == paths.Refer {
		return h.guard.owned(c)
	}
	return h.guard.fetch(c)
}

// wizardState returns the session state of the current referral, redirecting to the
// category step when it is missing or belongs to another referral
func (h *WithdrawHandler) wizardState(c *gin.Context, base paths.PathBase) (*session.ReferralStatusUpdateData, bool) {
	referralID := c.Param("referralId")
	data := requestSession(c).ReferralStatusUpdateData
	if !data.Matches(referralID, constants.WithdrawnStatus) {
		redirect(c, base.WithdrawCategory(referralID))
		return nil, false
	}
	return data, true
}

// ShowCategory handles GET {base}/referrals/:referralId/withdraw
func (h *WithdrawHandler) ShowCategory(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		referral, ok := h.referral(c, base)
		if !ok {
			return
		}
		sess := requestSession(c)
		if !sess.ReferralStatusUpdateData.Matches(referral.ID, constants.WithdrawnStatus) {
			previous := c.GetHeader("Referer")
			if previous == "" {
				previous = base.StatusHistory(referral.ID)
			}
			sess.ReferralStatusUpdateData = &session.ReferralStatusUpdateData{
				ReferralID:   referral.ID,
				Status:       constants.WithdrawnStatus,
				PreviousPath: previous,
			}
		}
		data := sess.ReferralStatusUpdateData

		categories, err := h.refData.GetReferralStatusCodeCategories(c.Request.Context(), requestUser(c).Token, constants.WithdrawnStatus)
		if err != nil {
			renderError(c, h.renderer, h.logger, err)
			return
		}
		form := utils.ConsumeFormState(sess, "categoryCode")
		h.renderer.Render(c, http.StatusOK, "referrals/withdraw/category", gin.H{
			"pageHeading":  "Withdraw referral",
			"referral":     referral,
			"categories":   categories,
			"categoryCode": data.StatusCategoryCode,
			"errors":       form.Errors,
			"action":       base.WithdrawCategory(referral.ID),
			"backHref":     data.PreviousPath,
		})
	}
}

// SubmitCategory handles POST {base}/referrals/:referralId/withdraw
func (h *WithdrawHandler) SubmitCategory(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		referral, ok := h.referral(c, base)
		if !ok {
			return
		}
		sess := requestSession(c)
		categoryCode := utils.TrimmedPostForm(c, "categoryCode")
		if categoryCode == "" {
			form := utils.NewFormState()
			form.AddError("categoryCode", "Select a withdrawal category")
			form.Flash(sess)
			redirect(c, base.WithdrawCategory(referral.ID))
			return
		}

		previous := ""
		if data := sess.ReferralStatusUpdateData; data.Matches(referral.ID, constants.WithdrawnStatus) {
			previous = data.PreviousPath
		}
		sess.ReferralStatusUpdateData = &session.ReferralStatusUpdateData{
			ReferralID:         referral.ID,
			Status:             constants.WithdrawnStatus,
			StatusCategoryCode: categoryCode,
			PreviousPath:       previous,
		}
		redirect(c, base.WithdrawReason(referral.ID))
	}
}

// ShowReason handles GET {base}/referrals/:referralId/withdraw-reason
func (h *WithdrawHandler) ShowReason(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := h.wizardState(c, base)
		if !ok {
			return
		}
		referral, ok := h.referral(c, base)
		if !ok {
			return
		}

		reasons, err := h.refData.GetReferralStatusCodeReasons(c.Request.Context(), requestUser(c).Token,
			constants.WithdrawnStatus, data.StatusCategoryCode)
		if err != nil {
			renderError(c, h.renderer, h.logger, err)
			return
		}
		if len(reasons) == 0 {
			data.StatusReasonCode = ""
			redirect(c, base.WithdrawReasonInformation(referral.ID))
			return
		}

		form := utils.ConsumeFormState(requestSession(c), "reasonCode")
		h.renderer.Render(c, http.StatusOK, "referrals/withdraw/reason", gin.H{
			"pageHeading": "Withdrawal reason",
			"referral":    referral,
			"reasons":     reasons,
			"reasonCode":  data.StatusReasonCode,
			"errors":      form.Errors,
			"action":      base.WithdrawReason(referral.ID),
			"backHref":    base.WithdrawCategory(referral.ID),
		})
	}
}

// SubmitReason handles POST {base}/referrals/:referralId/withdraw-reason
func (h *WithdrawHandler) SubmitReason(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := h.wizardState(c, base)
		if !ok {
			return
		}
		if _, ok := h.referral(c, base); !ok {
			return
		}
		reasonCode := utils.TrimmedPostForm(c, "reasonCode")
		if reasonCode == "" {
			form := utils.NewFormState()
			form.AddError("reasonCode", "Select a withdrawal reason")
			form.Flash(requestSession(c))
			redirect(c, base.WithdrawReason(data.ReferralID))
			return
		}
		data.StatusReasonCode = reasonCode
		redirect(c, base.WithdrawReasonInformation(data.ReferralID))
	}
}

// ShowReasonInformation handles GET {base}/referrals/:referralId/withdraw-reason-information
func (h *WithdrawHandler) ShowReasonInformation(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := h.wizardState(c, base)
		if !ok {
			return
		}
		referral, ok := h.referral(c, base)
		if !ok {
			return
		}

		backHref := base.WithdrawCategory(referral.ID)
		if data.StatusReasonCode != "" {
			backHref = base.WithdrawReason(referral.ID)
		}
		form := utils.ConsumeFormState(requestSession(c), "reason")
		h.renderer.Render(c, http.StatusOK, "referrals/withdraw/reasonInformation", gin.H{
			"pageHeading": "Withdrawal reason information",
			"referral":    referral,
			"reason":      form.Value("reason", ""),
			"maxLength":   constants.WithdrawalReasonMaxLength,
			"errors":      form.Errors,
			"action":      base.WithdrawReasonInformation(referral.ID),
			"backHref":    backHref,
		})
	}
}

// SubmitReasonInformation handles POST {base}/referrals/:referralId/withdraw-reason-information
// and withdraws the referral
func (h *WithdrawHandler) SubmitReasonInformation(base paths.PathBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := h.wizardState(c, base)
		if !ok {
			return
		}
		if _, ok := h.referral(c, base); !ok {
			return
		}
		sess := requestSession(c)

		reason := utils.NormaliseNewlines(utils.TrimmedPostForm(c, "reason"))
		form := utils.NewFormState()
		switch {
		case reason == "":
			form.AddError("reason", "Enter a reason")
		case utf8.RuneCountInString(reason) > constants.WithdrawalReasonMaxLength:
			form.AddError("reason", fmt.Sprintf("Reason must be %d characters or fewer", constants.WithdrawalReasonMaxLength))
			form.SetValue("reason", reason)
		}
		if form.HasErrors() {
			form.Flash(sess)
			redirect(c, base.WithdrawReasonInformation(data.ReferralID))
			return
		}

		user := requestUser(c)
		update := dto.ReferralStatusUpdate{
			Status:   constants.WithdrawnStatus,
			Category: data.StatusCategoryCode,
			Reason:   data.StatusReasonCode,
			Notes:    reason,
			PtUser:   base == paths.Assess,
		}
		err := h.referrals.UpdateReferralStatus(c.Request.Context(), user.Token, data.ReferralID, update)
		sess.ReferralStatusUpdateData = nil
		if err != nil {
			renderError(c, h.renderer, h.logger, err)
			return
		}

		h.audit.SendAuditMessage(c.Request.Context(), constants.AuditWithdrawReferralEvent, user.Username,
			middleware.GetCorrelationID(c), map[string]any{
				"referralId": data.ReferralID,
				"category":   update.Category,
				"reason":     update.Reason,
			})
		sess.AddFlash(constants.FlashSuccessMessage, "The referral has been withdrawn.")
		middleware.GetLogger(c, h.logger).Info("Referral withdrawn",
			zap.String("referralId", data.ReferralID), zap.String("base", base.String()))
		redirect(c, base.StatusHistory(data.ReferralID))
	}
}

// RegisterRoutes registers the wizard under base
func (h *WithdrawHandler) RegisterRoutes(r gin.IRoutes, base paths.PathBase) {
	r.GET(base.Route(paths.WithdrawCategorySuffix), h.ShowCategory(base))
	r.POST(base.Route(paths.WithdrawCategorySuffix), h.SubmitCategory(base))
	r.GET(base.Route(paths.WithdrawReasonSuffix), h.ShowReason(base))
	r.POST(base.Route(paths.WithdrawReasonSuffix), h.SubmitReason(base))
	r.GET(base.Route(paths.WithdrawReasonInformationSuffix), h.ShowReasonInformation(base))
	r.POST(base.Route(paths.WithdrawReasonInformationSuffix), h.SubmitReasonInformation(base))
}
