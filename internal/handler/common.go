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

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/middleware"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/session"
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

// renderError renders the error page for err. Upstream details are logged, not shown.
func renderError(c *gin.Context, renderer view.Renderer, logger *zap.Logger, err error) {
	status, resp := utils.ErrorToResponse(err)
	log := middleware.GetLogger(c, logger)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	} else {
		log.Info("Request rejected", zap.String("path", c.Request.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	renderer.Render(c, status, "pages/error", gin.H{
		"pageHeading": resp.Message,
		"message":     resp.Description,
		"status":      status,
	})
}

// requestUser returns the signed-in user. Authenticated routes always have one.
func requestUser(c *gin.Context) *model.User {
	if user := middleware.GetUser(c); user != nil {
		return user
	}
	return &model.User{}
}

// requestSession returns the request session, creating a detached one outside the
// session middleware.
func requestSession(c *gin.Context) *session.Session {
	if sess := middleware.GetSession(c); sess != nil {
		return sess
	}
	return session.New()
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// referralGuard enforces ownership and the started/submitted lifecycle of referrals
type referralGuard struct {
	referrals ReferralService
	renderer  view.Renderer
	logger    *zap.Logger
}

func (g referralGuard) fetch(c *gin.Context) (*model.Referral, bool) {
	user := requestUser(c)
	referral, err := g.referrals.GetReferral(c.Request.Context(), user.Token, c.Param("referralId"))
	if err != nil {
		renderError(c, g.renderer, g.logger, err)
		return nil, false
	}
	return referral, true
}

// owned loads the referral and redirects to the auth error page when the signed-in
// user did not make it
func (g referralGuard) owned(c *gin.Context) (*model.Referral, bool) {
	referral, ok := g.fetch(c)
	if !ok {
		return nil, false
	}
	if referral.ReferrerUsername != requestUser(c).Username {
		middleware.GetLogger(c, g.logger).Info("Referral accessed by non-referrer",
			zap.String("referralId", referral.ID))
		redirect(c, paths.AuthError)
		return nil, false
	}
	return referral, true
}

// started loads a draft owned by the user. Submitted referrals redirect to the
// complete page without reaching the handler.
func (g referralGuard) started(c *gin.Context) (*model.Referral, bool) {
	referral, ok := g.owned(c)
	if !ok {
		return nil, false
	}
	if !referral.IsStarted() {
		redirect(c, paths.Draft(paths.DraftComplete, referral.ID))
		return nil, false
	}
	return referral, true
}

// submitted loads a referral that has left the draft state
func (g referralGuard) submitted(c *gin.Context) (*model.Referral, bool) {
	referral, ok := g.owned(c)
	if !ok {
		return nil, false
	}
	if referral.IsStarted() {
		renderError(c, g.renderer, g.logger, constants.ErrReferralStarted)
		return nil, false
	}
	return referral, true
}

// firstFlash consumes the flash messages under key and returns the first
func firstFlash(c *gin.Context, key string) string {
	if messages := requestSession(c).ConsumeFlash(key); len(messages) > 0 {
		return messages[0]
	}
	return ""
}
