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
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/middleware"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/view"
)

// AuthHandler drives sign in and sign out against HMPPS Auth
type AuthHandler struct {
	auth       AuthClient
	audit      AuditService
	ingressURL string
	renderer   view.Renderer
	logger     *zap.Logger
}

// NewAuthHandler creates a new auth handler. ingressURL is the public base URL of this
// service, used to build redirect URIs.
func NewAuthHandler(auth AuthClient, audit AuditService, ingressURL string, renderer view.Renderer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		audit:      audit,
		ingressURL: strings.TrimSuffix(ingressURL, "/"),
		renderer:   renderer,
		logger:     logger,
	}
}

func (h *AuthHandler) callbackURL() string {
	return h.ingressURL + paths.SignInCallback
}

// SignIn handles GET /sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	sess := requestSession(c)
	sess.AuthState = uuid.NewString()
	redirect(c, h.auth.AuthorizeURL(h.callbackURL(), sess.AuthState))
}

// Callback handles GET /sign-in/callback
func (h *AuthHandler) Callback(c *gin.Context) {
	log := middleware.GetLogger(c, h.logger)
	sess := requestSession(c)

	state, code := c.Query("state"), c.Query("code")
	expected := sess.AuthState
	sess.AuthState = ""
	if code == "" || expected == "" || state != expected {
		log.Warn("Sign in callback rejected", zap.Bool("hasCode", code != ""), zap.Bool("stateMatches", state == expected))
		redirect(c, paths.AuthError)
		return
	}

	token, err := h.auth.GetUserToken(c.Request.Context(), code, h.callbackURL())
	if err != nil {
		log.Error("Failed to exchange authorization code", zap.Error(err))
		redirect(c, paths.AuthError)
		return
	}
	sess.UserToken = token.AccessToken
	sess.User = nil

	username := ""
	if claims, err := middleware.ParseUserToken(token.AccessToken); err == nil {
		username = claims.UserName
	}
	h.audit.SendAuditMessage(c.Request.Context(), constants.AuditSignInEvent, username, middleware.GetCorrelationID(c), nil)

	returnTo := sess.ReturnTo
	sess.ReturnTo = ""
	if !isLocalPath(returnTo) {
		returnTo = paths.Dashboard
	}
	redirect(c, returnTo)
}

// isLocalPath rejects absolute and protocol relative URLs so sign in cannot redirect
// off site
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\")
}

// SignOut handles GET /sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	sess := requestSession(c)
	sess.SignOut()
	sess.ReturnTo = ""
	redirect(c, h.auth.SignOutURL(h.ingressURL))
}

// AuthError handles GET /authError
func (h *AuthHandler) AuthError(c *gin.Context) {
	h.renderer.Render(c, http.StatusUnauthorized, "autherror", gin.H{
		"pageHeading": "Authorisation Error",
		"message":     "You are not authorised to use this application.",
	})
}

// Dashboard handles GET /
func (h *AuthHandler) Dashboard(c *gin.Context) {
	user := requestUser(c)
	h.renderer.Render(c, http.StatusOK, "dashboard", gin.H{
		"pageHeading": "Accredited Programmes",
		"user":        user,
		"findHref":    paths.FindProgrammes,
		"referHref":   linkFor(user, model.RoleReferrer, paths.ReferCaseList),
		"assessHref":  linkFor(user, model.RoleProgrammeTeam, paths.AssessCaseListIndex),
		"pniHref":     linkFor(user, model.RoleReferrer, paths.PniFindPerson),
		"reportsHref": paths.Reports,
	})
}

func linkFor(user *model.User, role, href string) string {
	if user.HasRole(role) {
		return href
	}
	return ""
}

// RegisterPublicRoutes registers the routes reachable without a session
func (h *AuthHandler) RegisterPublicRoutes(r gin.IRoutes) {
	r.GET(paths.SignIn, h.SignIn)
	r.GET(paths.SignInCallback, h.Callback)
	r.GET(paths.SignOut, h.SignOut)
	r.GET(paths.AuthError, h.AuthError)
}

// RegisterRoutes registers the signed in landing page
func (h *AuthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(paths.Dashboard, h.Dashboard)
}
