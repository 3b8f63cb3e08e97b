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

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
)

// HmppsClaims represents the JWT claims structure issued by HMPPS Auth
type HmppsClaims struct {
	UserName    string   `json:"user_name"`
	Name        string   `json:"name"`
	AuthSource  string   `json:"auth_source"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// ParseUserToken decodes the claims of token. The signature is not checked here,
// HMPPS Auth issued the token and the verification API confirms it is still active.
func ParseUserToken(token string) (*HmppsClaims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, _, err := parser.ParseUnverified(token, &HmppsClaims{})
	if err != nil {
		return nil, fmt.Errorf("invalid JWT format: %w", err)
	}
	claims, ok := parsed.Claims.(*HmppsClaims)
	if !ok {
		return nil, constants.ErrInvalidToken
	}
	return claims, nil
}

// TokenVerifier confirms a user token is still active
type TokenVerifier interface {
	Verify(ctx context.Context, token string) bool
}

// UserLoader builds the signed-in user from a token
type UserLoader interface {
	GetUser(ctx context.Context, token string, roles []string) (*model.User, error)
}

// AuthConfig holds the configuration for session authentication
type AuthConfig struct {
	SkipPaths []string // Paths to skip authentication, matched by prefix
	Verifier  TokenVerifier
	Users     UserLoader
	Now       func() time.Time
}

// AuthMiddleware requires a signed-in user. Unauthenticated requests are sent to
// sign in and returned to the page they asked for afterwards.
func AuthMiddleware(config AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if c.Request.URL.Path == path || (path != "/" && strings.HasPrefix(c.Request.URL.Path, path+"/")) {
				c.Next()
				return
			}
		}

		log := GetLogger(c, logger)
		sess := GetSession(c)
		if sess == nil || sess.UserToken == "" {
			redirectToSignIn(c)
			return
		}

		claims, err := ParseUserToken(sess.UserToken)
		if err != nil {
			log.Warn("Discarding unreadable user token", zap.Error(err))
			sess.SignOut()
			redirectToSignIn(c)
			return
		}
		if claims.ExpiresAt != nil && !now().Before(claims.ExpiresAt.Time) {
			sess.SignOut()
			redirectToSignIn(c)
			return
		}
		if config.Verifier != nil && !config.Verifier.Verify(c.Request.Context(), sess.UserToken) {
			sess.SignOut()
			redirectToSignIn(c)
			return
		}

		if sess.User == nil || sess.User.Username != claims.UserName {
			user, err := config.Users.GetUser(c.Request.Context(), sess.UserToken, claims.Authorities)
			if err != nil {
				log.Error("Failed to load user details", zap.Error(err))
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			sess.User = user
		}
		user := *sess.User
		user.Token = sess.UserToken
		c.Set(constants.UserKey, &user)

		c.Next()
	}
}

func redirectToSignIn(c *gin.Context) {
	if sess := GetSession(c); sess != nil && c.Request.Method == http.MethodGet {
		sess.ReturnTo = c.Request.URL.RequestURI()
	}
	c.Redirect(http.StatusFound, paths.SignIn)
	c.Abort()
}

// GetUser returns the signed-in user, or nil outside authenticated routes
func GetUser(c *gin.Context) *model.User {
	if u, exists := c.Get(constants.UserKey); exists {
		if user, ok := u.(*model.User); ok {
			return user
		}
	}
	return nil
}

// RequireRole allows the request through when the user holds any of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user != nil && slices.ContainsFunc(roles, user.HasRole) {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, paths.AuthError)
		c.Abort()
	}
}

// PniOrganisationGate allows the request through when the user's active caseload is
// one of the organisations using the PNI find journey
func PniOrganisationGate(organisationIDs []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user != nil && user.ActiveCaseLoadID != "" && slices.Contains(organisationIDs, user.ActiveCaseLoadID) {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, paths.AuthError)
		c.Abort()
	}
}
