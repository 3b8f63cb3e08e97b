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
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/session"
)

// SessionConfig holds the session cookie settings
type SessionConfig struct {
	CookieName string
	Secure     bool
	Expiry     time.Duration
}

// sessionWriter saves the session before the first byte of the response is written,
// so the next request from the browser always sees the state this one produced.
type sessionWriter struct {
	gin.ResponseWriter
	save func()
}

func (w *sessionWriter) WriteHeaderNow() {
	w.save()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.save()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.save()
	return w.ResponseWriter.WriteString(s)
}

// SessionMiddleware loads the session named by the cookie, creating one when absent,
// and stores it back once the handler has run.
func SessionMiddleware(store session.Store, cfg SessionConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLogger(c, logger)

		var sess *session.Session
		if id, err := c.Cookie(cfg.CookieName); err == nil && id != "" {
			loaded, err := store.Get(c.Request.Context(), id)
			if err != nil {
				log.Error("Failed to load session", zap.Error(err))
			}
			sess = loaded
		}
		if sess == nil {
			sess = session.New()
		}

		c.Set(constants.SessionKey, sess)
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(cfg.Expiry.Seconds()),
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		saved := false
		save := func() {
			if saved {
				return
			}
			saved = true
			if err := store.Save(c.Request.Context(), sess); err != nil {
				log.Error("Failed to save session", zap.Error(err))
			}
		}
		c.Writer = &sessionWriter{ResponseWriter: c.Writer, save: save}

		c.Next()

		save()
	}
}

// GetSession returns the request's session. It never returns nil inside the middleware chain.
func GetSession(c *gin.Context) *session.Session {
	if s, exists := c.Get(constants.SessionKey); exists {
		if sess, ok := s.(*session.Session); ok {
			return sess
		}
	}
	return nil
}
