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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/session"
	"accredited-programmes-ui/internal/utils"
	"accredited-programmes-ui/internal/view"
)

// PniHandler serves the PNI find and refer journey
type PniHandler struct {
	people   PersonService
	pni      PniService
	renderer view.Renderer
	logger   *zap.Logger
}

// NewPniHandler creates a new PNI handler
func NewPniHandler(people PersonService, pni PniService, renderer view.Renderer, logger *zap.Logger) *PniHandler {
	return &PniHandler{people: people, pni: pni, renderer: renderer, logger: logger}
}

// FindPersonForm handles GET /find/person
func (h *PniHandler) FindPersonForm(c *gin.Context) {
	sess := requestSession(c)
	form := utils.ConsumeFormState(sess, "prisonNumber")
	current := ""
	if sess.PniFindAndReferData != nil {
		current = sess.PniFindAndReferData.PrisonNumber
	}
	h.renderer.Render(c, http.StatusOK, "find/person", gin.H{
		"pageHeading":  "Find recommended programmes",
		"prisonNumber": form.Value("prisonNumber", current),
		"errors":       form.Errors,
	})
}

// FindPerson handles POST /find/person
func (h *PniHandler) FindPerson(c *gin.Context) {
	sess := requestSession(c)
	prisonNumber := strings.ToUpper(utils.TrimmedPostForm(c, "prisonNumber"))
	form := utils.NewFormState()
	if prisonNumber == "" {
		form.AddError("prisonNumber", "Enter a prison number")
		form.Flash(sess)
		redirect(c, paths.PniFindPerson)
		return
	}

	person, err := h.people.GetPerson(c.Request.Context(), requestUser(c).Username, prisonNumber)
	if err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	if person == nil {
		form.AddError("prisonNumber", fmt.Sprintf("No person with a prison number '%s' was found", prisonNumber))
		form.SetValue("prisonNumber", prisonNumber)
		form.Flash(sess)
		redirect(c, paths.PniFindPerson)
		return
	}

	sess.PniFindAndReferData = &session.PniFindAndReferData{PrisonNumber: person.PrisonNumber}
	redirect(c, paths.RecommendedPathway)
}

// RecommendedPathway handles GET /find/recommended-pathway
func (h *PniHandler) RecommendedPathway(c *gin.Context) {
	data := requestSession(c).PniFindAndReferData
	if data == nil || data.PrisonNumber == "" {
		redirect(c, paths.PniFindPerson)
		return
	}
	user := requestUser(c)

	var (
		person *model.Person
		score  *model.PniScore
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		person, err = h.people.GetPerson(ctx, user.Username, data.PrisonNumber)
		return err
	})
	g.Go(func() error {
		var err error
		score, err = h.pni.GetPni(ctx, user.Token, data.PrisonNumber)
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, h.renderer, h.logger, err)
		return
	}
	if person == nil {
		redirect(c, paths.PniFindPerson)
		return
	}

	pathway := "MISSING_INFORMATION"
	if score != nil && score.ProgrammePathway != "" {
		pathway = score.ProgrammePathway
	}
	h.renderer.Render(c, http.StatusOK, "find/recommendedPathway", gin.H{
		"pageHeading":      fmt.Sprintf("Recommended programme pathway for %s", person.Name),
		"person":           person,
		"pni":              score,
		"programmePathway": pathway,
		"backHref":         paths.PniFindPerson,
		"programmesHref":   paths.FindProgrammes,
	})
}

// RegisterRoutes registers the PNI routes. Callers apply the organisation gate.
func (h *PniHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(paths.PniFindPerson, h.FindPersonForm)
	r.POST(paths.PniFindPerson, h.FindPerson)
	r.GET(paths.RecommendedPathway, h.RecommendedPathway)
}
