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

package view

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/page.html
var templates embed.FS

// Renderer renders a named view with its data
type Renderer interface {
	Render(c *gin.Context, status int, name string, data gin.H)
}

// HTMLRenderer renders every view through one generic GOV.UK page template
type HTMLRenderer struct {
	page *template.Template
}

// NewHTMLRenderer parses the embedded page template
func NewHTMLRenderer() (*HTMLRenderer, error) {
	page, err := template.ParseFS(templates, "templates/page.html")
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{page: page}, nil
}

type pageData struct {
	View           string
	Title          string
	Errors         map[string]string
	SuccessMessage string
	Data           string
}

// Render writes the page. Known keys pageHeading, errors and successMessage are
// lifted into the layout; everything else is shown as view data.
func (r *HTMLRenderer) Render(c *gin.Context, status int, name string, data gin.H) {
	page := pageData{View: name, Title: name}
	if heading, ok := data["pageHeading"].(string); ok {
		page.Title = heading
	}
	if errs, ok := data["errors"].(map[string]string); ok && len(errs) > 0 {
		page.Errors = errs
	}
	if msg, ok := data["successMessage"].(string); ok {
		page.SuccessMessage = msg
	}
	if b, err := json.MarshalIndent(data, "", "  "); err == nil {
		page.Data = string(b)
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := r.page.Execute(c.Writer, page); err != nil {
		_ = c.Error(err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
