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

package utils

import (
	"strings"

	"github.com/gin-gonic/gin"

	"accredited-programmes-ui/internal/constants"
	"accredited-programmes-ui/internal/session"
)

// FormState carries field errors and submitted values from a rejected POST to the
// GET that redisplays the form.
type FormState struct {
	Errors map[string]string
	Values map[string]string
}

// NewFormState creates an empty FormState
func NewFormState() FormState {
	return FormState{Errors: map[string]string{}, Values: map[string]string{}}
}

// AddError records the message of a field
func (f *FormState) AddError(field, message string) {
	if f.Errors == nil {
		f.Errors = map[string]string{}
	}
	f.Errors[field] = message
}

// SetValue records the submitted value of a field
func (f *FormState) SetValue(field, value string) {
	if f.Values == nil {
		f.Values = map[string]string{}
	}
	f.Values[field] = value
}

// HasErrors reports whether any field failed validation
func (f FormState) HasErrors() bool {
	return len(f.Errors) > 0
}

// Error returns the message of field, or empty
func (f FormState) Error(field string) string {
	return f.Errors[field]
}

// Value returns the submitted value of field, falling back to def
func (f FormState) Value(field, def string) string {
	if v, ok := f.Values[field]; ok {
		return v
	}
	return def
}

// Flash stores the state in the session for the next request
func (f FormState) Flash(sess *session.Session) {
	for field, message := range f.Errors {
		sess.AddFlash(constants.FlashErrors+field, message)
	}
	for field, value := range f.Values {
		sess.AddFlash(constants.FlashValues+field, value)
	}
}

// ConsumeFormState reads and clears the flashed state of the given fields
func ConsumeFormState(sess *session.Session, fields ...string) FormState {
	state := NewFormState()
	if sess == nil {
		return state
	}
	for _, field := range fields {
		if messages := sess.ConsumeFlash(constants.FlashErrors + field); len(messages) > 0 {
			state.Errors[field] = messages[0]
		}
		if values := sess.ConsumeFlash(constants.FlashValues + field); len(values) > 0 {
			state.Values[field] = values[0]
		}
	}
	return state
}

// TrimmedPostForm returns the trimmed form value of field
func TrimmedPostForm(c *gin.Context, field string) string {
	return strings.TrimSpace(c.PostForm(field))
}

// NormaliseNewlines converts CRLF line endings from browsers to LF
func NormaliseNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
