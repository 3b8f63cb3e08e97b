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
	"os"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"accredited-programmes-ui/internal/constants"
)

// Auditor publishes audit events
type Auditor interface {
	SendAuditMessage(ctx context.Context, what, who, correlationID string, details map[string]any)
}

// AuditRule maps a redirect target to an audit event. When RequestPath is set the
// submitted path must match it too. Named groups of Pattern are added to the event
// details.
type AuditRule struct {
	RequestPath *regexp.Regexp
	Pattern     *regexp.Regexp
	Event       string
}

func (r AuditRule) match(requestPath, location string) []string {
	if r.RequestPath != nil && !r.RequestPath.MatchString(requestPath) {
		return nil
	}
	return r.Pattern.FindStringSubmatch(location)
}

type auditRuleFile struct {
	Rules []struct {
		RequestPath string `yaml:"requestPath"`
		Pattern     string `yaml:"pattern"`
		Event       string `yaml:"event"`
	} `yaml:"rules"`
}

// DefaultAuditRules audits the redirects that follow a state changing referral action
func DefaultAuditRules() []AuditRule {
	return []AuditRule{
		{
			RequestPath: regexp.MustCompile(`^/refer/referrals$`),
			Pattern:     regexp.MustCompile(`^/refer/referrals/new/(?P<referralId>[^/]+)$`),
			Event:       constants.AuditCreateReferralEvent,
		},
		{
			RequestPath: regexp.MustCompile(`^/refer/referrals/new/[^/]+/submit$`),
			Pattern:     regexp.MustCompile(`^/refer/referrals/new/(?P<referralId>[^/]+)/complete$`),
			Event:       constants.AuditSubmitReferralEvent,
		},
		{
			RequestPath: regexp.MustCompile(`^/refer/referrals/new/(?P<referralId>[^/]+)/delete$`),
			Pattern:     regexp.MustCompile(`^/refer/`),
			Event:       constants.AuditDeleteReferralEvent,
		},
	}
}

// LoadAuditRules reads rules from a YAML file of the form
//
//	rules:
//	  - requestPath: ^/refer/referrals/new/[^/]+/submit$
//	    pattern: ^/refer/referrals/new/(?P<referralId>[^/]+)/complete$
//	    event: SUBMIT_REFERRAL
func LoadAuditRules(path string) ([]AuditRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit rules: %w", err)
	}
	var file auditRuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse audit rules: %w", err)
	}

	rules := make([]AuditRule, 0, len(file.Rules))
	for _, r := range file.Rules {
		pattern, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid audit rule pattern %q: %w", r.Pattern, err)
		}
		if r.Event == "" {
			return nil, fmt.Errorf("audit rule %q has no event", r.Pattern)
		}
		rule := AuditRule{Pattern: pattern, Event: r.Event}
		if r.RequestPath != "" {
			if rule.RequestPath, err = regexp.Compile(r.RequestPath); err != nil {
				return nil, fmt.Errorf("invalid audit rule request path %q: %w", r.RequestPath, err)
			}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// AuditRedirectMiddleware publishes an audit event when a POST handler redirects to a
// location matching one of rules. Publishing happens after the response and never
// affects it.
func AuditRedirectMiddleware(auditor Auditor, rules []AuditRule, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodPost {
			return
		}
		status := c.Writer.Status()
		if status < 300 || status > 399 {
			return
		}
		location := c.Writer.Header().Get("Location")
		if location == "" {
			return
		}

		for _, rule := range rules {
			match := rule.match(c.Request.URL.Path, location)
			if match == nil {
				continue
			}

			details := map[string]any{"path": c.Request.URL.Path}
			for i, name := range rule.Pattern.SubexpNames() {
				if name != "" && i < len(match) {
					details[name] = match[i]
				}
			}
			for _, p := range c.Params {
				if _, exists := details[p.Key]; !exists {
					details[p.Key] = p.Value
				}
			}

			who := ""
			if user := GetUser(c); user != nil {
				who = user.Username
			}
			correlationID := GetCorrelationID(c)
			ctx := context.WithoutCancel(c.Request.Context())
			event := rule.Event

			GetLogger(c, logger).Debug("Auditing redirect", zap.String("event", event), zap.String("location", location))
			go auditor.SendAuditMessage(ctx, event, who, correlationID, details)
			return
		}
	}
}
