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

package client

import (
	"context"
	"net/url"

	"accredited-programmes-ui/internal/model"
)

// StatisticsClient reads referral statistics reports
type StatisticsClient struct {
	rest *RestClient
}

// NewStatisticsClient creates a StatisticsClient over rest
func NewStatisticsClient(rest *RestClient) *StatisticsClient {
	return &StatisticsClient{rest: rest}
}

// FindReport returns one report for the period and locations
func (c *StatisticsClient) FindReport(ctx context.Context, reportType, startDate, endDate string, locationCodes []string) (*model.ReportContent, error) {
	q := url.Values{}
	q.Set("reportType", reportType)
	q.Set("startDate", startDate)
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	for _, code := range locationCodes {
		q.Add("locationCodes", code)
	}

	var report model.ReportContent
	if err := c.rest.Get(ctx, Request{Path: "/statistics/report", Query: q}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
