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

package service

import (
	"context"
	"fmt"

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/model"
)

// Report types shown on the reports page
var ReportTypes = []string{
	"REFERRAL_COUNT",
	"PROGRAMME_COMPLETE_COUNT",
	"NOT_ELIGIBLE_COUNT",
	"WITHDRAWN_COUNT",
}

// StatisticsService reads referral statistics
type StatisticsService struct {
	statisticsClient client.RestClientBuilder[*client.StatisticsClient]
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(statisticsClient client.RestClientBuilder[*client.StatisticsClient]) *StatisticsService {
	return &StatisticsService{statisticsClient: statisticsClient}
}

// GetReport returns one report for the period and locations
func (s *StatisticsService) GetReport(ctx context.Context, token, reportType, startDate, endDate string, locationCodes []string) (*model.ReportContent, error) {
	report, err := s.statisticsClient(token).FindReport(ctx, reportType, startDate, endDate, locationCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s report: %w", reportType, err)
	}
	return report, nil
}
