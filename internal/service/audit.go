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
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/metrics"
)

const auditPublishTimeout = 5 * time.Second

// SQSPublisher is the part of the SQS client used to publish audit events
type SQSPublisher interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// NewSQSClient creates an SQS client from the default AWS credential chain
func NewSQSClient(ctx context.Context, region string) (*sqs.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return sqs.New(sqs.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: cfg.BaseEndpoint,
	}), nil
}

// AuditService publishes audit events. Publishing never fails the caller.
type AuditService struct {
	publisher   SQSPublisher
	queueURL    string
	serviceName string
	enabled     bool
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuditService creates a new AuditService. A nil publisher disables auditing.
func NewAuditService(publisher SQSPublisher, queueURL, serviceName string, logger *zap.Logger) *AuditService {
	return &AuditService{
		publisher:   publisher,
		queueURL:    queueURL,
		serviceName: serviceName,
		enabled:     publisher != nil && queueURL != "",
		logger:      logger,
		now:         time.Now,
	}
}

// SendAuditMessage publishes what was done by who. Errors are logged and swallowed.
func (s *AuditService) SendAuditMessage(ctx context.Context, what, who, correlationID string, details map[string]any) {
	if !s.enabled {
		s.logger.Debug("Audit disabled, skipping event", zap.String("what", what))
		return
	}

	event := dto.AuditEvent{
		What:          what,
		Who:           who,
		When:          s.now().UTC(),
		Service:       s.serviceName,
		CorrelationID: correlationID,
		Details:       details,
	}
	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to encode audit event", zap.String("what", what), zap.Error(err))
		metrics.AuditEventsTotal.WithLabelValues(what, "error").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditPublishTimeout)
	defer cancel()

	_, err = s.publisher.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		s.logger.Error("Failed to publish audit event", zap.String("what", what), zap.Error(err))
		metrics.AuditEventsTotal.WithLabelValues(what, "error").Inc()
		return
	}
	metrics.AuditEventsTotal.WithLabelValues(what, "sent").Inc()
	s.logger.Debug("Published audit event", zap.String("what", what), zap.String("who", who))
}
