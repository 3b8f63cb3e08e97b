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
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/model"
)

const isoDate = "2006-01-02"

// PersonService reads prisoner details with system tokens issued for the signed-in user
type PersonService struct {
	tokens               SystemTokenProvider
	prisonerSearchClient client.RestClientBuilder[*client.PrisonerSearchClient]
	prisonAPIClient      client.RestClientBuilder[*client.PrisonAPIClient]
	logger               *zap.Logger
}

// NewPersonService creates a new PersonService
func NewPersonService(
	tokens SystemTokenProvider,
	prisonerSearchClient client.RestClientBuilder[*client.PrisonerSearchClient],
	prisonAPIClient client.RestClientBuilder[*client.PrisonAPIClient],
	logger *zap.Logger,
) *PersonService {
	return &PersonService{
		tokens:               tokens,
		prisonerSearchClient: prisonerSearchClient,
		prisonAPIClient:      prisonAPIClient,
		logger:               logger,
	}
}

// GetPerson returns the person with prisonNumber, or nil when no such prisoner exists
func (s *PersonService) GetPerson(ctx context.Context, username, prisonNumber string) (*model.Person, error) {
	token, err := s.tokens.GetSystemClientToken(ctx, username)
	if err != nil {
		return nil, err
	}

	prisoner, err := s.prisonerSearchClient(token).FindPrisoner(ctx, prisonNumber)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find prisoner %s: %w", prisonNumber, err)
	}
	return PersonFromPrisoner(prisoner), nil
}

// GetSentenceDetails returns the sentence dates of a booking
func (s *PersonService) GetSentenceDetails(ctx context.Context, username, bookingID string) (*model.SentenceDetails, error) {
	token, err := s.tokens.GetSystemClientToken(ctx, username)
	if err != nil {
		return nil, err
	}
	details, err := s.prisonAPIClient(token).FindSentenceDetails(ctx, bookingID)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sentence details of booking %s: %w", bookingID, err)
	}
	return details, nil
}

// GetOffenceHistory returns the offences recorded against a person
func (s *PersonService) GetOffenceHistory(ctx context.Context, username, prisonNumber string) ([]model.OffenceHistoryDetail, error) {
	token, err := s.tokens.GetSystemClientToken(ctx, username)
	if err != nil {
		return nil, err
	}
	offences, err := s.prisonAPIClient(token).FindOffenceHistory(ctx, prisonNumber)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get offence history of %s: %w", prisonNumber, err)
	}
	return offences, nil
}

// PersonFromPrisoner maps a prisoner search record
func PersonFromPrisoner(p *model.Prisoner) *model.Person {
	return &model.Person{
		PrisonNumber:           p.PrisonerNumber,
		Name:                   titleCase(p.FirstName + " " + p.LastName),
		FirstName:              p.FirstName,
		LastName:               p.LastName,
		DateOfBirth:            p.DateOfBirth,
		Ethnicity:              p.Ethnicity,
		Gender:                 p.Gender,
		Religion:               p.Religion,
		Setting:                "Custody",
		CurrentPrison:          p.PrisonName,
		PrisonID:               p.PrisonID,
		BookingID:              p.BookingID,
		ConditionalReleaseDate: parseDate(p.ConditionalReleaseDate),
		ParoleEligibilityDate:  parseDate(p.ParoleEligibilityDate),
		TariffDate:             parseDate(p.TariffDate),
		IndeterminateSentence:  p.IndeterminateSentence,
	}
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return nil
	}
	return &t
}
