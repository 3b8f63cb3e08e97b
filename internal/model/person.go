package model

import "time"

// Person is the read-only projection of a prisoner search record
type Person struct {
	PrisonNumber           string     `json:"prisonNumber"`
	Name                   string     `json:"name"`
	FirstName              string     `json:"firstName"`
	LastName               string     `json:"lastName"`
	DateOfBirth            string     `json:"dateOfBirth,omitempty"`
	Ethnicity              string     `json:"ethnicity,omitempty"`
	Gender                 string     `json:"gender,omitempty"`
	Religion               string     `json:"religionOrBelief,omitempty"`
	Setting                string     `json:"setting,omitempty"`
	CurrentPrison          string     `json:"currentPrison,omitempty"`
	PrisonID               string     `json:"prisonId,omitempty"`
	BookingID              string     `json:"bookingId,omitempty"`
	ConditionalReleaseDate *time.Time `json:"conditionalReleaseDate,omitempty"`
	ParoleEligibilityDate  *time.Time `json:"paroleEligibilityDate,omitempty"`
	TariffDate             *time.Time `json:"tariffDate,omitempty"`
	IndeterminateSentence  bool       `json:"indeterminateSentence"`
}

// Prisoner is the upstream prisoner search payload
type Prisoner struct {
	PrisonerNumber         string `json:"prisonerNumber"`
	FirstName              string `json:"firstName"`
	LastName               string `json:"lastName"`
	DateOfBirth            string `json:"dateOfBirth"`
	Ethnicity              string `json:"ethnicity"`
	Gender                 string `json:"gender"`
	Religion               string `json:"religion"`
	PrisonID               string `json:"prisonId"`
	PrisonName             string `json:"prisonName"`
	BookingID              string `json:"bookingId"`
	ConditionalReleaseDate string `json:"conditionalReleaseDate,omitempty"`
	ParoleEligibilityDate  string `json:"paroleEligibilityDate,omitempty"`
	TariffDate             string `json:"tariffDate,omitempty"`
	IndeterminateSentence  bool   `json:"indeterminateSentence"`
}

// OffenceHistoryDetail is one offence on the prisoner's current booking
type OffenceHistoryDetail struct {
	BookingID          int    `json:"bookingId"`
	OffenceCode        string `json:"offenceCode"`
	OffenceDescription string `json:"offenceDescription"`
	StatuteCode        string `json:"statuteCode"`
	MainOffence        bool   `json:"mainOffence"`
	OffenceDate        string `json:"offenceDate,omitempty"`
}

// SentenceDetails summarises key dates of the current sentence
type SentenceDetails struct {
	SentenceStartDate                  string `json:"sentenceStartDate,omitempty"`
	ReleaseDate                        string `json:"releaseDate,omitempty"`
	ConditionalReleaseDate             string `json:"conditionalReleaseDate,omitempty"`
	ParoleEligibilityDate              string `json:"paroleEligibilityDate,omitempty"`
	TariffDate                         string `json:"tariffDate,omitempty"`
	LicenceExpiryDate                  string `json:"licenceExpiryDate,omitempty"`
	HomeDetentionCurfewEligibilityDate string `json:"homeDetentionCurfewEligibilityDate,omitempty"`
}

// Caseload is a prison the user has access to
type Caseload struct {
	CaseLoadID      string `json:"caseLoadId"`
	Description     string `json:"description"`
	Type            string `json:"type"`
	CurrentlyActive bool   `json:"currentlyActive"`
}
