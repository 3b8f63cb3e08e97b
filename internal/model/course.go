package model

import "time"

// Course is an Accredited Programme
type Course struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	AlternateName       string               `json:"alternateName,omitempty"`
	Audience            string               `json:"audience"`
	AudienceColour      string               `json:"audienceColour,omitempty"`
	Description         string               `json:"description,omitempty"`
	DisplayName         string               `json:"displayName,omitempty"`
	CoursePrerequisites []CoursePrerequisite `json:"coursePrerequisites,omitempty"`
	Withdrawn           bool                 `json:"withdrawn"`
}

// CoursePrerequisite is a named eligibility requirement of a course
type CoursePrerequisite struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CourseOffering is a course scheduled at an organisation
type CourseOffering struct {
	ID                    string `json:"id"`
	OrganisationID        string `json:"organisationId"`
	ContactEmail          string `json:"contactEmail"`
	SecondaryContactEmail string `json:"secondaryContactEmail,omitempty"`
	Referable             bool   `json:"referable"`
	Withdrawn             bool   `json:"withdrawn"`
}

// CourseParticipationSettingType is where a programme was attended
type CourseParticipationSettingType string

const (
	SettingCommunity CourseParticipationSettingType = "community"
	SettingCustody   CourseParticipationSettingType = "custody"
)

// CourseParticipationOutcomeStatus is whether the programme was completed
type CourseParticipationOutcomeStatus string

const (
	OutcomeComplete   CourseParticipationOutcomeStatus = "complete"
	OutcomeIncomplete CourseParticipationOutcomeStatus = "incomplete"
)

// CourseParticipationSetting is the location a programme was attended
type CourseParticipationSetting struct {
	Type     CourseParticipationSettingType `json:"type"`
	Location string                         `json:"location,omitempty"`
}

// CourseParticipationOutcome records progress through the programme
type CourseParticipationOutcome struct {
	Status        CourseParticipationOutcomeStatus `json:"status,omitempty"`
	YearStarted   int                              `json:"yearStarted,omitempty"`
	YearCompleted int                              `json:"yearCompleted,omitempty"`
}

// CourseParticipation is a past or ongoing attendance of a programme
type CourseParticipation struct {
	ID           string                      `json:"id"`
	PrisonNumber string                      `json:"prisonNumber"`
	ReferralID   string                      `json:"referralId,omitempty"`
	CourseName   string                      `json:"courseName"`
	Setting      *CourseParticipationSetting `json:"setting,omitempty"`
	Outcome      *CourseParticipationOutcome `json:"outcome,omitempty"`
	Detail       string                      `json:"detail,omitempty"`
	Source       string                      `json:"source,omitempty"`
	AddedBy      string                      `json:"addedBy,omitempty"`
	CreatedAt    *time.Time                  `json:"createdAt,omitempty"`
	IsDraft      bool                        `json:"isDraft"`
}

// IsDraftFor reports whether the participation was added as part of the given referral
func (p *CourseParticipation) IsDraftFor(referralID string) bool {
	return p.ReferralID != "" && p.ReferralID == referralID
}
