package model

// PniScore is the programme needs identification result for a person
type PniScore struct {
	PrisonNumber     string        `json:"prisonNumber"`
	Crn              string        `json:"crn,omitempty"`
	AssessmentID     int           `json:"assessmentId"`
	ProgrammePathway string        `json:"programmePathway"`
	NeedsScore       PniNeedsScore `json:"needsScore"`
	RiskScore        PniRiskScore  `json:"riskScore"`
	ValidationErrors []string      `json:"validationErrors,omitempty"`
}

// PniNeedsScore is the aggregated criminogenic needs score
type PniNeedsScore struct {
	OverallNeedsScore int    `json:"overallNeedsScore"`
	Classification    string `json:"classification"`
}

// PniRiskScore is the aggregated risk classification
type PniRiskScore struct {
	Classification string `json:"classification"`
}

// OasysAssessmentDateInfo describes the latest completed OASys assessment
type OasysAssessmentDateInfo struct {
	RecentCompletedAssessmentDate string `json:"recentCompletedAssessmentDate,omitempty"`
	HasOpenAssessment             bool   `json:"hasOpenAssessment"`
}

// ReportContent is one statistics report
type ReportContent struct {
	ReportType string       `json:"reportType"`
	Content    ReportCounts `json:"content"`
	Parameters ReportParams `json:"parameters"`
}

// ReportCounts holds the counts of a report
type ReportCounts struct {
	Count   int            `json:"count"`
	Courses []ReportCourse `json:"courseCounts,omitempty"`
}

// ReportCourse is the per-course count
type ReportCourse struct {
	Name     string `json:"name"`
	Audience string `json:"audience"`
	Count    int    `json:"count"`
}

// ReportParams echoes the report filters
type ReportParams struct {
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate,omitempty"`
	LocationCodes []string `json:"locationCodes,omitempty"`
}
