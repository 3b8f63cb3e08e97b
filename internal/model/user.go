package model

import "slices"

// Role names granted by HMPPS Auth
const (
	RoleReferrer      = "ROLE_ACP_REFERRER"
	RoleProgrammeTeam = "ROLE_ACP_PROGRAMME_TEAM"
	RoleHspReferrer   = "ROLE_ACP_HSP_REFERRER"
)

// User is the signed-in member of staff
type User struct {
	Username         string   `json:"username"`
	Name             string   `json:"name"`
	DisplayName      string   `json:"displayName"`
	UserID           string   `json:"userId,omitempty"`
	ActiveCaseLoadID string   `json:"activeCaseLoadId,omitempty"`
	Caseloads        []string `json:"caseloads,omitempty"`
	Roles            []string `json:"roles"`
	Token            string   `json:"-"`
}

// HasRole reports whether the user holds the role
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// UserDetails is the manage users API payload
type UserDetails struct {
	Username         string `json:"username"`
	Active           bool   `json:"active"`
	Name             string `json:"name"`
	AuthSource       string `json:"authSource"`
	UserID           string `json:"userId"`
	ActiveCaseLoadID string `json:"activeCaseLoadId,omitempty"`
}

// UserEmail is the manage users API email payload
type UserEmail struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}
