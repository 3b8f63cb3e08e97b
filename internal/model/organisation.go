package model

// Organisation is a prison as shown to users
type Organisation struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Category string              `json:"category"`
	Address  OrganisationAddress `json:"address"`
}

// OrganisationAddress is the postal address of an organisation
type OrganisationAddress struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	Town         string `json:"town"`
	County       string `json:"county"`
	Postcode     string `json:"postalCode"`
	Country      string `json:"country"`
}

// Prison is the upstream prison register record
type Prison struct {
	PrisonID   string          `json:"prisonId"`
	PrisonName string          `json:"prisonName"`
	Active     bool            `json:"active"`
	Categories []string        `json:"categories"`
	Addresses  []PrisonAddress `json:"addresses"`
}

// PrisonAddress is an address on the prison register
type PrisonAddress struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	Town         string `json:"town"`
	County       string `json:"county"`
	Postcode     string `json:"postcode"`
	Country      string `json:"country"`
}
