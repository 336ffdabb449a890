package domain

// Place is a country, state or city record from the reference datasets.
type Place struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ISO2        string `json:"iso2,omitempty"`
	StateCode   string `json:"state_code,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// Option is the label/value projection used by form selects.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}
