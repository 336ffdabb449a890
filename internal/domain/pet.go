package domain

import "time"

type Pet struct {
	UniqueID  string    `json:"unique_id" dynamodbav:"pet_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	OwnerID   *string   `json:"owner_id" dynamodbav:"owner_id"`
	ScanCount int       `json:"scan_count" dynamodbav:"scan_count"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// HasOwner reports whether the tag has been registered to an account.
func (p *Pet) HasOwner() bool {
	return p.OwnerID != nil && *p.OwnerID != ""
}
