package domain

import "time"

type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type ScanRequest struct {
	Coordinates Coordinates `json:"coordinates"`
	DeviceInfo  string      `json:"device_info" validate:"max=256"`
}

type ScanRecord struct {
	ScanID     string    `json:"id" dynamodbav:"scan_id"`
	PetID      string    `json:"pet_id" dynamodbav:"pet_id"`
	OwnerID    *string   `json:"owner_id" dynamodbav:"owner_id"`
	Latitude   float64   `json:"latitude" dynamodbav:"latitude"`
	Longitude  float64   `json:"longitude" dynamodbav:"longitude"`
	CellToken  string    `json:"cell_token" dynamodbav:"cell_token"`
	DeviceInfo string    `json:"device_info,omitempty" dynamodbav:"device_info"`
	IPAddress  string    `json:"ip_address,omitempty" dynamodbav:"ip_address"`
	UserAgent  string    `json:"user_agent,omitempty" dynamodbav:"user_agent"`
	ScannedAt  time.Time `json:"scan_time" dynamodbav:"scanned_at"`
}

// ScanResult is what the scanning client gets back.
type ScanResult struct {
	PetID          string `json:"pet_id"`
	HasOwner       bool   `json:"has_owner"`
	NotificationID string `json:"notification_id,omitempty"`
}
