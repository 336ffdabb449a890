package domain

import "time"

type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	To             string    `json:"to" dynamodbav:"user_id"`
	Message        string    `json:"message" dynamodbav:"message"`
	IsRead         bool      `json:"is_read" dynamodbav:"is_read"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
}

// NotificationPush is the payload written to live connections.
type NotificationPush struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
