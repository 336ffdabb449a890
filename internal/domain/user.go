package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	FirstName    string    `json:"firstname" dynamodbav:"first_name"`
	LastName     string    `json:"lastname" dynamodbav:"last_name"`
	Phone        *string   `json:"phone_number" dynamodbav:"phone"`
	Role         string    `json:"role" dynamodbav:"role"`
	Verified     bool      `json:"verified" dynamodbav:"verified"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`

	OTPState
}

// OTPState is the slice of the user record owned by the OTP manager.
// Version increases on every write and backs the conditional update in the store.
type OTPState struct {
	OTPSecret    *string    `json:"-" dynamodbav:"otp_secret"`
	OTP          *string    `json:"-" dynamodbav:"otp"`
	OTPCreatedAt *time.Time `json:"otp_created_at" dynamodbav:"otp_created_at"`
	OTPVersion   int64      `json:"-" dynamodbav:"otp_version"`
}

// Cleared reports a copy of the state with all OTP fields nulled.
func (s OTPState) Cleared() OTPState {
	return OTPState{OTPVersion: s.OTPVersion}
}

type CreateUserRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string  `json:"passwordConfirm" validate:"required,eqfield=Password"`
	FirstName       string  `json:"firstname" validate:"required"`
	LastName        string  `json:"lastname" validate:"required"`
	Phone           *string `json:"phone_number" validate:"omitempty,e164"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
