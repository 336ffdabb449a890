package dynamo

// DynamoDB attribute and index names shared by the repos and Bootstrap.
const (
	fieldUserID         = "user_id"
	fieldEmail          = "email"
	fieldUpdatedAt      = "updated_at"
	fieldOTPSecret      = "otp_secret"
	fieldOTP            = "otp"
	fieldOTPCreatedAt   = "otp_created_at"
	fieldOTPVersion     = "otp_version"
	fieldNotificationID = "notification_id"
	fieldCreatedAt      = "created_at"
	fieldIsRead         = "is_read"
	fieldPetID          = "pet_id"
	fieldScanCount      = "scan_count"
	fieldScanID         = "scan_id"

	indexUserEmail         = "email-index"
	indexNotificationsUser = "user_id-created_at-index"
)
