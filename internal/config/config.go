package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // OTP display timezone must resolve on minimal images

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string `env:"APP_PORT" env-default:"3000"`
	AppEnv  string `env:"APP_ENV" env-default:"development"`

	AWSRegion      string `env:"AWS_REGION" env-default:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`
	DynamoTables   DynamoTables

	JWTPrivateKeyPath string        `env:"JWT_PRIVATE_KEY_PATH" env-default:"./private_key.pem"`
	JWTPublicKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH" env-default:"./public_key.pem"`
	JWTExpiry         time.Duration `env:"JWT_EXPIRY" env-default:"168h"`

	SMTPHost     string `env:"SMTP_HOST" env-default:"localhost"`
	SMTPPort     string `env:"SMTP_PORT" env-default:"1025"`
	SMTPFrom     string `env:"SMTP_FROM" env-default:"support@petnfc.com.au"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SNSRegion    string `env:"SNS_REGION" env-default:"us-east-1"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-default:"*" env-separator:","` // CORS allowed origins

	Geo          Geo
	OTP          OTP
	Notification Notification

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string `env:"DYNAMO_TABLE_USERS" env-default:"users"`
	Notifications string `env:"DYNAMO_TABLE_NOTIFICATIONS" env-default:"notifications"`
	Pets          string `env:"DYNAMO_TABLE_PETS" env-default:"pets"`
	Scans         string `env:"DYNAMO_TABLE_SCANS" env-default:"scan_history"`
}

// Geo configures where the reference datasets are read from. DatasetPath is
// a local directory, an s3://bucket/prefix location, or "embedded" for the
// copies compiled into the binary.
type Geo struct {
	DatasetPath          string `env:"GEO_DATASET_PATH" env-default:"./files"`
	EmptyQueryMatchesAll bool   `env:"GEO_EMPTY_QUERY_MATCHES_ALL" env-default:"true"`
}

type OTP struct {
	Issuer          string        `env:"OTP_ISSUER" env-default:"PetNFC"`
	Step            time.Duration `env:"OTP_STEP" env-default:"600s"`
	RemainingStep   time.Duration `env:"OTP_REMAINING_STEP" env-default:"30s"`
	ExpiryWindow    time.Duration `env:"OTP_EXPIRY_WINDOW" env-default:"5m5s"`
	Timezone        string        `env:"OTP_TIMEZONE" env-default:"Australia/Sydney"`
	ConsumeOnVerify bool          `env:"OTP_CONSUME_ON_VERIFY" env-default:"false"`
}

type Notification struct {
	TaskTimeout time.Duration `env:"NOTIFICATION_TASK_TIMEOUT" env-default:"5s"`
	MapLinkBase string        `env:"NOTIFICATION_MAP_LINK_BASE" env-default:"https://www.google.com/maps?q="`
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.OTP.Step < time.Second || cfg.OTP.RemainingStep < time.Second {
		return nil, fmt.Errorf("otp steps must be at least one second")
	}
	if _, err := time.LoadLocation(cfg.OTP.Timezone); err != nil {
		return nil, fmt.Errorf("otp timezone %q: %w", cfg.OTP.Timezone, err)
	}
	return &cfg, nil
}
