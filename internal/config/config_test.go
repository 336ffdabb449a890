package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "users", cfg.DynamoTables.Users)
	assert.Equal(t, 600*time.Second, cfg.OTP.Step)
	assert.Equal(t, 30*time.Second, cfg.OTP.RemainingStep)
	assert.Equal(t, 5*time.Minute+5*time.Second, cfg.OTP.ExpiryWindow)
	assert.False(t, cfg.OTP.ConsumeOnVerify)
	assert.True(t, cfg.Geo.EmptyQueryMatchesAll)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OTP_STEP", "300s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DYNAMO_TABLE_PETS", "pets_dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 300*time.Second, cfg.OTP.Step)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "pets_dev", cfg.DynamoTables.Pets)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("OTP_TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.ErrorContains(t, err, "otp timezone")
}

func TestLoad_StepTooSmall(t *testing.T) {
	t.Setenv("OTP_STEP", "10ms")
	_, err := Load()
	assert.Error(t, err)
}
