package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "AUTH_REQUIRED", "CORS_ORIGINS", "BODY_LIMIT", "COGNITO_USER_POOL_ID", "COGNITO_APP_CLIENT_ID"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, defaultAddr, cfg.Addr)
	assert.Equal(t, defaultDBPath, cfg.DBPath)
	assert.True(t, cfg.AuthRequired)
	assert.Nil(t, cfg.CORSOrigins)
	assert.Equal(t, defaultBodyLimit, cfg.BodyLimit)
	assert.False(t, cfg.CognitoEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":8080")
	t.Setenv("AUTH_REQUIRED", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("COGNITO_USER_POOL_ID", "pool")
	t.Setenv("COGNITO_APP_CLIENT_ID", "client")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.CognitoEnabled())
}

func TestFromEnvIgnoresInvalidBool(t *testing.T) {
	t.Setenv("AUTH_REQUIRED", "maybe")

	assert.True(t, FromEnv().AuthRequired)
}
