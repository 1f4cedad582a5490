package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  environment: test
  port: "9090"
  allowed_cors_domains:
    - http://localhost:5173
  jwt_signing_key: short-key
  jwt_ttl: 30m
gin:
  mode: test
postgres:
  host: db
  port: "5432"
  user: voting
  password: secret
  db: votaciones
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Cleanup(viper.Reset)

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, 30*time.Minute, conf.API.JWTTTL)
	assert.Equal(t, 20, conf.API.LoginAttempts)
	assert.Equal(t, []string{"http://localhost:5173"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, 10*time.Second, conf.API.ShutdownTimeout)
	assert.Equal(t, "host=db port=5432 user=voting password=secret dbname=votaciones sslmode=disable", conf.Postgres.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, testConfig)
	t.Setenv("VOTING_API_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://u:p@remote:5432/votes")

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", conf.API.Port)
	assert.Equal(t, "postgres://u:p@remote:5432/votes", conf.Postgres.DSN())
}

func TestLoad_ProductionNeedsLongSigningKey(t *testing.T) {
	path := writeConfig(t, testConfig)
	t.Setenv("VOTING_API_ENVIRONMENT", EnvProduction)

	_, err := Load(path)
	assert.ErrorContains(t, err, "JWTSigningKey")

	viper.Reset()
	t.Setenv("VOTING_API_JWT_SIGNING_KEY", "0123456789abcdef0123456789abcdef")
	conf, err := Load(path)
	require.NoError(t, err)
	assert.True(t, conf.API.IsProduction())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
