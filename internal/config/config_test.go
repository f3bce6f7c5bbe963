package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 9000
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "fittrack"
minio_bucket = "fittrack-dev"

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/fittrack/service.log"
postgres_host = "db.internal"
postgres_port = "5432"
postgres_db_name = "fittrack"
minio_bucket = "fittrack"
`

func TestLoad(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfigContent), 0o600))

	cfg, err := Load("development", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.Equal(t, "fittrack-dev", cfg.MinioBucket)

	cfg, err = Load("prod", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "fittrack", cfg.MinioBucket)
	assert.Equal(t, "/var/log/fittrack/service.log", cfg.LogsPath)

	_, err = Load("staging", cfgPath)
	require.Error(t, err)
}
