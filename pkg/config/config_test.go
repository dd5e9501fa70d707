package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	CMS struct {
		APIURL  string        `mapstructure:"apiurl"`
		Token   string        `mapstructure:"token"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"cms"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
}

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestLoad_EnvironmentAndDefaults(t *testing.T) {
	var cfg testConfig
	err := Load("POLARIS_", &cfg,
		WithEnvFile(""),
		WithDefaults(map[string]any{
			"cms.apiurl":  "http://localhost:1337/api",
			"cms.timeout": "10s",
			"server.port": "3000",
		}),
		WithEnviron(environ(
			"POLARIS_CMS_TOKEN=secret",
			"POLARIS_SERVER_PORT=8080",
			"OTHER_SERVER_PORT=9999",
			"MALFORMED",
		)),
	)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:1337/api", cfg.CMS.APIURL)
	assert.Equal(t, "secret", cfg.CMS.Token)
	assert.Equal(t, 10*time.Second, cfg.CMS.Timeout)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("POLARIS_CMS_TOKEN=from-file\nPOLARIS_SERVER_PORT=4000\n"), 0o600))

	var cfg testConfig
	err := Load("POLARIS_", &cfg,
		WithEnvFile(path),
		WithEnviron(environ("POLARIS_SERVER_PORT=5000")),
	)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.CMS.Token)
	assert.Equal(t, "5000", cfg.Server.Port, "environment overrides dotenv")
}

func TestLoad_MissingDotenvIsOptional(t *testing.T) {
	var cfg testConfig
	err := Load("POLARIS_", &cfg,
		WithEnvFile(filepath.Join(t.TempDir(), "missing.env")),
		WithEnviron(environ()),
	)
	require.NoError(t, err)
	assert.Empty(t, cfg.CMS.Token)
}

func TestPropertyKey(t *testing.T) {
	key, ok := propertyKey("POLARIS_", "POLARIS_MEDIA_PUBLICURL")
	require.True(t, ok)
	assert.Equal(t, "media.publicurl", key)

	_, ok = propertyKey("POLARIS_", "POLARIS_")
	assert.False(t, ok)

	_, ok = propertyKey("POLARIS_", "PATH")
	assert.False(t, ok)
}
