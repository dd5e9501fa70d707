package config

import (
	"testing"
	"time"

	pkgconfig "github.com/Keenwby/polaris-youth-platform/pkg/config"
	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, vars ...string) (*Config, error) {
	t.Helper()
	return Load(
		pkgconfig.WithEnvFile(""),
		pkgconfig.WithEnviron(func() []string { return vars }),
	)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:1337/api", cfg.CMS.APIURL)
	assert.Equal(t, 10*time.Second, cfg.CMS.Timeout)
	assert.Equal(t, "北辰青年发展中心", cfg.Site.Name)
	assert.Equal(t, 600, cfg.RateLimit.RPM)
	assert.False(t, cfg.Media.UseSSL)

	sc := cfg.Strapi()
	assert.Equal(t, "http://localhost:1337", sc.MediaURL)
	assert.Equal(t, strapi.PopulateRepeated, sc.PopulateStyle)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", loc.String())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t,
		"POLARIS_CMS_APIURL=https://cms.example.org/api",
		"POLARIS_CMS_TOKEN=abc",
		"POLARIS_CMS_TIMEOUT=3s",
		"POLARIS_CMS_POPULATESTYLE=indexed",
		"POLARIS_MEDIA_USESSL=true",
		"POLARIS_RATELIMIT_RPM=0",
		"POLARIS_LOG_LEVEL=debug",
	)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.CMS.Timeout)
	assert.True(t, cfg.Media.UseSSL)
	assert.Equal(t, 0, cfg.RateLimit.RPM)
	assert.Equal(t, "debug", cfg.Logger().Level)

	sc := cfg.Strapi()
	assert.Equal(t, "https://cms.example.org/api", sc.APIURL)
	assert.Equal(t, "abc", sc.Token)
	assert.Equal(t, strapi.PopulateIndexed, sc.PopulateStyle)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(t, "POLARIS_CMS_POPULATESTYLE=bracketed")
	assert.ErrorContains(t, err, "cms.populatestyle")

	_, err = load(t, "POLARIS_SITE_TIMEZONE=Mars/Olympus")
	assert.ErrorContains(t, err, "site.timezone")

	_, err = load(t, "POLARIS_CMS_APIURL= ")
	assert.ErrorContains(t, err, "cms.apiurl")
}

func TestLocation_EmptyIsUTC(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
