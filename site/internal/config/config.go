package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // site.timezone must resolve on hosts without zoneinfo

	pkgconfig "github.com/Keenwby/polaris-youth-platform/pkg/config"
	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
)

// EnvPrefix is the prefix of every environment variable the site reads.
const EnvPrefix = "POLARIS_"

// Config is the complete configuration of the site server and CLI.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CMS       CMSConfig       `mapstructure:"cms"`
	Site      SiteConfig      `mapstructure:"site"`
	Media     MediaConfig     `mapstructure:"media"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// CMSConfig points at the content API.
type CMSConfig struct {
	URL           string        `mapstructure:"url"`    // media base, e.g. http://localhost:1337
	APIURL        string        `mapstructure:"apiurl"` // REST base, e.g. http://localhost:1337/api
	Token         string        `mapstructure:"token"`
	Timeout       time.Duration `mapstructure:"timeout"`
	PopulateStyle string        `mapstructure:"populatestyle"` // repeated | indexed
}

// SiteConfig holds the branding used when the CMS has no site settings.
type SiteConfig struct {
	Name        string `mapstructure:"name"`
	Tagline     string `mapstructure:"tagline"`
	Description string `mapstructure:"description"`
	URL         string `mapstructure:"url"`
	Timezone    string `mapstructure:"timezone"`
}

// MediaConfig configures the MinIO mirror. An empty endpoint disables it.
type MediaConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accesskey"`
	SecretKey string `mapstructure:"secretkey"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"usessl"`
	PublicURL string `mapstructure:"publicurl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig limits page requests per client IP. RPM <= 0 disables it.
type RateLimitConfig struct {
	RPM   int `mapstructure:"rpm"`
	Burst int `mapstructure:"burst"`
}

// Defaults returns the default value of every key, by dotted property name.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":       "3000",
		"server.mode":       "release",
		"cms.url":           "http://localhost:1337",
		"cms.apiurl":        "http://localhost:1337/api",
		"cms.token":         "",
		"cms.timeout":       "10s",
		"cms.populatestyle": "repeated",
		"site.name":         "北辰青年发展中心",
		"site.tagline":      "让青年活成自己想要的模样",
		"site.description":  "通过社群、行动与对话，陪伴你探索成长的可能性",
		"site.url":          "http://localhost:3000",
		"site.timezone":     "Asia/Shanghai",
		"media.endpoint":    "",
		"media.accesskey":   "",
		"media.secretkey":   "",
		"media.bucket":      "polaris-media",
		"media.usessl":      false,
		"media.publicurl":   "",
		"log.level":         "INFO",
		"log.format":        "json",
		"ratelimit.rpm":     600,
		"ratelimit.burst":   60,
	}
}

// Load reads the configuration from .env and POLARIS_* environment variables.
func Load(opts ...pkgconfig.Option) (*Config, error) {
	var cfg Config
	opts = append([]pkgconfig.Option{pkgconfig.WithDefaults(Defaults())}, opts...)
	if err := pkgconfig.Load(EnvPrefix, &cfg, opts...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be defaulted away.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CMS.APIURL) == "" {
		return fmt.Errorf("cms.apiurl is required")
	}
	if _, err := strapi.ParsePopulateStyle(c.CMS.PopulateStyle); err != nil {
		return fmt.Errorf("cms.populatestyle: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("site.timezone: %w", err)
	}
	if c.CMS.Timeout < 0 {
		return fmt.Errorf("cms.timeout must not be negative")
	}
	return nil
}

// Strapi returns the content client configuration.
func (c *Config) Strapi() strapi.Config {
	style, _ := strapi.ParsePopulateStyle(c.CMS.PopulateStyle)
	return strapi.Config{
		APIURL:        c.CMS.APIURL,
		MediaURL:      c.CMS.URL,
		Token:         c.CMS.Token,
		Timeout:       c.CMS.Timeout,
		PopulateStyle: style,
	}
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.Config {
	return logger.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// Location resolves the display timezone; empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Site.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Site.Timezone)
}
