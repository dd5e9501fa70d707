package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type options struct {
	envFile  string
	defaults map[string]any
	environ  func() []string
}

// Option customizes Load.
type Option func(*options)

// WithEnvFile overrides the dotenv file path (default ".env"). An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithDefaults seeds viper defaults, keyed by dotted property name (e.g. "cms.apiurl").
func WithDefaults(defaults map[string]any) Option {
	return func(o *options) { o.defaults = defaults }
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(environ func() []string) Option {
	return func(o *options) { o.environ = environ }
}

// Load loads configuration from .env file and environment variables
// prefix: Environment variable prefix (e.g. "POLARIS_")
// target: Pointer to the config struct to load into
func Load(prefix string, target interface{}, opts ...Option) error {
	o := options{envFile: ".env", environ: os.Environ}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	for key, value := range o.defaults {
		v.SetDefault(key, value)
	}

	prefixUpper := strings.ToUpper(prefix)

	// 1. Load from .env file (if exists). Dotenv keys use the same naming as
	// the environment, so they go through the same prefix mapping.
	if o.envFile != "" {
		if _, err := os.Stat(o.envFile); err == nil {
			dotenv := viper.New()
			dotenv.SetConfigFile(o.envFile)
			dotenv.SetConfigType("env")
			if err := dotenv.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read %s: %w", o.envFile, err)
			}
			for _, key := range dotenv.AllKeys() {
				if propKey, ok := propertyKey(prefixUpper, strings.ToUpper(key)); ok {
					v.Set(propKey, dotenv.GetString(key))
				}
			}
		}
	}

	// 2. Load from environment variables
	// Viper's AutomaticEnv doesn't work well with Unmarshal if keys aren't known,
	// so prefixed variables are set explicitly. They win over the dotenv file.
	for _, envStr := range o.environ() {
		pair := strings.SplitN(envStr, "=", 2)
		if len(pair) != 2 {
			continue
		}
		if propKey, ok := propertyKey(prefixUpper, pair[0]); ok {
			v.Set(propKey, pair[1])
		}
	}

	// 3. Unmarshal into struct
	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// propertyKey maps POLARIS_CMS_TOKEN -> cms.token.
func propertyKey(prefix, key string) (string, bool) {
	if !strings.HasPrefix(key, prefix) {
		return "", false
	}
	propKey := strings.TrimPrefix(key, prefix)
	propKey = strings.ToLower(strings.ReplaceAll(propKey, "_", "."))
	// Remove leading dot if any (e.g. if prefix didn't include underscore but env did)
	propKey = strings.TrimPrefix(propKey, ".")
	if propKey == "" {
		return "", false
	}
	return propKey, true
}
