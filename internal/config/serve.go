package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Listen          string
	PGDSN           string
	RPCURL          string
	DefaultPageSize int
	MaxPageSize     int
	MaxRetries      int
	RetryBackoff    time.Duration
	RequestTimeout  time.Duration
	CORSOrigins     []string
	LogLevel        string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"listen":            ":8080",
		"default-page-size": 20,
		"max-page-size":     100,
		"max-retries":       3,
		"retry-backoff":     200 * time.Millisecond,
		"request-timeout":   10 * time.Second,
		"cors-origins":      "*",
		"log-level":         "info",
	})
	if err != nil {
		return ServeConfig{}, err
	}

	cfg := ServeConfig{
		Listen:          v.GetString("listen"),
		PGDSN:           v.GetString("pg-dsn"),
		RPCURL:          v.GetString("rpc"),
		DefaultPageSize: v.GetInt("default-page-size"),
		MaxPageSize:     v.GetInt("max-page-size"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		RequestTimeout:  v.GetDuration("request-timeout"),
		CORSOrigins:     getStringSlice(v, "cors-origins"),
		LogLevel:        v.GetString("log-level"),
	}

	if cfg.DefaultPageSize <= 0 {
		return ServeConfig{}, fmt.Errorf("default page size must be greater than zero")
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		return ServeConfig{}, fmt.Errorf("max page size %d is below default page size %d", cfg.MaxPageSize, cfg.DefaultPageSize)
	}

	return cfg, nil
}
