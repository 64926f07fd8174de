package config

import (
	"time"

	"github.com/spf13/pflag"
)

// ExportConfig holds configuration for the export command.
type ExportConfig struct {
	PGDSN             string
	Account           string
	PageSize          int
	MaxPages          int
	Out               string
	Checkpoint        string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
	LogLevel          string
}

// LoadExport merges config file, environment variables, and flags into ExportConfig.
func LoadExport(cfgFile string, flags *pflag.FlagSet) (ExportConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"page-size":          20,
		"max-pages":          0,
		"out":                "./data/activity.jsonl",
		"checkpoint":         "./data/export_checkpoint.json",
		"checkpoint-enabled": true,
		"max-retries":        3,
		"retry-backoff":      200 * time.Millisecond,
		"log-level":          "info",
	})
	if err != nil {
		return ExportConfig{}, err
	}

	return ExportConfig{
		PGDSN:             v.GetString("pg-dsn"),
		Account:           v.GetString("account"),
		PageSize:          v.GetInt("page-size"),
		MaxPages:          v.GetInt("max-pages"),
		Out:               v.GetString("out"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		LogLevel:          v.GetString("log-level"),
	}, nil
}
