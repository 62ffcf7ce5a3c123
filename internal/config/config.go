// Package config loads runtime tuning for the mask engine and pipeline
// from a YAML file, overridden by environment variables, overridden by
// hardcoded defaults only when both are silent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/AiToByte/safemask/internal/logging"
	"github.com/AiToByte/safemask/internal/xerrors"
)

// maxConfigFileSize guards against an accidentally-huge config file being
// read in full.
const maxConfigFileSize = 1024 * 1024

// Config is safemask's full runtime configuration.
type Config struct {
	RulesDir  string          `koanf:"rules_dir"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Clipboard ClipboardConfig `koanf:"clipboard"`
	Logging   logging.Config  `koanf:"logging"`
}

// PipelineConfig tunes the ordered streaming pipeline.
type PipelineConfig struct {
	ChunkSizeBytes int `koanf:"chunk_size_bytes"`
	MaxInFlight    int `koanf:"max_in_flight"`
}

// ClipboardConfig tunes the clipboard monitor.
type ClipboardConfig struct {
	PollInterval time.Duration `koanf:"poll_interval"`
}

// Default returns hardcoded defaults, used as the base every load starts
// from.
func Default() Config {
	home, err := os.UserConfigDir()
	rulesDir := ""
	if err == nil {
		rulesDir = filepath.Join(home, "safemask", "rules")
	}
	return Config{
		RulesDir: rulesDir,
		Pipeline: PipelineConfig{
			ChunkSizeBytes: 8 * 1024 * 1024,
			MaxInFlight:    32,
		},
		Clipboard: ClipboardConfig{
			PollInterval: 500 * time.Millisecond,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads configPath (a YAML file; skipped if it does not exist),
// applies SAFEMASK_-prefixed environment overrides, and fills any field
// still unset from Default().
//
// Environment variables use underscore separators and are uppercased,
// e.g. SAFEMASK_PIPELINE_MAX_IN_FLIGHT maps to pipeline.max_in_flight.
func Load(configPath string) (Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		info, err := os.Stat(configPath)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, xerrors.Wrapf(xerrors.ErrIO, "stat config file: %v", err)
		}
		if err == nil {
			if info.Size() > maxConfigFileSize {
				return Config{}, xerrors.Wrapf(xerrors.ErrConfig, "config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
			}
			content, err := os.ReadFile(configPath)
			if err != nil {
				return Config{}, xerrors.Wrapf(xerrors.ErrIO, "read config file: %v", err)
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return Config{}, xerrors.Wrapf(xerrors.ErrConfig, "parse config file %s: %v", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider("SAFEMASK_", ".", func(s string) string {
		trimmed := strings.TrimPrefix(s, "SAFEMASK_")
		return strings.ReplaceAll(strings.ToLower(trimmed), "_", ".")
	}), nil); err != nil {
		return Config{}, xerrors.Wrapf(xerrors.ErrConfig, "load environment overrides: %v", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, xerrors.Wrapf(xerrors.ErrConfig, "unmarshal config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, xerrors.Wrapf(xerrors.ErrConfig, "invalid config: %v", err)
	}

	return cfg, nil
}

// Validate reports whether cfg has internally consistent values.
func (c Config) Validate() error {
	if c.Pipeline.ChunkSizeBytes <= 0 {
		return fmt.Errorf("pipeline.chunk_size_bytes must be > 0")
	}
	if c.Pipeline.MaxInFlight <= 0 {
		return fmt.Errorf("pipeline.max_in_flight must be > 0")
	}
	if c.Clipboard.PollInterval <= 0 {
		return fmt.Errorf("clipboard.poll_interval must be > 0")
	}
	return c.Logging.Validate()
}
