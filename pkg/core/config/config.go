// File: config.go
// Title: Filter Settings Loading
// Description: Loads filter settings from TOML or YAML files, overlays
//              environment variables and resolves them into the values a
//              modlevel.Filter is built from.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-17 v0.2.0: Typed filter settings, envconfig overlay

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/modlevel/pkg/core/error"
	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota

	// FormatYAML represents YAML format
	FormatYAML

	// FormatAuto auto-detects format from file extension
	FormatAuto
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// DefaultEnvPrefix is the prefix of the environment overrides
const DefaultEnvPrefix = "MODLEVEL"

// Settings describes one filter. Modules entries are merged over VModule.
type Settings struct {
	DefaultLevel string            `toml:"default_level" yaml:"default_level" envconfig:"DEFAULT_LEVEL"`
	ModuleKey    string            `toml:"module_key" yaml:"module_key" envconfig:"MODULE_KEY"`
	VModule      string            `toml:"vmodule" yaml:"vmodule" envconfig:"VMODULE"`
	Format       string            `toml:"format" yaml:"format" envconfig:"FORMAT"`
	Modules      map[string]string `toml:"modules" yaml:"modules" ignored:"true"`
}

// Resolved holds validated settings in typed form
type Resolved struct {
	DefaultLevel log.Level
	ModuleKey    string
	Modules      modlevel.ModLevelMap
	Format       log.Format
}

// LoadOptions defines options for loading settings
type LoadOptions struct {
	Format    Format // File format (default: auto-detect)
	EnvPrefix string // Environment variable prefix (default: no overlay)
}

// Default returns the settings used when nothing is configured
func Default() *Settings {
	return &Settings{
		DefaultLevel: log.DefaultLevel().String(),
		ModuleKey:    log.ModuleKey,
		Format:       log.FormatJSON.String(),
	}
}

// Load loads settings from a file, detecting the format from its extension
func Load(filePath string) (*Settings, error) {
	return LoadWithOptions(filePath, LoadOptions{Format: FormatAuto})
}

// LoadWithOptions loads settings from a file. Keys missing from the file
// keep their defaults; environment variables, when a prefix is given,
// override both.
func LoadWithOptions(filePath string, options LoadOptions) (*Settings, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, mdwerror.New("config file path cannot be empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.LoadWithOptions")
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		code := mdwerror.CodeConfigError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return nil, mdwerror.Wrap(err, "failed to read config file").
			WithCode(code).
			WithOperation("config.LoadWithOptions").
			WithDetail("filePath", filePath)
	}

	format := options.Format
	if format == FormatAuto {
		format = detectFormat(filePath)
	}

	settings, err := Parse(content, format)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config file").
			WithOperation("config.LoadWithOptions").
			WithDetail("filePath", filePath).
			WithDetail("format", format.String())
	}

	if options.EnvPrefix != "" {
		if err := settings.ApplyEnv(options.EnvPrefix); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// Parse decodes settings from content on top of Default()
func Parse(content []byte, format Format) (*Settings, error) {
	settings := Default()

	var err error
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		err = dec.Decode(settings)
		if errors.Is(err, io.EOF) {
			// Empty document
			err = nil
		}
	default:
		var meta toml.MetaData
		meta, err = toml.Decode(string(content), settings)
		if err == nil {
			if undecoded := meta.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown keys: %v", undecoded)
			}
		}
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid settings").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Parse").
			WithDetail("format", format.String())
	}

	return settings, nil
}

// FromEnv returns Default() overlaid with environment variables
func FromEnv(prefix string) (*Settings, error) {
	settings := Default()
	if err := settings.ApplyEnv(prefix); err != nil {
		return nil, err
	}
	return settings, nil
}

// ApplyEnv overrides fields whose PREFIX_* variable is set
func (s *Settings) ApplyEnv(prefix string) error {
	if err := envconfig.Process(prefix, s); err != nil {
		return mdwerror.Wrap(err, "failed to read environment").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.ApplyEnv").
			WithDetail("prefix", prefix)
	}
	return nil
}

// Validate checks the fields that must be well formed. Module entries are
// not validated: unknown levels there are skipped when resolving.
func (s *Settings) Validate() error {
	if _, err := log.ParseLevel(s.DefaultLevel); err != nil {
		return mdwerror.Wrap(err, "invalid default level").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.Validate").
			WithDetail("default_level", s.DefaultLevel)
	}
	if strings.TrimSpace(s.ModuleKey) == "" {
		return mdwerror.New("module key cannot be empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.Validate")
	}
	if _, err := log.ParseFormat(s.Format); err != nil {
		return mdwerror.Wrap(err, "invalid output format").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.Validate").
			WithDetail("format", s.Format)
	}
	return nil
}

// Resolve validates the settings and converts them to typed values
func (s *Settings) Resolve() (*Resolved, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	level, _ := log.ParseLevel(s.DefaultLevel)
	format, _ := log.ParseFormat(s.Format)

	modules := modlevel.Parse(s.VModule)
	for module, token := range s.Modules {
		if module == "" {
			continue
		}
		if lvl, ok := modlevel.LevelFromToken(token); ok {
			modules[module] = lvl
		}
	}

	return &Resolved{
		DefaultLevel: level,
		ModuleKey:    s.ModuleKey,
		Modules:      modules,
		Format:       format,
	}, nil
}

// detectFormat detects the configuration format from file extension
func detectFormat(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}
