package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

// Environment variables consulted by Load.
const (
	EnvConfig        = "EVENTBUS_CONFIG"
	EnvConfigContent = "EVENTBUS_CONFIG_CONTENT"
	EnvLogLevel      = "EVENTBUS_LOG_LEVEL"
	EnvPolicy        = "EVENTBUS_POLICY"
)

var (
	// ErrInvalidRoute is returned by Validate for a malformed route.
	ErrInvalidRoute = errors.New("invalid route")

	envPattern = regexp.MustCompile(`\{env:([^}]+)\}`)
)

// Load merges configuration from every source for directory, reading files
// through fsys. Missing files are skipped; unreadable or malformed ones are
// errors.
func Load(fsys afero.Fs, directory string) (*Config, error) {
	cfg := &Config{}

	loaded := make(map[string]bool)
	loadDir := func(dir string) error {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			abs, err := filepath.Abs(path)
			if err != nil || loaded[abs] {
				continue
			}
			ok, err := loadFile(fsys, path, cfg)
			if err != nil {
				return err
			}
			if ok {
				loaded[abs] = true
			}
		}
		return nil
	}

	if err := loadDir(GlobalDir()); err != nil {
		return nil, err
	}
	if directory != "" {
		if err := loadDir(directory); err != nil {
			return nil, err
		}
	}

	if path := os.Getenv(EnvConfig); path != "" {
		ok, err := loadFile(fsys, path, cfg)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s: %s does not exist", EnvConfig, path)
		}
	}

	if content := os.Getenv(EnvConfigContent); content != "" {
		var inline Config
		if err := decode([]byte(content), ".jsonc", &inline); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvConfigContent, err)
		}
		mergeConfig(cfg, &inline)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// loadFile merges path into cfg. It reports false if the file does not exist.
func loadFile(fsys afero.Fs, path string, cfg *Config) (bool, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fileConfig Config
	if err := decode(data, filepath.Ext(path), &fileConfig); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	mergeConfig(cfg, &fileConfig)
	return true, nil
}

// decode parses data as YAML or JSONC depending on ext.
func decode(data []byte, ext string, out *Config) error {
	data = interpolate(data)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	default:
		return json.Unmarshal(jsonc.ToJSON(data), out)
	}
}

// interpolate expands {env:VAR} placeholders.
func interpolate(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// mergeConfig merges source config into target.
func mergeConfig(target, source *Config) {
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.Policy != "" {
		target.Policy = source.Policy
	}
	if len(source.Routes) > 0 {
		target.Routes = append(target.Routes, source.Routes...)
	}
}

func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
	if policy := os.Getenv(EnvPolicy); policy != "" {
		cfg.Policy = policy
	}
}

// Validate checks the policy and every route. Patterns are not compiled
// here; a malformed pattern surfaces when an event is published.
func (c *Config) Validate() error {
	if _, err := eventbus.ParsePolicy(c.Policy); err != nil {
		return err
	}
	for i, r := range c.Routes {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks a single route.
func (r Route) Validate() error {
	switch {
	case r.Event == "" && r.Pattern == "":
		return fmt.Errorf("%w %q: one of event or pattern is required", ErrInvalidRoute, r.Label())
	case r.Event != "" && r.Pattern != "":
		return fmt.Errorf("%w %q: event and pattern are mutually exclusive", ErrInvalidRoute, r.Label())
	}
	switch r.Sink {
	case SinkPrint, SinkLog, SinkTap:
	case "":
		return fmt.Errorf("%w %q: sink is required", ErrInvalidRoute, r.Label())
	default:
		return fmt.Errorf("%w %q: unknown sink %q", ErrInvalidRoute, r.Label(), r.Sink)
	}
	return nil
}
