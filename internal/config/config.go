// Package config loads process settings from the environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/search"
	"github.com/goliatone/go-formflow/pkg/security"
)

// Env holds settings read from FORMFLOW_* variables.
type Env struct {
	Addr          string `env:"FORMFLOW_ADDR"           envDefault:":8080"`
	DBPath        string `env:"FORMFLOW_DB_PATH"        envDefault:"formflow.db"`
	ConfigPath    string `env:"FORMFLOW_CONFIG"`
	LogLevel      string `env:"FORMFLOW_LOG_LEVEL"      envDefault:"info"`
	LogFormat     string `env:"FORMFLOW_LOG_FORMAT"     envDefault:"json"`
	DefaultPolicy string `env:"FORMFLOW_DEFAULT_POLICY"`
	OpenAPI       bool   `env:"FORMFLOW_OPENAPI"        envDefault:"true"`
}

// File is the YAML document referenced by FORMFLOW_CONFIG.
type File struct {
	Autocomplete Autocomplete `yaml:"autocomplete"`
	Tokens       []Token      `yaml:"tokens"`
	Theme        Theme        `yaml:"theme"`
}

// Autocomplete configures access to search handlers.
type Autocomplete struct {
	DefaultPolicy string `yaml:"default_policy"`
	// Rules maps handler names to ACL resources.
	Rules map[string]string `yaml:"rules"`
	// Handlers lists names that must be registered at boot.
	Handlers []string `yaml:"handlers"`
}

// Token grants permissions to the holder of a bearer token, stored as its
// hex SHA-256 digest.
type Token struct {
	Subject     string   `yaml:"subject"`
	SHA256      string   `yaml:"sha256"`
	Permissions []string `yaml:"permissions"`
}

// Theme selects template theme tokens.
type Theme struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	Tokens  map[string]string `yaml:"tokens"`
}

// Config is the merged configuration.
type Config struct {
	Env
	File
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment and, when FORMFLOW_CONFIG is set, the YAML file.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg.Env); err != nil {
		return Config{}, err
	}
	if path := strings.TrimSpace(cfg.ConfigPath); path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg.File = file
	}
	return cfg, nil
}

// LoadFile decodes a YAML configuration file. Unknown keys are rejected.
func LoadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var file File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("config: decode %q: %w", path, err)
	}
	return file, nil
}

// Policy resolves the default autocomplete policy. The environment wins over
// the file.
func (c Config) Policy() (security.Policy, error) {
	raw := strings.TrimSpace(c.Env.DefaultPolicy)
	if raw == "" {
		raw = c.File.Autocomplete.DefaultPolicy
	}
	return security.ParsePolicy(raw)
}

// Grants converts configured tokens for security.NewTokenResolver.
func (c Config) Grants() []security.TokenGrant {
	grants := make([]security.TokenGrant, 0, len(c.Tokens))
	for _, token := range c.Tokens {
		grants = append(grants, security.TokenGrant{
			Subject:     token.Subject,
			TokenHash:   strings.ToLower(strings.TrimSpace(token.SHA256)),
			Permissions: token.Permissions,
		})
	}
	return grants
}

// ReferencedHandlers returns every handler name named by rules or the
// handler list, sorted and de-duplicated.
func (c Config) ReferencedHandlers() []string {
	seen := map[string]struct{}{}
	for name := range c.Autocomplete.Rules {
		seen[strings.TrimSpace(name)] = struct{}{}
	}
	for _, name := range c.Autocomplete.Handlers {
		seen[strings.TrimSpace(name)] = struct{}{}
	}
	delete(seen, "")

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var sha256Hex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Validate checks the policy, token digests and that every referenced
// handler is registered.
func (c Config) Validate(registry *search.Registry) error {
	var errs []error
	if _, err := c.Policy(); err != nil {
		errs = append(errs, err)
	}
	for i, token := range c.Tokens {
		if strings.TrimSpace(token.Subject) == "" {
			errs = append(errs, fmt.Errorf("config: tokens[%d]: subject is required", i))
		}
		if !sha256Hex.MatchString(strings.ToLower(strings.TrimSpace(token.SHA256))) {
			errs = append(errs, fmt.Errorf("config: tokens[%d]: sha256 must be 64 hex characters", i))
		}
	}
	if registry != nil {
		if err := registry.Validate(c.ReferencedHandlers()...); err != nil {
			errs = append(errs, fmt.Errorf("config: %w", err))
		}
	}
	return errors.Join(errs...)
}
