// Package config loads the memogen configuration file.
//
// Settings are resolved in order: defaults, the YAML file, environment
// variables, then command-line flags, which the caller applies last.
//
//	container: tree
//	output_suffix: _memo.go
//	containers:
//	  lru: example.com/cache/lru.Store
//	logging:
//	  level: info
//	  format: console
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/on-the-ground/memogen/internal/logging"
	"github.com/on-the-ground/memogen/rewrite"
	"github.com/on-the-ground/memogen/transform"
)

// DefaultFile is read when no file is named explicitly.
const DefaultFile = ".memogen.yaml"

var (
	ErrInvalidContainer    = errors.New("config: invalid container")
	ErrInvalidOutputSuffix = errors.New("config: output suffix must be a file name ending in .go but not in _test.go")
	ErrInvalidLogLevel     = errors.New("config: invalid log level")
	ErrInvalidLogFormat    = errors.New("config: invalid log format")
)

// Config is the memogen configuration.
type Config struct {
	// Container is used by directives that name none.
	Container string `yaml:"container"`
	// OutputSuffix replaces ".go" in the names of generated files.
	OutputSuffix string `yaml:"output_suffix"`
	// Containers maps container aliases to container tokens.
	Containers map[string]string `yaml:"containers"`
	Logging    Logging           `yaml:"logging"`
}

// Logging configures the command's logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Container:    "hash",
		OutputSuffix: rewrite.DefaultSuffix,
		Containers:   map[string]string{},
		Logging: Logging{
			Level:  "info",
			Format: string(logging.FormatConsole),
		},
	}
}

// Load reads the file at path over the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Empty input yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if cfg.Containers == nil {
		cfg.Containers = map[string]string{}
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. lookup is usually
// os.LookupEnv. Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for env, field := range map[string]*string{
		EnvContainer:    &c.Container,
		EnvOutputSuffix: &c.OutputSuffix,
		EnvLogLevel:     &c.Logging.Level,
		EnvLogFormat:    &c.Logging.Format,
	} {
		if v, ok := lookup(env); ok && strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if _, perr := transform.ParseContainer(c.Container, c.Containers); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: %s %q", ErrInvalidContainer, KeyContainer, c.Container))
	}
	for alias, target := range c.Containers {
		if _, perr := transform.ParseContainer(target, nil); perr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: %s.%s %q", ErrInvalidContainer, KeyContainers, alias, target))
		}
	}
	if !validSuffix(c.OutputSuffix) {
		err = multierr.Append(err, fmt.Errorf("%w: %s %q", ErrInvalidOutputSuffix, KeyOutputSuffix, c.OutputSuffix))
	}
	if _, perr := logging.ParseLevel(c.Logging.Level); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: %s %q", ErrInvalidLogLevel, KeyLoggingLevel, c.Logging.Level))
	}
	if _, perr := logging.ParseFormat(c.Logging.Format); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: %s %q", ErrInvalidLogFormat, KeyLoggingFormat, c.Logging.Format))
	}
	return err
}

// validSuffix accepts file name endings that keep a generated file an
// ordinary source file. A "_test.go" ending would name the generated twin of
// fib.go fib_test.go and overwrite the package's tests.
func validSuffix(s string) bool {
	return strings.HasSuffix(s, ".go") && len(s) > len(".go") &&
		!strings.HasSuffix(s, "_test.go") && !strings.ContainsAny(s, `/\`)
}
