// Package config loads and validates the fmtbot workflow configuration.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/fmtbot/fmtbot/internal/validator"
)

// ConfigFile is the name of the workflow configuration file, looked up at the
// root of the repository being formatted.
const ConfigFile = ".fmtbot.yml"

// LogFile is the structured log file fmtbot writes at the repository root.
// It never counts as a formatter modification.
const LogFile = ".fmtbot.log"

const DefaultConfigContent = `# fmtbot workflow configuration

# FORMATTERS
#
# Each formatter is an external, idempotent tool invoked from the repository
# root. fmtbot does not interpret a formatter's output: after all formatters
# have run, any file left modified in the working tree counts as "needed
# formatting". A formatter exiting non-zero (e.g. on a file it cannot parse)
# aborts the run before anything is committed.
#
# Formatters run in the order listed. The optional "dir" property restricts a
# formatter to a subdirectory.
formatters:
  - name: black
    command: ["black", "."]

# COMMIT
#
# The commit created when formatters modified files. The message is fixed;
# the commit contains exactly the files the formatters changed.
commit:
  message: "Apply black formatting"
  authorName: "fmtbot"
  authorEmail: "fmtbot@users.noreply.github.com"

# PUSH
#
# Whether to push the formatting commit back to the ref that triggered the
# run. Disable for local use, where you want the commit but not the push.
push:
  enabled: true
  remote: origin

# STATUS
#
# Optional commit-status reporting to the hosting platform. Requires a token
# in FMTBOT_GITHUB_TOKEN or GITHUB_TOKEN; without one, status reporting is
# silently disabled.
status:
  enabled: false
  context: fmtbot
`

// Formatter describes one external formatting tool invocation.
type Formatter struct {
	Name    string   `yaml:"name"`
	Command []string `yaml:"command"`
	Dir     string   `yaml:"dir"` // optional, relative to the repository root
}

// DisplayName returns the formatter's configured name, falling back to the
// command binary.
func (f Formatter) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	if len(f.Command) > 0 {
		return f.Command[0]
	}
	return "(unnamed)"
}

// Commit describes the commit created when formatters modified files.
type Commit struct {
	Message     string `yaml:"message"`
	AuthorName  string `yaml:"authorName"`
	AuthorEmail string `yaml:"authorEmail"`
}

// Push controls whether and where the formatting commit is pushed.
type Push struct {
	Enabled bool   `yaml:"enabled"`
	Remote  string `yaml:"remote"`
}

// Status controls commit-status reporting to the hosting platform.
type Status struct {
	Enabled bool   `yaml:"enabled"`
	Context string `yaml:"context"`
}

type Config struct {
	Formatters []Formatter `yaml:"formatters"`
	Commit     Commit      `yaml:"commit"`
	Push       Push        `yaml:"push"`
	Status     Status      `yaml:"status"`
}

// Default returns the configuration used when no config file is present.
// It mirrors DefaultConfigContent.
func Default() *Config {
	return &Config{
		Formatters: []Formatter{
			{Name: "black", Command: []string{"black", "."}},
		},
		Commit: Commit{
			Message:     "Apply black formatting",
			AuthorName:  "fmtbot",
			AuthorEmail: "fmtbot@users.noreply.github.com",
		},
		Push: Push{
			Enabled: true,
			Remote:  "origin",
		},
		Status: Status{
			Enabled: false,
			Context: "fmtbot",
		},
	}
}

// Load reads and validates the configuration file at path. A missing file is
// an error; callers that treat the file as optional should check for its
// existence first (see LoadOrDefault).
func Load(path string, compiler validator.Compiler) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingConfigError{Path: path}
		}
		return nil, err
	}
	return Parse(data, compiler)
}

// LoadOrDefault behaves like Load, but returns the built-in defaults when the
// file does not exist. An absent file is a normal condition: fmtbot runs
// fine on its defaults alone.
func LoadOrDefault(path string, compiler validator.Compiler) (*Config, error) {
	cfg, err := Load(path, compiler)
	var missing *MissingConfigError
	if errors.As(err, &missing) {
		return Default(), nil
	}
	return cfg, err
}

// Parse validates raw YAML configuration content against the embedded schema
// and unmarshals it. Fields left unset fall back to their defaults.
func Parse(data []byte, compiler validator.Compiler) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidYAMLError{Wrapped: err}
	}

	if doc != nil {
		if err := validateAgainstSchema(doc, compiler); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &InvalidYAMLError{Wrapped: err}
	}
	cfg.applyDefaults()

	return cfg, nil
}

// validateAgainstSchema checks the decoded YAML document against the embedded
// JSON Schema. The document is round-tripped through JSON so that the schema
// library sees the value types it expects.
func validateAgainstSchema(doc any, compiler validator.Compiler) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &InvalidConfigError{Wrapped: err}
	}

	jsonDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &InvalidConfigError{Wrapped: err}
	}

	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(configSchema)))
	if err != nil {
		return &InvalidConfigError{Wrapped: err}
	}

	if err := compiler.AddSchema(configSchemaID, schemaDoc); err != nil {
		return &InvalidConfigError{Wrapped: err}
	}

	v, err := compiler.Compile(configSchemaID)
	if err != nil {
		return &InvalidConfigError{Wrapped: err}
	}

	if err := v.Validate(jsonDoc); err != nil {
		return &InvalidConfigError{Wrapped: err}
	}
	return nil
}

// applyDefaults fills any zero-valued scalar settings. Unmarshalling over a
// Default() base covers most of this, but an explicitly empty section (e.g.
// "commit: {}") zeroes the struct it overwrites.
func (c *Config) applyDefaults() {
	def := Default()
	if len(c.Formatters) == 0 {
		c.Formatters = def.Formatters
	}
	if c.Commit.Message == "" {
		c.Commit.Message = def.Commit.Message
	}
	if c.Commit.AuthorName == "" {
		c.Commit.AuthorName = def.Commit.AuthorName
	}
	if c.Commit.AuthorEmail == "" {
		c.Commit.AuthorEmail = def.Commit.AuthorEmail
	}
	if c.Push.Remote == "" {
		c.Push.Remote = def.Push.Remote
	}
	if c.Status.Context == "" {
		c.Status.Context = def.Status.Context
	}
}
