// Package options holds the mapper configuration and its YAML form.
package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"json-mapper/internal/validation"
	"json-mapper/namemap"
)

// ExtraFields controls JSON properties that no parameter consumes.
type ExtraFields string

const (
	ExtraFieldsFail   ExtraFields = "fail"
	ExtraFieldsIgnore ExtraFields = "ignore"
)

// MissingFields controls parameters without a JSON property.
type MissingFields string

const (
	// MissingFieldsFail rejects the object.
	MissingFieldsFail MissingFields = "fail"
	// MissingFieldsSetNull passes null when the parameter type allows it.
	MissingFieldsSetNull MissingFields = "set_null"
	// MissingFieldsSetDefault passes the parameter default when it has one.
	MissingFieldsSetDefault MissingFields = "set_default"
)

// DefaultMaxDepth bounds the nesting of mapped values.
const DefaultMaxDepth = 512

// Config is the mapper configuration. The zero value is not ready for use;
// start from Default or Parse.
type Config struct {
	// Accept untyped "array" and receive the raw JSON array.
	AllowUntypedArrays bool `yaml:"allow_untyped_arrays"`
	// Accept untyped "object" and receive the raw JSON object.
	AllowUntypedObjects bool `yaml:"allow_untyped_objects"`
	// Accept "mixed" and receive the raw JSON value.
	AllowMixed bool `yaml:"allow_mixed"`

	OnExtraFields   ExtraFields   `yaml:"on_extra_fields" validate:"oneof=fail ignore"`
	OnMissingFields MissingFields `yaml:"on_missing_fields" validate:"oneof=fail set_null set_default"`

	// Name strategy from JSON property names to parameter names.
	JSONToGo string `yaml:"json_to_go" validate:"oneof=identity camel_to_snake snake_to_camel"`
	// Name strategy from parameter names to JSON property names.
	GoToJSON string `yaml:"go_to_json" validate:"oneof=identity camel_to_snake snake_to_camel"`
	// Explicit parameter name to JSON property name pairs, applied before
	// GoToJSON. The inverse pairs are applied before JSONToGo.
	Names map[string]string `yaml:"names,omitempty"`

	MaxDepth int `yaml:"max_depth" validate:"gte=1"`

	// Run validate struct tags on every constructed object.
	ValidateObjects bool `yaml:"validate_objects"`
}

// Default returns the default configuration: everything strict.
func Default() Config {
	var c Config
	applyDefaults(&c)

	return c
}

// LoadFile loads and parses a YAML configuration file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML configuration, fills in defaults and validates it.
func Parse(data []byte) (Config, error) {
	var c Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Marshal serializes a Config to YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// applyDefaults fills in default values for unset fields.
func applyDefaults(c *Config) {
	if c.OnExtraFields == "" {
		c.OnExtraFields = ExtraFieldsFail
	}

	if c.OnMissingFields == "" {
		c.OnMissingFields = MissingFieldsFail
	}

	if c.JSONToGo == "" {
		c.JSONToGo = namemap.NameIdentity
	}

	if c.GoToJSON == "" {
		c.GoToJSON = namemap.NameIdentity
	}

	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	failures, err := validation.Struct(c)
	if err != nil {
		return err
	}

	if len(failures) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(failures, "; "))
	}

	return nil
}

// NameMappers returns the JSON-to-Go and Go-to-JSON name mappers.
func (c Config) NameMappers() (jsonToGo, goToJSON namemap.Mapper, err error) {
	toGo, err := namemap.ByName(c.JSONToGo)
	if err != nil {
		return nil, nil, err
	}

	toJSON, err := namemap.ByName(c.GoToJSON)
	if err != nil {
		return nil, nil, err
	}

	table := namemap.Table(c.Names)

	return namemap.Override(table.Invert(), toGo), namemap.Override(table, toJSON), nil
}
