package introspect

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Annotations maps canonical class names to documented parameter types:
// class -> parameter -> type expression.
type Annotations map[string]map[string]string

// Set records a documented type.
func (a Annotations) Set(class, param, expr string) {
	if a[class] == nil {
		a[class] = map[string]string{}
	}

	a[class][param] = expr
}

// AnnotationFile is the YAML form of collected annotations.
type AnnotationFile struct {
	Version string            `yaml:"version"`
	Classes Annotations       `yaml:"classes,omitempty"`
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// LoadAnnotations reads an annotation file.
func LoadAnnotations(path string) (*AnnotationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation file %s: %w", path, err)
	}

	return ParseAnnotations(data)
}

// ParseAnnotations parses YAML annotation data.
func ParseAnnotations(data []byte) (*AnnotationFile, error) {
	var af AnnotationFile

	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("failed to parse annotation YAML: %w", err)
	}

	if af.Version == "" {
		af.Version = "1"
	}

	if af.Classes == nil {
		af.Classes = Annotations{}
	}

	return &af, nil
}

// MarshalAnnotations serializes an annotation file to YAML.
func MarshalAnnotations(af *AnnotationFile) ([]byte, error) {
	return yaml.Marshal(af)
}

// Apply adds the documented types and aliases of af to the registry.
// Classes registered later pick up their documented types on registration.
// Apply before the first mapping: resolved parameter types are cached.
func (r *Registry) Apply(af *AnnotationFile) error {
	var errs []error

	for _, alias := range slices.Sorted(maps.Keys(af.Aliases)) {
		if err := r.Alias(alias, af.Aliases[alias]); err != nil {
			errs = append(errs, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for class, docs := range af.Classes {
		c, ok := r.classes[class]
		if !ok {
			for param, expr := range docs {
				r.pending.Set(class, param, expr)
			}

			continue
		}

		for _, param := range slices.Sorted(maps.Keys(docs)) {
			if _, ok := c.Param(param); !ok {
				errs = append(errs, fmt.Errorf("%w %q of %s", ErrUnknownParam, param, class))
			}
		}

		c.annotate(docs)
	}

	return errors.Join(errs...)
}
