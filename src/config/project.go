package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectPath is the location of the project configuration relative to the
// repository root.
const ProjectPath = ".github/ci_runner.yml"

// ConfigurationError is returned when the project configuration can't be
// used. It is reported before any log is parsed.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return e.Reason
	}
	return fmt.Sprintf("The %s configuration of your project is invalid: %s", e.Key, e.Reason)
}

// Pattern is a regular expression as written in the project configuration.
// It is either a plain string or a serialized Ruby regexp literal such as
// !ruby/regexp "/Ruby v(\d\.\d\.\d)/m".
type Pattern struct {
	Source string
	// Literal is set for the /.../flags form.
	Literal bool
}

// UnmarshalYAML accepts a scalar with or without the !ruby/regexp tag.
func (p *Pattern) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a regular expression, got a %s", value.Line, nodeKind(value.Kind))
	}

	p.Source = value.Value
	p.Literal = value.Tag == "!ruby/regexp"
	return nil
}

// Project is the decoded .github/ci_runner.yml file. Every field is optional;
// unset patterns fall back to the defaults of the detected test runner.
type Project struct {
	RuntimeRegex      *Pattern `yaml:"ruby_regex"`
	ManifestRegex     *Pattern `yaml:"gemfile_regex"`
	SeedRegex         *Pattern `yaml:"seed_regex"`
	BufferStartsRegex *Pattern `yaml:"buffer_starts_regex"`
	ProcessOnNewMatch *bool    `yaml:"process_on_new_match"`
	FailuresRegex     *Pattern `yaml:"failures_regex"`
}

// LoadProject reads the project configuration under root. A missing file
// yields an empty configuration.
func LoadProject(root string) (*Project, error) {
	path := filepath.Join(root, ProjectPath)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return ParseProject(data)
}

// ParseProject decodes a project configuration document.
func ParseProject(data []byte) (*Project, error) {
	var project Project
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("%s is not valid YAML: %v", ProjectPath, err)}
	}
	return &project, nil
}

func nodeKind(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
