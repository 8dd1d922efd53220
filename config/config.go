// Package config loads and validates the .autorelease.yaml configuration
// and lowers it into domain settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

// Config is the top-level configuration for autorelease.
type Config struct {
	Repository string `yaml:"repository"` // "owner/name"
	Token      string `yaml:"token"`      // Inline, ${ENV_VAR}, or file path

	BreakingChangeHeader      string `yaml:"breaking_change_header"`
	IssueNumberSuffixHandling string `yaml:"issue_number_suffix_handling"`

	CommitTags         []TagConfig         `yaml:"commit_tags"`
	Components         []ComponentConfig   `yaml:"components"`
	CoordinationGroups map[string][]string `yaml:"coordination_groups"`

	Steps        []StepConfig       `yaml:"steps"`
	PrependSteps []StepConfig       `yaml:"prepend_steps"`
	AppendSteps  []StepConfig       `yaml:"append_steps"`
	ModifySteps  []ModifyStepConfig `yaml:"modify_steps"`
}

// TagConfig maps one conventional-commit tag to a changelog header and a
// bump level, with optional per-scope overrides.
type TagConfig struct {
	Tag    string                 `yaml:"tag"`
	Header string                 `yaml:"header"`
	Semver string                 `yaml:"semver"`
	Scopes map[string]ScopeConfig `yaml:"scopes"`
}

// ScopeConfig narrows a tag's behavior for "tag(scope):" commits.
type ScopeConfig struct {
	Header *string `yaml:"header"`
	Semver *string `yaml:"semver"`
}

// ComponentConfig describes one releasable unit of the repository.
type ComponentConfig struct {
	Name          string   `yaml:"name"`
	Directory     string   `yaml:"directory"`
	ChangelogFile string   `yaml:"changelog_file"`
	VersionFile   string   `yaml:"version_file"`
	IncludeGlobs  []string `yaml:"include_globs"`
	ExcludeGlobs  []string `yaml:"exclude_globs"`

	UpdateDependencies *UpdateDependenciesConfig `yaml:"update_dependencies"`

	CommitTags   []TagConfig        `yaml:"commit_tags"`
	Steps        []StepConfig       `yaml:"steps"`
	PrependSteps []StepConfig       `yaml:"prepend_steps"`
	AppendSteps  []StepConfig       `yaml:"append_steps"`
	ModifySteps  []ModifyStepConfig `yaml:"modify_steps"`
}

// UpdateDependenciesConfig pulls a component into a release when one of its
// dependencies is released at or above the threshold.
type UpdateDependenciesConfig struct {
	Dependencies    []string `yaml:"dependencies"`
	SemverThreshold string   `yaml:"semver_threshold"`
	ConstraintLevel string   `yaml:"constraint_level"`
}

// StepConfig declares one pipeline step.
type StepConfig struct {
	Name            string         `yaml:"name"`
	Type            string         `yaml:"type"`
	Run             bool           `yaml:"run"`
	Clean           *bool          `yaml:"clean"`
	ContinueOnError bool           `yaml:"continue_on_error"`
	Inputs          []InputConfig  `yaml:"inputs"`
	Outputs         []OutputConfig `yaml:"outputs"`
	Options         map[string]any `yaml:"options"`
}

// InputConfig copies an artifact from an earlier step's output directory.
type InputConfig struct {
	Step       string `yaml:"step"`
	SourcePath string `yaml:"source_path"`
	DestPath   string `yaml:"dest_path"`
	Dest       string `yaml:"dest"`
	Collisions string `yaml:"collisions"`
}

// OutputConfig copies an artifact into the step's own output directory.
type OutputConfig struct {
	Source     string `yaml:"source"`
	SourcePath string `yaml:"source_path"`
	DestPath   string `yaml:"dest_path"`
	Collisions string `yaml:"collisions"`
}

// ModifyStepConfig patches a named step of the effective step list.
type ModifyStepConfig struct {
	Name            string         `yaml:"name"`
	Run             *bool          `yaml:"run"`
	Clean           *bool          `yaml:"clean"`
	ContinueOnError *bool          `yaml:"continue_on_error"`
	Options         map[string]any `yaml:"options"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment
// variables in the token and lowering the result into domain settings.
func Load(path string) (*entities.Settings, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, "", entities.NewConfigurationError(
			"failed to parse config file: %v", unmarshalErr)
	}

	cfg.Token = resolveToken(cfg.Token)

	settings, err := cfg.ToSettings()
	if err != nil {
		return nil, "", err
	}
	return settings, cfg.Token, nil
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile(repoDir string) (string, error) {
	patterns := []string{
		".autorelease.yaml",
		".autorelease.yml",
		"autorelease.yaml",
		"autorelease.yml",
	}
	for _, pattern := range patterns {
		p := filepath.Join(repoDir, pattern)
		if _, statErr := os.Stat(p); statErr == nil {
			return p, nil
		}
	}
	return "", errors.New("config file not found in repository root")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from it.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		return strings.TrimSpace(string(data))
	}

	return resolved
}
