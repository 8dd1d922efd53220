package pipeline

import (
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
	"github.com/rios0rios0/autorelease/internal/domain/repositories"
)

// Environment is everything a pipeline run shares across its steps: the
// component under release, the resolved version and change set, the
// repository paths and the collaborators step bodies may call.
type Environment struct {
	Component *entities.Component
	Version   entities.Version
	ChangeSet *entities.ChangeSet
	RepoRoot  string
	DryRun    bool

	History   repositories.HistoryRepository
	Runner    repositories.CommandRunner
	Releases  repositories.ReleaseRepository
	Workspace repositories.WorkspaceRepository
}

// StepContext is the view one running step gets of the pipeline: its own
// settings, the shared environment and its private artifact directories.
type StepContext struct {
	settings  entities.StepSettings
	env       *Environment
	artifacts *ArtifactDir
	messages  []string
}

// Settings returns the step's declarative settings.
func (it *StepContext) Settings() entities.StepSettings {
	return it.settings
}

// Component returns the component under release.
func (it *StepContext) Component() *entities.Component {
	return it.env.Component
}

// Version returns the target release version.
func (it *StepContext) Version() entities.Version {
	return it.env.Version
}

// ChangeSet returns the finished change set backing this release.
func (it *StepContext) ChangeSet() *entities.ChangeSet {
	return it.env.ChangeSet
}

// RepoRoot returns the repository checkout root.
func (it *StepContext) RepoRoot() string {
	return it.env.RepoRoot
}

// WorkDir returns the shared component working directory.
func (it *StepContext) WorkDir() string {
	if it.env.Component == nil || it.env.Component.Directory == "" || it.env.Component.Directory == "." {
		return it.env.RepoRoot
	}
	return filepath.Join(it.env.RepoRoot, it.env.Component.Directory)
}

// DryRun reports whether network-visible actions must be skipped.
func (it *StepContext) DryRun() bool {
	return it.env.DryRun
}

// History returns the repository history collaborator.
func (it *StepContext) History() repositories.HistoryRepository {
	return it.env.History
}

// Runner returns the subprocess collaborator.
func (it *StepContext) Runner() repositories.CommandRunner {
	return it.env.Runner
}

// Releases returns the remote release collaborator.
func (it *StepContext) Releases() repositories.ReleaseRepository {
	return it.env.Releases
}

// Workspace returns the checkout file collaborator.
func (it *StepContext) Workspace() repositories.WorkspaceRepository {
	return it.env.Workspace
}

// Option returns a raw step option.
func (it *StepContext) Option(name string) any {
	return it.settings.Options[name]
}

// StringOption returns a string option or the fallback when absent.
func (it *StepContext) StringOption(name, fallback string) string {
	if value, ok := it.settings.Options[name].(string); ok && value != "" {
		return value
	}
	return fallback
}

// BoolOption returns a boolean option or the fallback when absent.
func (it *StepContext) BoolOption(name string, fallback bool) bool {
	if value, ok := it.settings.Options[name].(bool); ok {
		return value
	}
	return fallback
}

// OutputDir returns this step's output directory, creating it on first use.
func (it *StepContext) OutputDir() (string, error) {
	return it.artifacts.OutputDir(it.settings.Name)
}

// TempDir returns this step's scratch directory, creating it on first use.
func (it *StepContext) TempDir() (string, error) {
	return it.artifacts.TempDir(it.settings.Name)
}

// ExitStep stops the step early while counting it as a success.
func (it *StepContext) ExitStep(format string, args ...any) error {
	return entities.ExitStep(format, args...)
}

// AbortPipeline stops the entire remaining pipeline with failure.
func (it *StepContext) AbortPipeline(format string, args ...any) error {
	return entities.AbortPipeline(format, args...)
}

// RecordSuccess records and logs a human-readable success message.
func (it *StepContext) RecordSuccess(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	it.messages = append(it.messages, message)
	logger.Infof("[%s] %s", it.settings.Name, message)
}

// Messages returns the success messages recorded so far.
func (it *StepContext) Messages() []string {
	return it.messages
}
