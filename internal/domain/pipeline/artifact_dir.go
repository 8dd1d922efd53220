package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactDir manages the per-step scratch and output directories of one
// pipeline run. Directories are created lazily, so steps that never run
// leave no trace, and the whole area is disposed of when the pipeline
// finishes, success or failure.
type ArtifactDir struct {
	root string
}

// NewArtifactDir creates the artifact area under the system temp directory.
func NewArtifactDir() (*ArtifactDir, error) {
	root, err := os.MkdirTemp("", "autorelease-artifacts-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact area: %w", err)
	}
	return &ArtifactDir{root: root}, nil
}

// NewArtifactDirAt places the artifact area under an explicit root,
// creating it. Used by tests.
func NewArtifactDirAt(root string) (*ArtifactDir, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create artifact area %q: %w", root, err)
	}
	return &ArtifactDir{root: root}, nil
}

// Root returns the artifact area root.
func (it *ArtifactDir) Root() string {
	return it.root
}

// OutputDir returns the step's output directory, creating it on first use.
// The directory persists after the step so later steps can read it.
func (it *ArtifactDir) OutputDir(step string) (string, error) {
	return it.ensure(step, "output")
}

// TempDir returns the step's private scratch directory, creating it on
// first use.
func (it *ArtifactDir) TempDir(step string) (string, error) {
	return it.ensure(step, "temp")
}

// HasOutput reports whether the step ever created its output directory.
func (it *ArtifactDir) HasOutput(step string) bool {
	info, err := os.Stat(filepath.Join(it.root, step, "output"))
	return err == nil && info.IsDir()
}

func (it *ArtifactDir) ensure(step, kind string) (string, error) {
	dir := filepath.Join(it.root, step, kind)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create %s directory for step %q: %w", kind, step, err)
	}
	return dir, nil
}

// Dispose recursively deletes the whole artifact area.
func (it *ArtifactDir) Dispose() error {
	if it.root == "" {
		return nil
	}
	if err := os.RemoveAll(it.root); err != nil {
		return fmt.Errorf("failed to dispose artifact area %q: %w", it.root, err)
	}
	return nil
}
