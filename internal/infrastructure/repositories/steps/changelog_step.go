package steps

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
)

// ChangelogStep rewrites the component changelog: the grouped entries of
// the release move under a new "## [version] - date" heading in
// Keep-a-Changelog layout, and the version file is bumped when the
// component declares one. Primary whenever a changelog file is configured.
type ChangelogStep struct{}

func (it *ChangelogStep) Primary(_ context.Context, step *pipeline.StepContext) bool {
	return step.Component() != nil && step.Component().ChangelogFile != ""
}

func (it *ChangelogStep) Dependencies(_ context.Context, _ *pipeline.StepContext) []string {
	return nil
}

func (it *ChangelogStep) Run(_ context.Context, step *pipeline.StepContext) error {
	component := step.Component()
	if component == nil || component.ChangelogFile == "" {
		return step.ExitStep("no changelog file configured")
	}

	groups, err := step.ChangeSet().ChangeGroups()
	if err != nil {
		return err
	}

	date := time.Now().UTC().Format("2006-01-02")
	section := entities.RenderReleaseSection(step.Version(), date, groups)

	path := filepath.Join(step.WorkDir(), component.ChangelogFile)
	content := ""
	if step.Workspace().FileExists(path) {
		if content, err = step.Workspace().ReadFile(path); err != nil {
			return fmt.Errorf("failed to read changelog: %w", err)
		}
	}
	if err = step.Workspace().WriteFile(path, entities.InsertReleaseSection(content, section)); err != nil {
		return fmt.Errorf("failed to write changelog: %w", err)
	}

	if component.VersionFile != "" {
		versionPath := filepath.Join(step.WorkDir(), component.VersionFile)
		if err = step.Workspace().WriteFile(versionPath, step.Version().String()+"\n"); err != nil {
			return fmt.Errorf("failed to write version file: %w", err)
		}
	}

	step.RecordSuccess("Updated %s for version %s", component.ChangelogFile, step.Version())
	return nil
}
