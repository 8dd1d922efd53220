package steps

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
)

const defaultManifest = "go.mod"

// PackageBuildStep builds the distributable artifact of a component. It is
// primary whenever the component carries a package manifest, so a plain
// configuration gets a build without declaring one.
//
// Options:
//   - command:  build command (default "go build ./...")
//   - manifest: manifest file marking the component as buildable
//   - artifact: path of the produced artifact, relative to the working
//     directory; copied into the step's output directory when set
type PackageBuildStep struct{}

func (it *PackageBuildStep) Primary(_ context.Context, step *pipeline.StepContext) bool {
	manifest := step.StringOption("manifest", defaultManifest)
	return step.Workspace().FileExists(filepath.Join(step.WorkDir(), manifest))
}

func (it *PackageBuildStep) Dependencies(_ context.Context, _ *pipeline.StepContext) []string {
	return nil
}

func (it *PackageBuildStep) Run(ctx context.Context, step *pipeline.StepContext) error {
	command := expand(step.StringOption("command", "go build ./..."), step)

	result, err := step.Runner().Run(ctx, step.WorkDir(), "sh", "-c", command)
	if err != nil {
		return fmt.Errorf("failed to start build: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("build exited with code %d: %s", result.ExitCode, result.Stdout)
	}

	artifact := expand(step.StringOption("artifact", ""), step)
	if artifact == "" {
		return nil
	}

	outputDir, err := step.OutputDir()
	if err != nil {
		return err
	}
	source := filepath.Join(step.WorkDir(), artifact)
	if !step.Workspace().FileExists(source) {
		return fmt.Errorf("build artifact %q was not produced", artifact)
	}
	return pipeline.MergeCopy(source, filepath.Join(outputDir, filepath.Base(artifact)), "replace")
}
