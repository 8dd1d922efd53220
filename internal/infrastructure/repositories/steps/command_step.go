package steps

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
)

// CommandStep runs a configured shell command in the component working
// directory. It never runs by default; enable it with the run flag or by
// naming it as an input of another step.
type CommandStep struct{}

func (it *CommandStep) Primary(_ context.Context, _ *pipeline.StepContext) bool {
	return false
}

func (it *CommandStep) Dependencies(_ context.Context, _ *pipeline.StepContext) []string {
	return nil
}

func (it *CommandStep) Run(ctx context.Context, step *pipeline.StepContext) error {
	command := step.StringOption("command", "")
	if command == "" {
		return step.AbortPipeline("step %q has no command configured", step.Settings().Name)
	}
	command = expand(command, step)

	result, err := step.Runner().Run(ctx, step.WorkDir(), "sh", "-c", command)
	if err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("command exited with code %d: %s", result.ExitCode, result.Stdout)
	}

	logger.Debugf("[%s] Command output: %s", step.Settings().Name, result.Stdout)
	return nil
}
