package execrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/internal/domain/repositories"
)

// ExecCommandRunner implements repositories.CommandRunner with os/exec.
// Stdout and stderr are captured together; a non-zero exit is reported in
// the result, not as an error.
type ExecCommandRunner struct{}

// NewExecCommandRunner creates the subprocess collaborator.
func NewExecCommandRunner() repositories.CommandRunner {
	return &ExecCommandRunner{}
}

func (it *ExecCommandRunner) Run(
	ctx context.Context,
	dir, name string,
	args ...string,
) (repositories.CommandResult, error) {
	logger.Debugf("Running %s %v in %s", name, args, dir)

	command := exec.CommandContext(ctx, name, args...)
	command.Dir = dir

	var output bytes.Buffer
	command.Stdout = &output
	command.Stderr = &output

	err := command.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return repositories.CommandResult{
				ExitCode: exitErr.ExitCode(),
				Stdout:   output.String(),
			}, nil
		}
		return repositories.CommandResult{}, fmt.Errorf("failed to run %q: %w", name, err)
	}

	return repositories.CommandResult{ExitCode: 0, Stdout: output.String()}, nil
}
