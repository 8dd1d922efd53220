package repositories

import "context"

// CommandResult is the outcome of one subprocess invocation.
type CommandResult struct {
	ExitCode int
	Stdout   string
}

// CommandRunner executes external tools (build, package manager, VCS) for
// step bodies: run the command in a directory, capture stdout, report the
// exit code. A non-zero exit is returned in the result, not as an error;
// errors mean the process could not be started at all.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (CommandResult, error)
}
