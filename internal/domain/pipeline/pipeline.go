package pipeline

import (
	"context"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

// Pipeline orders the steps of one component release, resolves which ones
// must run, executes them in order and mediates artifact copying between
// their isolated directories.
type Pipeline struct {
	steps     []entities.StepSettings
	registry  *Registry
	env       *Environment
	artifacts *ArtifactDir

	contexts  []*StepContext
	positions map[string]int
	requested map[string]bool
	willRun   []bool
	resolved  bool
}

// NewPipeline validates the step list against the registry and the
// backward-reference rule: inputs may only name strictly earlier steps, so
// run resolution is a single backward pass and cycles are structurally
// impossible.
func NewPipeline(
	steps []entities.StepSettings,
	registry *Registry,
	env *Environment,
	artifacts *ArtifactDir,
) (*Pipeline, error) {
	positions := make(map[string]int, len(steps))
	contexts := make([]*StepContext, len(steps))

	for i, step := range steps {
		if step.Name == "" {
			return nil, entities.NewConfigurationError("step %d has no name", i)
		}
		if _, dup := positions[step.Name]; dup {
			return nil, entities.NewConfigurationError("duplicate step name %q", step.Name)
		}
		if registry.Get(step.Type) == nil {
			return nil, entities.NewConfigurationError(
				"step %q has unknown type %q (known: %v)", step.Name, step.Type, registry.Names())
		}
		positions[step.Name] = i
		contexts[i] = &StepContext{settings: step, env: env, artifacts: artifacts}

		for _, input := range step.Inputs {
			source, known := positions[input.Step]
			if !known || source >= i {
				return nil, entities.NewConfigurationError(
					"step %q input references %q, which is not an earlier step", step.Name, input.Step)
			}
			if !entities.ValidCollisionPolicy(input.Collisions) {
				return nil, entities.NewConfigurationError(
					"step %q input has unknown collision policy %q", step.Name, input.Collisions)
			}
		}
		for _, output := range step.Outputs {
			if !entities.ValidCollisionPolicy(output.Collisions) {
				return nil, entities.NewConfigurationError(
					"step %q output has unknown collision policy %q", step.Name, output.Collisions)
			}
		}
	}

	return &Pipeline{
		steps:     steps,
		registry:  registry,
		env:       env,
		artifacts: artifacts,
		contexts:  contexts,
		positions: positions,
		requested: make(map[string]bool),
		willRun:   make([]bool, len(steps)),
	}, nil
}

// RequestStep forces a step to run regardless of its run flag.
func (it *Pipeline) RequestStep(name string) error {
	if _, ok := it.positions[name]; !ok {
		return entities.NewConfigurationError("cannot request unknown step %q", name)
	}
	it.requested[name] = true
	return nil
}

// ResolveRun computes the WILL_RUN set in one backward pass: a step runs if
// its run flag is set, it was requested, or its type self-reports primary;
// and every step a running step names as an input (explicit or implicit)
// runs too. Since references only point backward, visiting steps from last
// to first propagates the whole closure.
func (it *Pipeline) ResolveRun(ctx context.Context) []bool {
	for i := len(it.steps) - 1; i >= 0; i-- {
		step := it.steps[i]
		stepType := it.registry.Get(step.Type)

		if step.Run || it.requested[step.Name] || stepType.Primary(ctx, it.contexts[i]) {
			it.willRun[i] = true
		}
		if !it.willRun[i] {
			continue
		}

		for _, input := range step.Inputs {
			it.willRun[it.positions[input.Step]] = true
		}
		for _, name := range stepType.Dependencies(ctx, it.contexts[i]) {
			if source, ok := it.positions[name]; ok && source < i {
				it.willRun[source] = true
			}
		}
	}

	it.resolved = true
	return append([]bool(nil), it.willRun...)
}

// WillRun reports the resolved decision for a step name.
func (it *Pipeline) WillRun(name string) bool {
	position, ok := it.positions[name]
	return ok && it.willRun[position]
}

// Run executes the resolved steps strictly forward. The artifact area is
// disposed of when the run finishes, regardless of outcome.
func (it *Pipeline) Run(ctx context.Context) (err error) {
	if !it.resolved {
		it.ResolveRun(ctx)
	}

	defer func() {
		if disposeErr := it.artifacts.Dispose(); disposeErr != nil {
			logger.Warnf("Failed to clean artifact area: %v", disposeErr)
		}
	}()

	for i, step := range it.steps {
		if !it.willRun[i] {
			logger.Debugf("[%s] Skipped", step.Name)
			continue
		}
		if err = it.runStep(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func (it *Pipeline) runStep(ctx context.Context, position int) error {
	step := it.steps[position]
	stepContext := it.contexts[position]
	logger.Infof("[%s] Running (type %s)", step.Name, step.Type)

	if step.Clean {
		if err := it.env.History.ResetWorkdir(ctx); err != nil {
			return entities.AbortPipelineWrap(err, "failed to reset working directory for step %q", step.Name)
		}
	}

	for _, input := range step.Inputs {
		if err := it.copyInput(stepContext, input); err != nil {
			return err
		}
	}

	runErr := it.registry.Get(step.Type).Run(ctx, stepContext)
	switch {
	case runErr == nil:
	case entities.IsStepExit(runErr):
		// Early exit is a success; the step body decided the work was
		// already done, so no outputs are collected.
		logger.Infof("[%s] %s", step.Name, runErr.Error())
		return nil
	case entities.IsPipelineExit(runErr):
		return runErr
	case step.ContinueOnError:
		logger.Errorf("[%s] Failed (continuing): %v", step.Name, runErr)
		return nil
	default:
		return entities.AbortPipelineWrap(runErr, "step %q failed", step.Name)
	}

	for _, output := range step.Outputs {
		if err := it.copyOutput(stepContext, output); err != nil {
			return err
		}
	}
	return nil
}

// copyInput copies a declared input from the source step's output directory
// into the chosen destination before the step body runs.
func (it *Pipeline) copyInput(stepContext *StepContext, input entities.InputSpec) error {
	if input.Dest == entities.InputDestNone {
		return nil
	}

	sourceDir, err := it.artifacts.OutputDir(input.Step)
	if err != nil {
		return entities.AbortPipelineWrap(err, "failed to open output of step %q", input.Step)
	}

	destBase, err := it.inputDestBase(stepContext, input.Dest)
	if err != nil {
		return err
	}

	src := filepath.Join(sourceDir, input.SourcePath)
	dst := filepath.Join(destBase, input.DestPath)
	if err = MergeCopy(src, dst, input.Collisions); err != nil {
		return entities.AbortPipelineWrap(err,
			"failed to copy input of step %q from %q", stepContext.Settings().Name, input.Step)
	}
	return nil
}

func (it *Pipeline) inputDestBase(stepContext *StepContext, dest entities.InputDest) (string, error) {
	switch dest {
	case entities.InputDestComponent:
		return stepContext.WorkDir(), nil
	case entities.InputDestRepoRoot:
		return it.env.RepoRoot, nil
	case entities.InputDestOutput:
		return stepContext.OutputDir()
	case entities.InputDestTemp:
		return stepContext.TempDir()
	default:
		return "", entities.NewConfigurationError("unknown input destination %q", dest)
	}
}

// copyOutput copies a declared output from the chosen source area into the
// step's own output directory after the body ran.
func (it *Pipeline) copyOutput(stepContext *StepContext, output entities.OutputSpec) error {
	var sourceBase string
	var err error
	switch output.Source {
	case entities.OutputSourceComponent:
		sourceBase = stepContext.WorkDir()
	case entities.OutputSourceRepoRoot:
		sourceBase = it.env.RepoRoot
	case entities.OutputSourceTemp:
		sourceBase, err = stepContext.TempDir()
		if err != nil {
			return entities.AbortPipelineWrap(err, "failed to open temp directory")
		}
	default:
		return entities.NewConfigurationError("unknown output source %q", output.Source)
	}

	outputDir, err := stepContext.OutputDir()
	if err != nil {
		return entities.AbortPipelineWrap(err, "failed to open output directory")
	}

	src := filepath.Join(sourceBase, output.SourcePath)
	dst := filepath.Join(outputDir, output.DestPath)
	if err = MergeCopy(src, dst, output.Collisions); err != nil {
		return entities.AbortPipelineWrap(err,
			"failed to copy output of step %q", stepContext.Settings().Name)
	}
	return nil
}

// NewStepContext builds a detached context for a step outside a pipeline
// run. Used by tests and by primary-probing before resolution.
func NewStepContext(
	settings entities.StepSettings,
	env *Environment,
	artifacts *ArtifactDir,
) *StepContext {
	return &StepContext{settings: settings, env: env, artifacts: artifacts}
}
