package entities

// CollisionPolicy decides what happens when a copy would overwrite an
// existing file at the same relative path.
type CollisionPolicy string

const (
	CollisionError   CollisionPolicy = "error"
	CollisionKeep    CollisionPolicy = "keep"
	CollisionReplace CollisionPolicy = "replace"
)

// ValidCollisionPolicy reports whether the value is one of the known
// policies; empty defaults to error.
func ValidCollisionPolicy(policy CollisionPolicy) bool {
	switch policy {
	case "", CollisionError, CollisionKeep, CollisionReplace:
		return true
	}
	return false
}

// InputDest selects where an input copy lands before the step body runs.
type InputDest string

const (
	InputDestComponent InputDest = "component"
	InputDestRepoRoot  InputDest = "repo_root"
	InputDestOutput    InputDest = "output"
	InputDestTemp      InputDest = "temp"
	InputDestNone      InputDest = "none"
)

// OutputSource selects where an output copy is taken from after the step
// body runs.
type OutputSource string

const (
	OutputSourceComponent OutputSource = "component"
	OutputSourceRepoRoot  OutputSource = "repo_root"
	OutputSourceTemp      OutputSource = "temp"
)

// InputSpec declares one artifact copied from an earlier step's output
// directory into this step's chosen destination. The named step must be
// positioned strictly earlier in the pipeline.
type InputSpec struct {
	Step       string
	SourcePath string
	DestPath   string
	Dest       InputDest
	Collisions CollisionPolicy
}

// OutputSpec declares one artifact copied from a source area into this
// step's own output directory after the body ran.
type OutputSpec struct {
	Source     OutputSource
	SourcePath string
	DestPath   string
	Collisions CollisionPolicy
}

// StepSettings is the declarative description of one pipeline step,
// immutable once loaded.
type StepSettings struct {
	Name            string
	Type            string
	Run             bool
	Clean           bool // reset the component workdir before the body
	ContinueOnError bool
	Inputs          []InputSpec
	Outputs         []OutputSpec
	Options         map[string]any
}
