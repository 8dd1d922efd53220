package entities

// ReleaseOptions holds runtime options passed through commands into step
// contexts.
type ReleaseOptions struct {
	DryRun  bool
	Verbose bool

	// FromRef / ToRef bound the commit range; empty values fall back to the
	// latest release tag and HEAD.
	FromRef string
	ToRef   string

	// Only restricts the run to a single component when non-empty.
	Only string
}
