package entities

// HiddenHeader marks a commit tag whose entries are suppressed from the
// rendered change groups. The semver contribution of such entries still
// counts unless their level is NONE.
const HiddenHeader = "HIDDEN"

// DefaultBreakingChangeHeader is the reserved group for breaking changes,
// always emitted first when non-empty.
const DefaultBreakingChangeHeader = "Breaking Changes"

// NoSignificantUpdates is the changelog fallback for a component released
// without real entries, e.g. one pulled in by its coordination group.
const NoSignificantUpdates = "No significant updates."

// IssueSuffixMode selects how a trailing issue-number suffix "(#123)" on a
// description line is rewritten.
type IssueSuffixMode string

const (
	IssueSuffixPlain  IssueSuffixMode = "plain"
	IssueSuffixLink   IssueSuffixMode = "link"
	IssueSuffixDelete IssueSuffixMode = "delete"
)

// ScopeOverride narrows the behavior of a commit tag for "tag(scope):"
// commits. Nil fields keep the tag's own value.
type ScopeOverride struct {
	Header *string
	Level  *Level
}

// CommitTagSettings defines how one conventional-commit tag maps to a
// changelog group header and a bump level.
type CommitTagSettings struct {
	Tag            string
	Header         string
	Level          Level
	ScopeOverrides map[string]ScopeOverride
}

// Resolve returns the effective header and level for a given scope.
func (s CommitTagSettings) Resolve(scope string) (string, Level) {
	header, level := s.Header, s.Level
	if scope == "" {
		return header, level
	}
	if override, ok := s.ScopeOverrides[scope]; ok {
		if override.Header != nil {
			header = *override.Header
		}
		if override.Level != nil {
			level = *override.Level
		}
	}
	return header, level
}

// DefaultCommitTags is the built-in conventional-commit tag table, used when
// neither the repository nor the component configures its own.
func DefaultCommitTags() []CommitTagSettings {
	return []CommitTagSettings{
		{Tag: "feat", Header: "Added", Level: LevelMinor},
		{Tag: "fix", Header: "Fixed", Level: LevelPatch},
		{Tag: "perf", Header: "Changed", Level: LevelPatch},
		{Tag: "refactor", Header: "Changed", Level: LevelPatch},
		{Tag: "revert", Header: "Changed", Level: LevelPatch},
		{Tag: "docs", Header: HiddenHeader, Level: LevelNone},
		{Tag: "style", Header: HiddenHeader, Level: LevelNone},
		{Tag: "test", Header: HiddenHeader, Level: LevelNone},
		{Tag: "build", Header: HiddenHeader, Level: LevelNone},
		{Tag: "ci", Header: HiddenHeader, Level: LevelNone},
		{Tag: "chore", Header: HiddenHeader, Level: LevelNone},
	}
}
