package entities

import (
	"path"
	"regexp"
	"strings"
)

var (
	touchPattern   = regexp.MustCompile(`(?m)^touch-component:\s*(\S+)\s*$`)
	noTouchPattern = regexp.MustCompile(`(?m)^no-touch-component:\s*(\S+)\s*$`)
)

// UpdateDependencies pulls a component into a release whenever one of its
// dependencies is released at or above the threshold level.
type UpdateDependencies struct {
	Dependencies    []string
	Threshold       Level // minimum dependency level that triggers the cascade
	ConstraintLevel Level // level of the synthesized entry on this component
}

// Component is one releasable unit of the repository. A component belongs to
// at most one coordination group; components with UpdateDependencies may not
// belong to a coordination group and may not themselves be a dependency of
// another cascading component.
type Component struct {
	Name          string
	Directory     string
	ChangelogFile string
	VersionFile   string
	IncludeGlobs  []string
	ExcludeGlobs  []string

	CoordinationGroup  string
	UpdateDependencies *UpdateDependencies

	// CommitTags overrides the repository-wide tag table when non-empty.
	CommitTags []CommitTagSettings
}

// Touched reports whether the commit is presented to this component's
// change set: either it modifies a path under the component's directory
// (minus ExcludeGlobs, plus IncludeGlobs from outside), or it carries a
// matching touch-component tag. A no-touch-component tag always wins.
func (c *Component) Touched(commit CommitInfo) bool {
	for _, match := range noTouchPattern.FindAllStringSubmatch(commit.Message, -1) {
		if match[1] == c.Name {
			return false
		}
	}
	for _, match := range touchPattern.FindAllStringSubmatch(commit.Message, -1) {
		if match[1] == c.Name {
			return true
		}
	}

	for _, modified := range commit.ModifiedPaths {
		if c.ownsPath(modified) {
			return true
		}
	}
	return false
}

func (c *Component) ownsPath(p string) bool {
	cleaned := path.Clean(strings.TrimPrefix(p, "./"))

	if matchesAnyGlob(c.IncludeGlobs, cleaned) {
		return true
	}
	if !underDirectory(c.Directory, cleaned) {
		return false
	}
	return !matchesAnyGlob(c.ExcludeGlobs, cleaned)
}

func underDirectory(dir, p string) bool {
	if dir == "" || dir == "." {
		return true
	}
	dir = path.Clean(dir)
	return p == dir || strings.HasPrefix(p, dir+"/")
}

// matchesAnyGlob matches p against each pattern with path.Match; a pattern
// ending in "/" is treated as a directory prefix instead.
func matchesAnyGlob(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") {
			if strings.HasPrefix(p, path.Clean(pattern)+"/") {
				return true
			}
			continue
		}
		if matched, err := path.Match(pattern, p); err == nil && matched {
			return true
		}
	}
	return false
}
