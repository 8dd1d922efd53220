package entities

import (
	"fmt"
	"strconv"
	"strings"
)

const versionSegments = 4

// Version is a release version with up to four numeric segments:
// major.minor.patch and an optional fourth "patch2" segment used for
// emergency releases. Trailing zero segments are equivalent, so "1.2" and
// "1.2.0" compare equal.
type Version struct {
	segments [versionSegments]int
}

// NewVersion builds a version from explicit segments.
func NewVersion(major, minor, patch, patch2 int) Version {
	return Version{segments: [versionSegments]int{major, minor, patch, patch2}}
}

// ParseVersion parses a dotted version string such as "1.2.3" or "1.2.3.1".
// A leading "v" is accepted and discarded.
func ParseVersion(raw string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	if trimmed == "" {
		return Version{}, NewConfigurationError("empty version string")
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) > versionSegments {
		return Version{}, NewConfigurationError("version %q has more than %d segments", raw, versionSegments)
	}

	var version Version
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 {
			return Version{}, NewConfigurationError("version %q has a non-numeric segment %q", raw, part)
		}
		version.segments[i] = value
	}
	return version, nil
}

// String renders the version with three segments, appending the fourth only
// when it is non-zero.
func (v Version) String() string {
	base := fmt.Sprintf("%d.%d.%d", v.segments[0], v.segments[1], v.segments[2])
	if v.segments[3] != 0 {
		return base + "." + strconv.Itoa(v.segments[3])
	}
	return base
}

// Major returns the first segment.
func (v Version) Major() int { return v.segments[0] }

// Compare orders two versions segment by segment: -1, 0 or 1.
func (v Version) Compare(other Version) int {
	for i := range versionSegments {
		switch {
		case v.segments[i] < other.segments[i]:
			return -1
		case v.segments[i] > other.segments[i]:
			return 1
		}
	}
	return 0
}

// Bump returns the version with the segment matching level incremented and
// every lower segment zeroed. LevelNone returns the version unchanged.
func (v Version) Bump(level Level) Version {
	bumped := v
	switch level {
	case LevelMajor:
		bumped.segments[0]++
		bumped.segments[1], bumped.segments[2], bumped.segments[3] = 0, 0, 0
	case LevelMinor:
		bumped.segments[1]++
		bumped.segments[2], bumped.segments[3] = 0, 0
	case LevelPatch:
		bumped.segments[2]++
		bumped.segments[3] = 0
	case LevelPatch2:
		bumped.segments[3]++
	case LevelNone:
	}
	return bumped
}

// SuggestVersion bumps current (nil meaning 0.0.0) by level, applying the
// pre-1.0 rule: a MAJOR bump of a 0.x version yields 0.(x+1).0 instead of
// 1.0.0, since pre-1.0 breaking changes are minor-equivalent.
func SuggestVersion(current *Version, level Level) Version {
	var base Version
	if current != nil {
		base = *current
	}
	if level == LevelMajor && base.Major() == 0 {
		level = LevelMinor
	}
	return base.Bump(level)
}

// ForDiff returns the smallest level whose increment explains the difference
// between two versions, NONE when they are equal after zero-padding. An
// absent version is treated as all zeroes and then promoted to PATCH when
// the other side is present: a created package counts as a patch-level event.
func ForDiff(a, b *Version) Level {
	var left, right Version
	if a != nil {
		left = *a
	}
	if b != nil {
		right = *b
	}

	diffLevels := [versionSegments]Level{LevelMajor, LevelMinor, LevelPatch, LevelPatch2}
	level := LevelNone
	for i := range versionSegments {
		if left.segments[i] != right.segments[i] {
			level = diffLevels[i]
			break
		}
	}

	if level == LevelNone && (a == nil) != (b == nil) {
		return LevelPatch
	}
	return level
}
