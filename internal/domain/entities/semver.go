package entities

import "strings"

// Level is the magnitude of a semantic-version bump. Levels are totally
// ordered: NONE < PATCH2 < PATCH < MINOR < MAJOR.
type Level int

const (
	LevelNone Level = iota
	LevelPatch2
	LevelPatch
	LevelMinor
	LevelMajor
)

var levelNames = map[Level]string{
	LevelNone:   "none",
	LevelPatch2: "patch2",
	LevelPatch:  "patch",
	LevelMinor:  "minor",
	LevelMajor:  "major",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLevel resolves a level by name, case-insensitively.
func ParseLevel(name string) (Level, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for level, levelName := range levelNames {
		if levelName == lowered {
			return level, nil
		}
	}
	return LevelNone, NewConfigurationError("unknown semver level %q", name)
}

// MaxLevel returns the more severe of two levels.
func MaxLevel(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}
