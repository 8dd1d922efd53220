package entities

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	taggedLinePattern   = regexp.MustCompile(`^([a-z][a-z0-9-]*)(?:\(([^)]*)\))?(!)?:\s*(.+)$`)
	issueSuffixPattern  = regexp.MustCompile(`\s*\(#(\d+)\)$`)
	semverChangePattern = regexp.MustCompile(`^semver-change:\s*(\S+)\s*$`)
	revertPattern       = regexp.MustCompile(`^revert-commit:\s*(\S+)\s*$`)
	breakingLinePattern = regexp.MustCompile(`^BREAKING[ -]CHANGE:\s*(.+)$`)
)

// ChangeGroup is one rendered changelog group: a header and its lines in
// original commit order.
type ChangeGroup struct {
	Header  string
	Changes []string
}

// changeEntry is one row of the append-only ledger: the origin commit, the
// resolved group header and level, and the rendered description.
type changeEntry struct {
	sha      string
	header   string
	level    Level
	text     string
	breaking bool
}

// ChangeSetSettings configures how commits fold into a ChangeSet.
type ChangeSetSettings struct {
	Tags                 []CommitTagSettings
	IssueSuffixMode      IssueSuffixMode
	BreakingChangeHeader string
	RepoSlug             string // "owner/name", used for issue links
}

// ChangeSet folds an ordered sequence of commits (oldest first) into a bump
// level and grouped changelog lines for one component. It is a builder:
// accessors are only valid after Finish.
//
// Reverts are modeled as reversible nullification: every ledger entry keeps
// its origin sha, and "revert-commit: <sha>" toggles that sha in a nullified
// set. Reverting a revert therefore restores the original entries in their
// original order.
type ChangeSet struct {
	settings  ChangeSetSettings
	tagsByKey map[string]CommitTagSettings

	entries   []changeEntry
	overrides map[string]Level // per-commit semver-change
	nullified map[string]bool

	finished bool
	level    Level
	groups   []ChangeGroup
}

// NewChangeSet creates an empty ChangeSet for the given settings. Zero-value
// settings fall back to the built-in tag table and defaults.
func NewChangeSet(settings ChangeSetSettings) *ChangeSet {
	if len(settings.Tags) == 0 {
		settings.Tags = DefaultCommitTags()
	}
	if settings.IssueSuffixMode == "" {
		settings.IssueSuffixMode = IssueSuffixPlain
	}
	if settings.BreakingChangeHeader == "" {
		settings.BreakingChangeHeader = DefaultBreakingChangeHeader
	}

	tagsByKey := make(map[string]CommitTagSettings, len(settings.Tags))
	for _, tag := range settings.Tags {
		tagsByKey[tag.Tag] = tag
	}

	return &ChangeSet{
		settings:  settings,
		tagsByKey: tagsByKey,
		overrides: make(map[string]Level),
		nullified: make(map[string]bool),
	}
}

// AddCommit folds one commit into the ledger. Commits must be presented
// oldest first. Adding after Finish is rejected.
func (it *ChangeSet) AddCommit(commit CommitInfo) error {
	if it.finished {
		return &InvalidStateError{Message: "change set already finished"}
	}

	for _, line := range strings.Split(commit.Message, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if match := semverChangePattern.FindStringSubmatch(trimmed); match != nil {
			if level, err := ParseLevel(match[1]); err == nil {
				it.overrides[commit.SHA] = level
			}
			continue
		}
		if match := revertPattern.FindStringSubmatch(trimmed); match != nil {
			it.nullified[match[1]] = !it.nullified[match[1]]
			continue
		}
		if match := breakingLinePattern.FindStringSubmatch(trimmed); match != nil {
			it.entries = append(it.entries, changeEntry{
				sha:      commit.SHA,
				header:   it.settings.BreakingChangeHeader,
				level:    LevelMajor,
				text:     it.rewriteSuffix(match[1]),
				breaking: true,
			})
			continue
		}

		it.addTaggedLine(commit.SHA, trimmed)
	}
	return nil
}

// AddEntry appends a synthesized ledger entry outside of any commit, e.g.
// the "dependency updated" line of a cascade release.
func (it *ChangeSet) AddEntry(header string, level Level, text string) error {
	if it.finished {
		return &InvalidStateError{Message: "change set already finished"}
	}
	it.entries = append(it.entries, changeEntry{header: header, level: level, text: text})
	return nil
}

func (it *ChangeSet) addTaggedLine(sha, line string) {
	match := taggedLinePattern.FindStringSubmatch(line)
	if match == nil {
		return
	}

	tag, scope, bang, description := match[1], match[2], match[3], match[4]
	settings, known := it.tagsByKey[tag]
	if !known {
		return
	}

	header, level := settings.Resolve(scope)
	text := it.rewriteSuffix(description)
	if scope != "" {
		text = scope + ": " + text
	}

	if bang == "!" {
		// A bang forces MAJOR and duplicates the line into the reserved
		// breaking-change group, independent of the tag's own group.
		level = LevelMajor
		it.entries = append(it.entries, changeEntry{
			sha:      sha,
			header:   it.settings.BreakingChangeHeader,
			level:    LevelMajor,
			text:     text,
			breaking: true,
		})
	}

	it.entries = append(it.entries, changeEntry{sha: sha, header: header, level: level, text: text})
}

func (it *ChangeSet) rewriteSuffix(description string) string {
	match := issueSuffixPattern.FindStringSubmatch(description)
	if match == nil {
		return description
	}

	switch it.settings.IssueSuffixMode {
	case IssueSuffixDelete:
		return issueSuffixPattern.ReplaceAllString(description, "")
	case IssueSuffixLink:
		link := fmt.Sprintf("([#%s](https://github.com/%s/pull/%s))",
			match[1], it.settings.RepoSlug, match[1])
		return issueSuffixPattern.ReplaceAllString(description, " "+link)
	default:
		return description
	}
}

// Finish freezes the ledger and computes the bump level and change groups.
func (it *ChangeSet) Finish() {
	if it.finished {
		return
	}
	it.finished = true
	it.level = it.computeLevel()
	it.groups = it.buildGroups()
}

// computeLevel folds the live ledger into a bump level. Usable before
// Finish; the resolver peeks at it while deciding the release scope.
func (it *ChangeSet) computeLevel() Level {
	level := LevelNone
	for _, entry := range it.liveEntries() {
		effective := entry.level
		if override, ok := it.overrides[entry.sha]; ok && entry.sha != "" {
			// semver-change overrides the commit's contribution but leaves
			// the changelog groups untouched, breaking markers included.
			effective = override
		}
		level = MaxLevel(level, effective)
	}
	return level
}

func (it *ChangeSet) liveEntries() []changeEntry {
	live := make([]changeEntry, 0, len(it.entries))
	for _, entry := range it.entries {
		if entry.sha != "" && it.nullified[entry.sha] {
			continue
		}
		live = append(live, entry)
	}
	return live
}

func (it *ChangeSet) buildGroups() []ChangeGroup {
	breaking := ChangeGroup{Header: it.settings.BreakingChangeHeader}
	byHeader := make(map[string]int)
	var ordered []ChangeGroup

	for _, entry := range it.liveEntries() {
		if entry.header == HiddenHeader {
			continue
		}
		if entry.breaking {
			breaking.Changes = append(breaking.Changes, entry.text)
			continue
		}
		idx, seen := byHeader[entry.header]
		if !seen {
			ordered = append(ordered, ChangeGroup{Header: entry.header})
			idx = len(ordered) - 1
			byHeader[entry.header] = idx
		}
		ordered[idx].Changes = append(ordered[idx].Changes, entry.text)
	}

	if len(breaking.Changes) == 0 {
		return ordered
	}
	return append([]ChangeGroup{breaking}, ordered...)
}

func (it *ChangeSet) requireFinished() error {
	if !it.finished {
		return &InvalidStateError{Message: "change set not finished"}
	}
	return nil
}

// Semver returns the maximum bump level over all non-nullified entries.
func (it *ChangeSet) Semver() (Level, error) {
	if err := it.requireFinished(); err != nil {
		return LevelNone, err
	}
	return it.level, nil
}

// ChangeGroups returns the grouped changelog lines, first-seen-header order,
// with the breaking-change group first when present.
func (it *ChangeSet) ChangeGroups() ([]ChangeGroup, error) {
	if err := it.requireFinished(); err != nil {
		return nil, err
	}
	return it.groups, nil
}

// SignificantSHAs returns the distinct origin shas of non-nullified entries,
// in encounter order.
func (it *ChangeSet) SignificantSHAs() ([]string, error) {
	if err := it.requireFinished(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var shas []string
	for _, entry := range it.liveEntries() {
		if entry.sha == "" || seen[entry.sha] {
			continue
		}
		seen[entry.sha] = true
		shas = append(shas, entry.sha)
	}
	return shas, nil
}

// HasChanges reports whether any visible changelog line survived.
func (it *ChangeSet) HasChanges() (bool, error) {
	if err := it.requireFinished(); err != nil {
		return false, err
	}
	return len(it.groups) > 0, nil
}

// SuggestedVersion bumps the current version by the computed level. A nil
// current version is treated as 0.0.0. Bumping a pre-1.0 version by MAJOR
// yields 0.(x+1).0: before 1.0, breaking changes are minor-equivalent.
func (it *ChangeSet) SuggestedVersion(current *Version) (Version, error) {
	if err := it.requireFinished(); err != nil {
		return Version{}, err
	}

	return SuggestVersion(current, it.level), nil
}
