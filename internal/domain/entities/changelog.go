package entities

import (
	"fmt"
	"strings"
)

const (
	unreleasedHeading = "## [Unreleased]"
	h2Prefix          = "## ["
	h3Prefix          = "### "
	bulletPrefix      = "- "
)

// RenderReleaseSection renders one Keep-a-Changelog release section for a
// finished change set: a "## [version] - date" heading followed by one
// "### header" block per change group. An empty group list falls back to the
// no-significant-updates notice.
func RenderReleaseSection(version Version, date string, groups []ChangeGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s] - %s\n", h2Prefix, version, date)

	if len(groups) == 0 {
		b.WriteString("\n" + bulletPrefix + NoSignificantUpdates + "\n")
		return b.String()
	}

	for _, group := range groups {
		b.WriteString("\n" + h3Prefix + group.Header + "\n\n")
		for _, change := range group.Changes {
			b.WriteString(bulletPrefix + change + "\n")
		}
	}
	return b.String()
}

// InsertReleaseSection inserts a rendered release section into a
// Keep-a-Changelog formatted document.
//
// Behaviour:
//   - If "## [Unreleased]" exists, the section goes below the unreleased
//     region, above the previous release heading.
//   - Otherwise the section goes above the first "## [" heading, or is
//     appended at the end when the document has no release headings yet.
func InsertReleaseSection(content, section string) string {
	lines := strings.Split(content, "\n")
	block := append(strings.Split(strings.TrimRight(section, "\n"), "\n"), "")

	at := findInsertionIndex(lines)
	if at < 0 {
		trimmed := strings.TrimRight(content, "\n")
		if trimmed == "" {
			return section
		}
		return trimmed + "\n\n" + section
	}
	return strings.Join(insertLines(lines, at, block), "\n")
}

// findInsertionIndex returns the line index where a new release section
// starts, or -1 to append at the end.
func findInsertionIndex(lines []string) int {
	unreleasedIdx := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == unreleasedHeading {
			unreleasedIdx = i
			continue
		}
		if strings.HasPrefix(trimmed, h2Prefix) {
			return i
		}
	}
	if unreleasedIdx >= 0 {
		return len(lines)
	}
	return -1
}

// insertLines inserts extra lines into slice at the given index.
func insertLines(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	result = append(result, lines[at:]...)
	return result
}
