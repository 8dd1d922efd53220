//go:build unit

package entities_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

func TestRenderReleaseSection(t *testing.T) {
	t.Parallel()

	t.Run("should render groups as h3 blocks with bullets", func(t *testing.T) {
		// given
		version := entities.NewVersion(1, 3, 0, 0)
		groups := []entities.ChangeGroup{
			{Header: "Added", Changes: []string{"export command"}},
			{Header: "Fixed", Changes: []string{"empty input", "timeout handling"}},
		}

		// when
		section := entities.RenderReleaseSection(version, "2026-08-25", groups)

		// then
		expected := "## [1.3.0] - 2026-08-25\n" +
			"\n### Added\n\n" +
			"- export command\n" +
			"\n### Fixed\n\n" +
			"- empty input\n" +
			"- timeout handling\n"
		assert.Equal(t, expected, section)
	})

	t.Run("should fall back to the no-significant-updates notice", func(t *testing.T) {
		// given
		version := entities.NewVersion(0, 2, 0, 0)

		// when
		section := entities.RenderReleaseSection(version, "2026-08-25", nil)

		// then
		assert.Contains(t, section, "- No significant updates.")
	})
}

func TestInsertReleaseSection(t *testing.T) {
	t.Parallel()

	section := "## [1.1.0] - 2026-08-25\n\n### Added\n\n- new thing\n"

	t.Run("should insert below the unreleased region", func(t *testing.T) {
		// given
		content := strings.Join([]string{
			"# Changelog",
			"",
			"## [Unreleased]",
			"",
			"## [1.0.0] - 2026-01-01",
			"",
			"### Added",
			"",
			"- first release",
			"",
		}, "\n")

		// when
		updated := entities.InsertReleaseSection(content, section)

		// then
		newIdx := strings.Index(updated, "## [1.1.0]")
		oldIdx := strings.Index(updated, "## [1.0.0]")
		unreleasedIdx := strings.Index(updated, "## [Unreleased]")
		require.GreaterOrEqual(t, newIdx, 0)
		assert.Less(t, unreleasedIdx, newIdx)
		assert.Less(t, newIdx, oldIdx)
	})

	t.Run("should insert above the first release when unreleased is absent", func(t *testing.T) {
		// given
		content := "# Changelog\n\n## [1.0.0] - 2026-01-01\n\n- old\n"

		// when
		updated := entities.InsertReleaseSection(content, section)

		// then
		assert.Less(t, strings.Index(updated, "## [1.1.0]"), strings.Index(updated, "## [1.0.0]"))
	})

	t.Run("should append when the document has no release headings", func(t *testing.T) {
		// given
		content := "# Changelog\n\nAll notable changes.\n"

		// when
		updated := entities.InsertReleaseSection(content, section)

		// then
		assert.True(t, strings.HasSuffix(updated, section))
		assert.True(t, strings.HasPrefix(updated, "# Changelog"))
	})

	t.Run("should handle an empty document", func(t *testing.T) {
		// when
		updated := entities.InsertReleaseSection("", section)

		// then
		assert.Equal(t, section, updated)
	})
}
