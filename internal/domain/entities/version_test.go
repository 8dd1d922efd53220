//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	t.Run("should parse a plain three-segment version", func(t *testing.T) {
		// given
		raw := "1.2.3"

		// when
		version, err := entities.ParseVersion(raw)

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", version.String())
	})

	t.Run("should accept a leading v and a fourth segment", func(t *testing.T) {
		// given
		raw := "v2.5.1.3"

		// when
		version, err := entities.ParseVersion(raw)

		// then
		require.NoError(t, err)
		assert.Equal(t, "2.5.1.3", version.String())
	})

	t.Run("should treat missing segments as zero", func(t *testing.T) {
		// given
		short, err := entities.ParseVersion("1.2")
		require.NoError(t, err)
		long, err := entities.ParseVersion("1.2.0")
		require.NoError(t, err)

		// when
		result := short.Compare(long)

		// then
		assert.Zero(t, result)
	})

	t.Run("should reject non-numeric segments", func(t *testing.T) {
		// when
		_, err := entities.ParseVersion("1.2.x")

		// then
		var confErr *entities.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("should reject more than four segments", func(t *testing.T) {
		// when
		_, err := entities.ParseVersion("1.2.3.4.5")

		// then
		var confErr *entities.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	})
}

func TestVersionBump(t *testing.T) {
	t.Parallel()

	t.Run("should zero every segment below the bumped one", func(t *testing.T) {
		// given
		version := entities.NewVersion(1, 4, 7, 2)

		// when / then
		assert.Equal(t, "2.0.0", version.Bump(entities.LevelMajor).String())
		assert.Equal(t, "1.5.0", version.Bump(entities.LevelMinor).String())
		assert.Equal(t, "1.4.8", version.Bump(entities.LevelPatch).String())
		assert.Equal(t, "1.4.7.3", version.Bump(entities.LevelPatch2).String())
	})

	t.Run("should return the version unchanged for level none", func(t *testing.T) {
		// given
		version := entities.NewVersion(1, 2, 3, 0)

		// when
		bumped := version.Bump(entities.LevelNone)

		// then
		assert.Zero(t, version.Compare(bumped))
	})
}

func TestSuggestVersion(t *testing.T) {
	t.Parallel()

	t.Run("should bump a nil current version from zero", func(t *testing.T) {
		// when
		version := entities.SuggestVersion(nil, entities.LevelMinor)

		// then
		assert.Equal(t, "0.1.0", version.String())
	})

	t.Run("should downgrade a major bump to minor before 1.0", func(t *testing.T) {
		// given
		current := entities.NewVersion(0, 3, 2, 0)

		// when
		version := entities.SuggestVersion(&current, entities.LevelMajor)

		// then
		assert.Equal(t, "0.4.0", version.String())
	})

	t.Run("should keep the major bump at or past 1.0", func(t *testing.T) {
		// given
		current := entities.NewVersion(1, 3, 2, 0)

		// when
		version := entities.SuggestVersion(&current, entities.LevelMajor)

		// then
		assert.Equal(t, "2.0.0", version.String())
	})
}

func TestForDiff(t *testing.T) {
	t.Parallel()

	t.Run("should return the level of the highest differing segment", func(t *testing.T) {
		// given
		older := entities.NewVersion(1, 2, 3, 0)
		newer := entities.NewVersion(1, 3, 0, 0)

		// when
		level := entities.ForDiff(&older, &newer)

		// then
		assert.Equal(t, entities.LevelMinor, level)
	})

	t.Run("should return none for versions equal after zero padding", func(t *testing.T) {
		// given
		short, err := entities.ParseVersion("1.2")
		require.NoError(t, err)
		long, err := entities.ParseVersion("1.2.0")
		require.NoError(t, err)

		// when
		level := entities.ForDiff(&short, &long)

		// then
		assert.Equal(t, entities.LevelNone, level)
	})

	t.Run("should promote an absent side to at least patch", func(t *testing.T) {
		// given
		zero := entities.NewVersion(0, 0, 0, 0)

		// when
		level := entities.ForDiff(nil, &zero)

		// then
		assert.Equal(t, entities.LevelPatch, level)
	})

	t.Run("should keep the real difference when the absent side differs", func(t *testing.T) {
		// given
		patch, err := entities.ParseVersion("0.0.1")
		require.NoError(t, err)

		// when
		level := entities.ForDiff(nil, &patch)

		// then
		assert.Equal(t, entities.LevelPatch, level)
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	t.Run("should parse levels case-insensitively", func(t *testing.T) {
		// when
		level, err := entities.ParseLevel("MAJOR")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.LevelMajor, level)
	})

	t.Run("should reject unknown levels", func(t *testing.T) {
		// when
		_, err := entities.ParseLevel("huge")

		// then
		var confErr *entities.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("should order patch2 below patch", func(t *testing.T) {
		// when / then
		assert.Equal(t, entities.LevelPatch,
			entities.MaxLevel(entities.LevelPatch2, entities.LevelPatch))
		assert.Equal(t, entities.LevelMajor,
			entities.MaxLevel(entities.LevelMajor, entities.LevelMinor))
	})
}
