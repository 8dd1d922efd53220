//go:build unit

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/config"
	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".autorelease.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("should load a minimal config with defaults", func(t *testing.T) {
		// given
		path := writeConfig(t, `
repository: acme/widgets
`)

		// when
		settings, token, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Empty(t, token)
		assert.Equal(t, "acme/widgets", settings.RepoSlug)
		require.Len(t, settings.Components, 1)
		assert.Equal(t, "widgets", settings.Components[0].Name)
		assert.Equal(t, ".", settings.Components[0].Directory)
		assert.Equal(t, "CHANGELOG.md", settings.Components[0].ChangelogFile)
		require.Len(t, settings.Steps["widgets"], 5)
		assert.Equal(t, "changelog", settings.Steps["widgets"][0].Name)
	})

	t.Run("should expand environment variables in the token", func(t *testing.T) {
		// given
		t.Setenv("AUTORELEASE_TEST_TOKEN", "secret-token")
		path := writeConfig(t, `
repository: acme/widgets
token: ${AUTORELEASE_TEST_TOKEN}
`)

		// when
		_, token, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "secret-token", token)
	})

	t.Run("should read the token from a file path", func(t *testing.T) {
		// given
		tokenFile := filepath.Join(t.TempDir(), "token.txt")
		require.NoError(t, os.WriteFile(tokenFile, []byte("file-token\n"), 0o600))
		path := writeConfig(t, `
repository: acme/widgets
token: `+tokenFile+`
`)

		// when
		_, token, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		// given
		path := writeConfig(t, "components: [unclosed")

		// when
		_, _, err := config.Load(path)

		// then
		var confErr *entities.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("should fail when the file does not exist", func(t *testing.T) {
		// when
		_, _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.Error(t, err)
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("should find the dotted yaml variant first", func(t *testing.T) {
		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".autorelease.yaml"), []byte("{}"), 0o640))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "autorelease.yml"), []byte("{}"), 0o640))

		// when
		path, err := config.FindConfigFile(dir)

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ".autorelease.yaml"), path)
	})

	t.Run("should fail when no variant exists", func(t *testing.T) {
		// when
		_, err := config.FindConfigFile(t.TempDir())

		// then
		require.Error(t, err)
	})
}

func TestToSettings(t *testing.T) {
	t.Run("should lower commit tags with scope overrides", func(t *testing.T) {
		// given
		path := writeConfig(t, `
repository: acme/widgets
commit_tags:
  - tag: feat
    header: Added
    semver: minor
    scopes:
      deps:
        header: Dependencies
        semver: patch
`)

		// when
		settings, _, err := config.Load(path)

		// then
		require.NoError(t, err)
		require.Len(t, settings.CommitTags, 1)
		header, level := settings.CommitTags[0].Resolve("deps")
		assert.Equal(t, "Dependencies", header)
		assert.Equal(t, entities.LevelPatch, level)
		header, level = settings.CommitTags[0].Resolve("")
		assert.Equal(t, "Added", header)
		assert.Equal(t, entities.LevelMinor, level)
	})

	t.Run("should reject an unknown semver level", func(t *testing.T) {
		// given
		path := writeConfig(t, `
commit_tags:
  - tag: feat
    semver: enormous
`)

		// when
		_, _, err := config.Load(path)

		// then
		var confErr *entities.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("should reject an unknown issue suffix mode", func(t *testing.T) {
		// given
		path := writeConfig(t, `issue_number_suffix_handling: remove`)

		// when
		_, _, err := config.Load(path)

		// then
		var confErr *entities.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("should attach coordination groups to their members", func(t *testing.T) {
		// given
		path := writeConfig(t, `
components:
  - name: core
    directory: core
  - name: cli
    directory: cli
  - name: extras
    directory: extras
coordination_groups:
  platform: [core, cli]
`)

		// when
		settings, _, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "platform", settings.Component("core").CoordinationGroup)
		assert.Equal(t, "platform", settings.Component("cli").CoordinationGroup)
		assert.Empty(t, settings.Component("extras").CoordinationGroup)
	})

	t.Run("should reject a coordination group naming an unknown component", func(t *testing.T) {
		// given
		path := writeConfig(t, `
components:
  - name: core
    directory: core
coordination_groups:
  platform: [core, ghost]
`)

		// when
		_, _, err := config.Load(path)

		// then
		var confErr *entities.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("should lower update_dependencies with default thresholds", func(t *testing.T) {
		// given
		path := writeConfig(t, `
components:
  - name: lib
    directory: lib
  - name: app
    directory: app
    update_dependencies:
      dependencies: [lib]
`)

		// when
		settings, _, err := config.Load(path)

		// then
		require.NoError(t, err)
		deps := settings.Component("app").UpdateDependencies
		require.NotNil(t, deps)
		assert.Equal(t, []string{"lib"}, deps.Dependencies)
		assert.Equal(t, entities.LevelMinor, deps.Threshold)
		assert.Equal(t, entities.LevelPatch, deps.ConstraintLevel)
	})

	t.Run("should apply prepend, append and modify edits to the default steps", func(t *testing.T) {
		// given
		path := writeConfig(t, `
repository: acme/widgets
prepend_steps:
  - name: lint
    type: command
    run: true
    options:
      command: make lint
append_steps:
  - name: notify
    type: command
    options:
      command: make notify
modify_steps:
  - name: publish
    run: true
    options:
      command: make publish VERSION={version}
`)

		// when
		settings, _, err := config.Load(path)

		// then
		require.NoError(t, err)
		steps := settings.Steps["widgets"]
		require.Len(t, steps, 7)
		assert.Equal(t, "lint", steps[0].Name)
		assert.Equal(t, "notify", steps[6].Name)
		var publish *entities.StepSettings
		for i := range steps {
			if steps[i].Name == "publish" {
				publish = &steps[i]
			}
		}
		require.NotNil(t, publish)
		assert.True(t, publish.Run)
		assert.Equal(t, "make publish VERSION={version}", publish.Options["command"])
		assert.Equal(t, "build", publish.Options["source"]) // merged, not replaced
	})

	t.Run("should reject modify_steps naming an unknown step", func(t *testing.T) {
		// given
		path := writeConfig(t, `
modify_steps:
  - name: ghost
    run: true
`)

		// when
		_, _, err := config.Load(path)

		// then
		var confErr *entities.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("should let a component replace the whole step list", func(t *testing.T) {
		// given
		path := writeConfig(t, `
components:
  - name: api
    directory: api
    steps:
      - name: only
        type: command
        run: true
        clean: false
        options:
          command: make release
`)

		// when
		settings, _, err := config.Load(path)

		// then
		require.NoError(t, err)
		steps := settings.Steps["api"]
		require.Len(t, steps, 1)
		assert.Equal(t, "only", steps[0].Name)
		assert.False(t, steps[0].Clean)
	})

	t.Run("should default step clean to true", func(t *testing.T) {
		// given
		path := writeConfig(t, `
steps:
  - name: build
    type: package_build
`)

		// when
		settings, _, err := config.Load(path)

		// then
		require.NoError(t, err)
		require.Len(t, settings.Steps["root"], 1)
		assert.True(t, settings.Steps["root"][0].Clean)
	})

	t.Run("should reject unknown input destinations and collision policies", func(t *testing.T) {
		// given
		badDest := writeConfig(t, `
steps:
  - name: build
    type: package_build
  - name: publish
    type: package_publish
    inputs:
      - step: build
        dest: mailbox
`)
		badPolicy := writeConfig(t, `
steps:
  - name: build
    type: package_build
    outputs:
      - source_path: dist
        collisions: merge
`)

		// when / then
		var confErr *entities.ConfigurationError
		_, _, err := config.Load(badDest)
		require.ErrorAs(t, err, &confErr)
		_, _, err = config.Load(badPolicy)
		require.ErrorAs(t, err, &confErr)
	})
}
