package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autorelease/config"
	"github.com/rios0rios0/autorelease/internal/domain/commands"
	"github.com/rios0rios0/autorelease/internal/domain/entities"
	"github.com/rios0rios0/autorelease/internal/infrastructure/repositories/execrunner"
	"github.com/rios0rios0/autorelease/internal/infrastructure/repositories/githubrel"
	"github.com/rios0rios0/autorelease/internal/infrastructure/repositories/gitrepo"
	"github.com/rios0rios0/autorelease/internal/infrastructure/repositories/workspace"
)

// prepareRun performs the shared setup of the plan and run controllers:
// resolve the repository path, load configuration and assemble the
// repository-bound collaborators.
func prepareRun(
	cmd *cobra.Command,
	args []string,
) (*entities.Settings, commands.Collaborators, entities.ReleaseOptions, bool) {
	var none commands.Collaborators
	var noOpts entities.ReleaseOptions

	repoDir := "."
	if len(args) > 0 {
		repoDir = args[0]
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := config.FindConfigFile(repoDir)
		if err != nil {
			logger.Errorf(
				"No config file found: %v\nSpecify one with --config or create .autorelease.yaml",
				err)
			return nil, none, noOpts, false
		}
		configPath = found
	}
	logger.Infof("Using config file: %s", configPath)

	settings, token, err := config.Load(configPath)
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		return nil, none, noOpts, false
	}

	if flagToken, _ := cmd.Flags().GetString("token"); flagToken != "" {
		token = flagToken
	}

	history, err := gitrepo.NewGitHistoryRepository(repoDir)
	if err != nil {
		logger.Errorf("Failed to open repository: %v", err)
		return nil, none, noOpts, false
	}

	collab := commands.Collaborators{
		RepoRoot:  repoDir,
		History:   history,
		Runner:    execrunner.NewExecCommandRunner(),
		Workspace: workspace.NewOSWorkspaceRepository(),
	}
	if settings.RepoSlug != "" {
		releases, relErr := githubrel.NewGitHubReleaseRepository(settings.RepoSlug, token)
		if relErr != nil {
			logger.Errorf("Failed to build release client: %v", relErr)
			return nil, none, noOpts, false
		}
		collab.Releases = releases
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	fromRef, _ := cmd.Flags().GetString("from")
	toRef, _ := cmd.Flags().GetString("to")
	only, _ := cmd.Flags().GetString("only")

	opts := entities.ReleaseOptions{
		DryRun:  dryRun,
		Verbose: verbose,
		FromRef: fromRef,
		ToRef:   toRef,
		Only:    only,
	}
	return settings, collab, opts, true
}
