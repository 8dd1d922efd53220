package main

import (
	"io"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rios0rios0/autorelease/internal"
	"github.com/rios0rios0/autorelease/internal/infrastructure/controllers"
)

const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
)

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "autorelease",
		Short: "Release orchestration engine for single- and multi-package repositories",
		Long: `Automates software releases by deriving, from conventional-commit
history, which components changed and what version and changelog each
deserves, then executing a configurable pipeline of build and publish
steps for each release.

Usage modes:
  autorelease plan [path]   Resolve and print the release plan
  autorelease run [path]    Resolve the plan and execute the pipelines`,
		PersistentPreRun: func(command *cobra.Command, _ []string) {
			configureLogging(command)
		},
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().String("token", "",
		"Auth token for the release provider (overrides config)")
	cmd.PersistentFlags().Bool("dry-run", false,
		"Show what would be done without network-visible actions")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")
	cmd.PersistentFlags().String("log-file", "",
		"Also write logs to this file (rotated)")

	return cmd
}

func configureLogging(command *cobra.Command) {
	if verbose, _ := command.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if logFile, _ := command.Flags().GetString("log-file"); logFile != "" {
		//nolint:exhaustruct // Defaults are fine for the remaining fields
		rotated := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
		}
		logger.SetOutput(io.MultiWriter(os.Stderr, rotated))
	}
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  cobra.MaximumNArgs(1),
			Run: func(command *cobra.Command, arguments []string) {
				controller.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if pc, ok := controller.(*controllers.PlanController); ok {
			pc.AddFlags(subCmd)
		}
		if rc, ok := controller.(*controllers.ReleaseController); ok {
			rc.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	cobraRoot := buildRootCommand()

	// Add all subcommands via the DIG-built app context
	appContext := injectAppContext()
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'autorelease': %s", err)
	}
}
