package cli

import (
	"fmt"

	"github.com/jakoblorz/go-buildkit/internal/config"
	"github.com/jakoblorz/go-buildkit/internal/filesystem"
	"github.com/jakoblorz/go-buildkit/internal/logging"
	"github.com/jakoblorz/go-buildkit/internal/project"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// projectOptions are the persistent flags shared by every subcommand.
type projectOptions struct {
	packageFile  string
	overrideFile string
}

func (o *projectOptions) load(fs filesystem.FileSystem, logger *zap.Logger) (*config.Loaded, error) {
	loaded, err := config.NewLoader(fs, logger).Load(config.LoadOptions{
		PackageFile:  o.packageFile,
		OverrideFile: o.overrideFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return loaded, nil
}

func validateFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown format %q (expected %s or %s)", format, formatText, formatJSON)
	}
	return nil
}

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, logger *zap.Logger, settings config.Settings) *cobra.Command {
	opts := &projectOptions{}

	rootCmd := &cobra.Command{
		Use:   "buildkit",
		Short: "Inspect the build layout and tasks of a package",
		Long: `A CLI tool that reads package.json build metadata and derives the
canonical directory layout and build/test/deploy task plan of a project.

Build metadata lives under the "buildMetadata" key of package.json and can be
overridden with a YAML or JSON file (--override).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.packageFile, "package", "",
		"Path to package.json (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&opts.overrideFile, "override", settings.Override,
		"YAML or JSON file with build metadata overrides")

	rootCmd.AddCommand(NewInfoCommand(fs, logger, opts))
	rootCmd.AddCommand(NewTreeCommand(fs, logger, opts))
	rootCmd.AddCommand(NewTasksCommand(fs, logger, opts))
	rootCmd.AddCommand(newCheckEnvCommand(fs, logger, opts, settings.EnvFile, project.OSEnvironment{}))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	fs := filesystem.NewOSFileSystem()

	cwd, err := fs.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	settings, err := config.LoadSettings(fs, cwd)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(settings.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rootCmd := NewRootCommand(fs, logger, settings)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
