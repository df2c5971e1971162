package cli

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-buildkit/internal/filesystem"
	"github.com/jakoblorz/go-buildkit/internal/project"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CheckEnvCommand handles the check-env command
type CheckEnvCommand struct {
	fs      filesystem.FileSystem
	logger  *zap.Logger
	opts    *projectOptions
	env     project.Environment
	envFile string
}

func newCheckEnvCommand(fs filesystem.FileSystem, logger *zap.Logger, opts *projectOptions, envFile string, env project.Environment) *cobra.Command {
	cmd := &CheckEnvCommand{fs: fs, logger: logger, opts: opts, env: env}

	cobraCmd := &cobra.Command{
		Use:   "check-env",
		Short: "Verify that private npm parameters are set",
		Long: `Checks that every environment variable listed in
buildMetadata.privateNpm.params is set to a non-empty value.

Run this before packaging or publishing. Values from --env-file are used
only for variables missing from the process environment.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.envFile, "env-file", envFile, "Dotenv file consulted after the process environment")

	return cobraCmd
}

// Run executes the check-env command
func (c *CheckEnvCommand) Run(cmd *cobra.Command, args []string) error {
	loaded, err := c.opts.load(c.fs, c.logger)
	if err != nil {
		return err
	}
	p := loaded.Project

	if !p.HasPrivateNpm() {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No private npm parameters required")
		return err
	}

	env := c.env
	if c.envFile != "" {
		fileEnv, err := c.readEnvFile(loaded.RootPath)
		if err != nil {
			return err
		}
		env = project.LayeredEnvironment{c.env, fileEnv}
	}

	if err := p.ValidatePrivateNpmParams(env); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "All %d private npm parameter(s) are set\n", len(p.PrivateNpmParams()))
	return err
}

func (c *CheckEnvCommand) readEnvFile(rootPath string) (project.MapEnvironment, error) {
	path := c.envFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootPath, path)
	}

	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	values, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file %s: %w", path, err)
	}
	c.logger.Debug("loaded env file", zap.String("path", path), zap.Int("count", len(values)))

	return project.MapEnvironment(values), nil
}
