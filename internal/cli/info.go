package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jakoblorz/go-buildkit/internal/filesystem"
	"github.com/jakoblorz/go-buildkit/internal/project"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// InfoCommand handles the info command
type InfoCommand struct {
	fs     filesystem.FileSystem
	logger *zap.Logger
	opts   *projectOptions
	format string
}

// ProjectInfo is the JSON representation of a project.
type ProjectInfo struct {
	Name             string   `json:"name"`
	UnscopedName     string   `json:"unscopedName"`
	Version          string   `json:"version"`
	Description      string   `json:"description,omitempty"`
	ProjectType      string   `json:"projectType"`
	Language         string   `json:"language"`
	HasTypescript    bool     `json:"hasTypescript"`
	HasServer        bool     `json:"hasServer"`
	HasDocker        bool     `json:"hasDocker"`
	HasPrivateNpm    bool     `json:"hasPrivateNpm"`
	HasExportedTypes bool     `json:"hasExportedTypes"`
	ExportedTypes    string   `json:"exportedTypes,omitempty"`
	DockerRepo       string   `json:"dockerRepo,omitempty"`
	PrivateNpmParams []string `json:"privateNpmParams"`
	ConfigFileName   string   `json:"configFileName"`
	JSRootDir        string   `json:"jsRootDir"`
	Aws              *AwsInfo `json:"aws,omitempty"`
}

// AwsInfo describes the cloud deployment of an aws-microservice.
type AwsInfo struct {
	Region  string      `json:"region,omitempty"`
	Profile string      `json:"profile,omitempty"`
	Stacks  []StackInfo `json:"stacks"`
}

// StackInfo maps a stack key to its deployment name.
type StackInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// NewInfoCommand creates a new info command
func NewInfoCommand(fs filesystem.FileSystem, logger *zap.Logger, opts *projectOptions) *cobra.Command {
	cmd := &InfoCommand{fs: fs, logger: logger, opts: opts}

	cobraCmd := &cobra.Command{
		Use:   "info",
		Short: "Show the derived project properties",
		Example: `  # Show project properties
  buildkit info

  # Output JSON for scripting
  buildkit info --format json`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.format, "format", formatText, "Output format: text or json")

	return cobraCmd
}

// Run executes the info command
func (c *InfoCommand) Run(cmd *cobra.Command, args []string) error {
	if err := validateFormat(c.format); err != nil {
		return err
	}

	loaded, err := c.opts.load(c.fs, c.logger)
	if err != nil {
		return err
	}

	info, err := newProjectInfo(loaded.Project)
	if err != nil {
		return err
	}

	if c.format == formatJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	return writeInfoText(cmd.OutOrStdout(), info)
}

func newProjectInfo(p *project.Project) (ProjectInfo, error) {
	info := ProjectInfo{
		Name:             p.Name(),
		UnscopedName:     p.UnscopedName(),
		Version:          p.Version(),
		Description:      p.Description(),
		ProjectType:      p.ProjectType().String(),
		Language:         p.Language().String(),
		HasTypescript:    p.HasTypescript(),
		HasServer:        p.HasServer(),
		HasDocker:        p.HasDocker(),
		HasPrivateNpm:    p.HasPrivateNpm(),
		HasExportedTypes: p.HasExportedTypes(),
		ExportedTypes:    p.ExportedTypes(),
		DockerRepo:       p.DockerRepo(),
		PrivateNpmParams: p.PrivateNpmParams(),
		ConfigFileName:   p.ConfigFileName(),
		JSRootDir:        p.JSRootDir().Path(),
	}

	if p.ProjectType() == project.ProjectTypeAwsMicroservice {
		aws := &AwsInfo{Region: p.AwsRegion(), Profile: p.AwsProfile(), Stacks: []StackInfo{}}
		for _, key := range p.CdkStacks() {
			name, err := p.CdkStackName(key)
			if err != nil {
				return ProjectInfo{}, err
			}
			aws.Stacks = append(aws.Stacks, StackInfo{Key: key, Name: name})
		}
		info.Aws = aws
	}

	return info, nil
}

func writeInfoText(w io.Writer, info ProjectInfo) error {
	var b strings.Builder

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%-16s %s\n", label+":", value)
	}
	flag := func(label string, value bool) {
		row(label, fmt.Sprintf("%t", value))
	}

	row("Name", info.Name)
	row("Unscoped name", info.UnscopedName)
	row("Version", info.Version)
	row("Description", info.Description)
	row("Project type", info.ProjectType)
	row("Language", info.Language)
	flag("Typescript", info.HasTypescript)
	flag("Server", info.HasServer)
	flag("Docker", info.HasDocker)
	row("Docker repo", info.DockerRepo)
	flag("Private npm", info.HasPrivateNpm)
	row("Npm params", strings.Join(info.PrivateNpmParams, ", "))
	row("Exported types", info.ExportedTypes)
	row("Config file", info.ConfigFileName)
	row("JS root", info.JSRootDir)

	if info.Aws != nil {
		row("AWS region", info.Aws.Region)
		row("AWS profile", info.Aws.Profile)
		for _, stack := range info.Aws.Stacks {
			row("Stack "+stack.Key, stack.Name)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
