package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jakoblorz/go-buildkit/internal/filesystem"
	"github.com/jakoblorz/go-buildkit/internal/tasks"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const taskListTemplate = `{{ range . -}}
{{ .Name }} - {{ .Description }}
{{- if .Sources }}
  sources: {{ join ", " .Sources }}{{ end }}
{{- if .Targets }}
  targets: {{ join ", " .Targets }}{{ end }}
{{- if .RequiresEnv }}
  env:     {{ join ", " .RequiresEnv }}{{ end }}
{{- if .Args }}
  args:    {{ join ", " .Args }}{{ end }}
{{- if .Watch }}
  watch:   {{ len .Watch }} pattern(s){{ end }}
{{ end -}}
`

var taskList = template.Must(template.New("tasks").Funcs(sprig.TxtFuncMap()).Parse(taskListTemplate))

// TasksCommand handles the tasks command
type TasksCommand struct {
	fs     filesystem.FileSystem
	logger *zap.Logger
	opts   *projectOptions
	format string
}

// taskView flattens a task for text rendering.
type taskView struct {
	tasks.Task
	Args []string
}

// NewTasksCommand creates a new tasks command
func NewTasksCommand(fs filesystem.FileSystem, logger *zap.Logger, opts *projectOptions) *cobra.Command {
	cmd := &TasksCommand{fs: fs, logger: logger, opts: opts}

	cobraCmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the build, test and deploy tasks for the project",
		Long: `Derives the task pipeline from the project type.

Each task lists the paths it reads (sources) and writes (targets), the
environment variables it needs and the patterns that re-trigger it.
Nothing is executed.`,
		Example: `  # List tasks
  buildkit tasks

  # Plan an aws deployment with a different override
  buildkit tasks --override deploy/prod.yaml --format json`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.format, "format", formatText, "Output format: text or json")

	return cobraCmd
}

// Run executes the tasks command
func (c *TasksCommand) Run(cmd *cobra.Command, args []string) error {
	if err := validateFormat(c.format); err != nil {
		return err
	}

	loaded, err := c.opts.load(c.fs, c.logger)
	if err != nil {
		return err
	}

	plan, err := tasks.Plan(loaded.Project)
	if err != nil {
		return fmt.Errorf("failed to plan tasks: %w", err)
	}
	c.logger.Debug("planned tasks", zap.Int("count", len(plan)))

	if c.format == formatJSON {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	return writeTasksText(cmd.OutOrStdout(), plan)
}

func writeTasksText(w io.Writer, plan []tasks.Task) error {
	views := make([]taskView, 0, len(plan))
	for _, task := range plan {
		view := taskView{Task: task}
		for key, value := range task.Args {
			view.Args = append(view.Args, key+"="+value)
		}
		sort.Strings(view.Args)
		views = append(views, view)
	}

	if err := taskList.Execute(w, views); err != nil {
		return fmt.Errorf("failed to render tasks: %w", err)
	}
	return nil
}
