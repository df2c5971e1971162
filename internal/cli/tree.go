package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jakoblorz/go-buildkit/internal/config"
	"github.com/jakoblorz/go-buildkit/internal/directory"
	"github.com/jakoblorz/go-buildkit/internal/filesystem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// TreeCommand handles the tree command
type TreeCommand struct {
	fs     filesystem.FileSystem
	logger *zap.Logger
	opts   *projectOptions
	format string
}

// TreeNode is the JSON representation of a layout directory.
type TreeNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Ignored  bool        `json:"ignored,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// NewTreeCommand creates a new tree command
func NewTreeCommand(fs filesystem.FileSystem, logger *zap.Logger, opts *projectOptions) *cobra.Command {
	cmd := &TreeCommand{fs: fs, logger: logger, opts: opts}

	cobraCmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the canonical directory layout of the project",
		Long: `Prints the directory layout derived from the project type and language.

Directories matched by the project's .gitignore are marked as ignored.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.format, "format", formatText, "Output format: text or json")

	return cobraCmd
}

// Run executes the tree command
func (c *TreeCommand) Run(cmd *cobra.Command, args []string) error {
	if err := validateFormat(c.format); err != nil {
		return err
	}

	loaded, err := c.opts.load(c.fs, c.logger)
	if err != nil {
		return err
	}

	ignoredPaths, err := config.NewLoader(c.fs, c.logger).IgnoredDirectories(loaded.RootPath, loaded.Project)
	if err != nil {
		return err
	}
	ignored := make(map[string]bool, len(ignoredPaths))
	for _, path := range ignoredPaths {
		ignored[path] = true
	}

	root := buildTreeNode(loaded.Project.RootDir(), ignored)

	if c.format == formatJSON {
		data, err := json.MarshalIndent(root, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	return writeTreeText(cmd.OutOrStdout(), root)
}

func buildTreeNode(dir directory.Directory, ignored map[string]bool) *TreeNode {
	node := &TreeNode{
		Name:    dir.Name(),
		Path:    dir.Path(),
		Ignored: ignored[dir.Path()],
	}
	for _, child := range dir.Children() {
		node.Children = append(node.Children, buildTreeNode(child, ignored))
	}
	return node
}

// writeTreeText renders the layout with box-drawing connectors. The ignored
// marker is dimmed only when w is a terminal.
func writeTreeText(w io.Writer, root *TreeNode) error {
	ignoredStyle := lipgloss.NewRenderer(w).NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(root.Path + "\n")
	writeTreeChildren(&b, root.Children, "", ignoredStyle)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTreeChildren(b *strings.Builder, children []*TreeNode, indent string, ignoredStyle lipgloss.Style) {
	for i, child := range children {
		isLast := i == len(children)-1

		prefix, nextIndent := "├── ", "│   "
		if isLast {
			prefix, nextIndent = "└── ", "    "
		}

		line := indent + prefix + child.Name
		if child.Ignored {
			line += " " + ignoredStyle.Render("(ignored)")
		}
		b.WriteString(line + "\n")

		writeTreeChildren(b, child.Children, indent+nextIndent, ignoredStyle)
	}
}
