// Package tasks describes the build, test and deploy steps a project needs.
//
// A Task is a plan: the paths a step reads, writes and watches, and the
// environment it depends on. Running the step is left to the build runner.
package tasks

import (
	"errors"
	"fmt"

	"github.com/jakoblorz/go-buildkit/internal/project"
)

var (
	ErrInvalidBuilder = errors.New("invalid task builder")
	ErrInvalidProject = errors.New("invalid project")
	ErrDuplicateTask  = errors.New("duplicate task name")
)

// Task is the plan for a single named build step.
type Task struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Sources     []string          `json:"sources,omitempty"`
	Targets     []string          `json:"targets,omitempty"`
	Watch       []string          `json:"watch,omitempty"`
	RequiresEnv []string          `json:"requiresEnv,omitempty"`
	Args        map[string]string `json:"args,omitempty"`
}

// Builder produces the Task for a project.
type Builder interface {
	Name() string
	Description() string
	Build(p *project.Project) (Task, error)
}

// BuildFunc fills in a task whose name, description and watch paths are
// already set.
type BuildFunc func(p *project.Project, task *Task) error

type funcBuilder struct {
	name        string
	description string
	watch       bool
	build       BuildFunc
}

// NewBuilder creates a Builder from a BuildFunc. When watch is set the task
// watches the default source globs.
func NewBuilder(name, description string, watch bool, build BuildFunc) (Builder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidBuilder)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required for %s", ErrInvalidBuilder, name)
	}
	if build == nil {
		return nil, fmt.Errorf("%w: build func is required for %s", ErrInvalidBuilder, name)
	}
	return &funcBuilder{name: name, description: description, watch: watch, build: build}, nil
}

func mustBuilder(name, description string, watch bool, build BuildFunc) Builder {
	b, err := NewBuilder(name, description, watch, build)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *funcBuilder) Name() string        { return b.name }
func (b *funcBuilder) Description() string { return b.description }

func (b *funcBuilder) Build(p *project.Project) (Task, error) {
	if p == nil {
		return Task{}, fmt.Errorf("%w: nil project for task %s", ErrInvalidProject, b.name)
	}

	task := Task{Name: b.name, Description: b.description}
	if b.watch {
		task.Watch = DefaultWatchPaths(p)
	}
	if err := b.build(p, &task); err != nil {
		return Task{}, fmt.Errorf("failed to build task %s: %w", b.name, err)
	}
	return task, nil
}

var (
	watchDirs       = []string{project.DirSrc, project.DirTest, project.DirInfra}
	watchExtensions = []string{"md", "html", "json", "js", "jsx", "ts", "tsx"}
)

// DefaultWatchPaths returns globs for every source file type in the source,
// test and infra directories the project declares.
func DefaultWatchPaths(p *project.Project) []string {
	root := p.RootDir()
	var paths []string
	for _, name := range watchDirs {
		dir, err := root.Child(name)
		if err != nil {
			continue
		}
		for _, ext := range watchExtensions {
			paths = append(paths, dir.AllFilesGlob(ext))
		}
	}
	return paths
}
