package tasks

import (
	"fmt"

	"github.com/jakoblorz/go-buildkit/internal/project"
)

// Factory returns the builders that make up the pipeline of a project,
// selected by its project type.
func Factory(p *project.Project) ([]Builder, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil project", ErrInvalidProject)
	}

	builders := []Builder{Clean(), Format(), Lint()}
	if p.HasTypescript() {
		builders = append(builders, Build(), DocsTS())
	} else {
		builders = append(builders, DocsJS())
	}
	if p.HasExportedTypes() {
		builders = append(builders, BuildTypes())
	}
	builders = append(builders, TestUnit())

	switch p.ProjectType() {
	case project.ProjectTypeLib:
		builders = append(builders, PackageNpm(), PublishNpm())
	case project.ProjectTypeCLI:
		builders = append(builders, packaging(p)...)
	case project.ProjectTypeAPI:
		builders = append(builders, TestAPI())
		builders = append(builders, packaging(p)...)
	case project.ProjectTypeAwsMicroservice:
		builders = append(builders, PackageCdk())
		for _, key := range p.CdkStacks() {
			builders = append(builders, DeployCdk(key))
		}
	default:
		return nil, fmt.Errorf("unrecognized project type (value=%s)", p.ProjectType())
	}

	return builders, nil
}

func packaging(p *project.Project) []Builder {
	if p.HasDocker() {
		return []Builder{PackageDocker(), PublishDocker()}
	}
	return []Builder{PackageNpm(), PublishNpm()}
}

// Plan builds every task of the project's pipeline in order.
func Plan(p *project.Project) ([]Task, error) {
	builders, err := Factory(p)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(builders))
	plan := make([]Task, 0, len(builders))
	for _, builder := range builders {
		if _, exists := seen[builder.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTask, builder.Name())
		}
		seen[builder.Name()] = struct{}{}

		task, err := builder.Build(p)
		if err != nil {
			return nil, err
		}
		plan = append(plan, task)
	}

	return plan, nil
}
