package tasks

import (
	"path/filepath"
	"testing"

	"github.com/jakoblorz/go-buildkit/internal/project"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T, projectType, language string, configure func(*project.BuildMetadata)) *project.Project {
	t.Helper()

	cfg := &project.PackageConfig{
		Name:    "@acme/widget",
		Version: "1.2.3",
		BuildMetadata: project.BuildMetadata{
			ProjectType: projectType,
			Language:    language,
		},
	}
	if configure != nil {
		configure(&cfg.BuildMetadata)
	}

	p, err := project.New(cfg, nil)
	require.NoError(t, err)
	return p
}

func taskNames(plan []Task) []string {
	names := make([]string, len(plan))
	for i, task := range plan {
		names[i] = task.Name
	}
	return names
}

func findTask(t *testing.T, plan []Task, name string) Task {
	t.Helper()
	for _, task := range plan {
		if task.Name == name {
			return task
		}
	}
	t.Fatalf("task %s not found in %v", name, taskNames(plan))
	return Task{}
}

func TestNewBuilder_Validation(t *testing.T) {
	noop := func(*project.Project, *Task) error { return nil }

	_, err := NewBuilder("", "desc", false, noop)
	require.ErrorIs(t, err, ErrInvalidBuilder)

	_, err = NewBuilder("name", "", false, noop)
	require.ErrorIs(t, err, ErrInvalidBuilder)

	_, err = NewBuilder("name", "desc", false, nil)
	require.ErrorIs(t, err, ErrInvalidBuilder)

	b, err := NewBuilder("name", "desc", false, noop)
	require.NoError(t, err)
	_, err = b.Build(nil)
	require.ErrorIs(t, err, ErrInvalidProject)
}

func TestPlan_Library(t *testing.T) {
	p := newProject(t, "lib", "js", func(m *project.BuildMetadata) {
		m.PrivateNpm = &project.PrivateNpmConfig{Params: []string{"NPM_TOKEN"}}
	})

	plan, err := Plan(p)
	require.NoError(t, err)
	require.Equal(t, []string{"clean", "format", "lint", "docs-js", "test-unit", "package-npm", "publish-npm"}, taskNames(plan))

	pkg := findTask(t, plan, "package-npm")
	require.Equal(t, []string{"NPM_TOKEN"}, pkg.RequiresEnv)
	require.Equal(t, []string{"dist"}, pkg.Targets)
}

func TestPlan_TypescriptApiWithDocker(t *testing.T) {
	p := newProject(t, "api", "ts", func(m *project.BuildMetadata) {
		m.Docker = &project.DockerConfig{Registry: "registry.example.com"}
	})

	plan, err := Plan(p)
	require.NoError(t, err)
	require.Equal(t, []string{
		"clean", "format", "lint", "build", "docs-ts", "test-unit", "test-api", "package-docker", "publish-docker",
	}, taskNames(plan))

	docker := findTask(t, plan, "package-docker")
	require.Equal(t, "registry.example.com/widget", docker.Args["repo"])
	require.Equal(t, "1.2.3", docker.Args["tag"])

	api := findTask(t, plan, "test-api")
	require.Equal(t, []string{filepath.Join("working", "test", "api", "**", "*.js")}, api.Sources)
}

func TestPlan_CliWithoutDockerPackagesNpm(t *testing.T) {
	p := newProject(t, "cli", "js", nil)

	plan, err := Plan(p)
	require.NoError(t, err)
	require.Contains(t, taskNames(plan), "package-npm")
	require.NotContains(t, taskNames(plan), "package-docker")
	require.NotContains(t, taskNames(plan), "test-api")
}

func TestPlan_AwsMicroservice(t *testing.T) {
	p := newProject(t, "aws-microservice", "ts", func(m *project.BuildMetadata) {
		m.Aws = &project.AwsConfig{
			Region:  "us-east-1",
			Profile: "dev",
			Stacks:  map[string]string{"api": "ApiStack", "web": "WebStack"},
		}
	})

	plan, err := Plan(p)
	require.NoError(t, err)
	require.Equal(t, []string{
		"clean", "format", "lint", "build", "docs-ts", "test-unit", "package-cdk", "deploy-api", "deploy-web",
	}, taskNames(plan))

	deploy := findTask(t, plan, "deploy-web")
	require.Equal(t, map[string]string{"stack": "WebStack", "region": "us-east-1", "profile": "dev"}, deploy.Args)
	require.Equal(t, []string{filepath.Join("cdk.out", "**", "*")}, deploy.Sources)

	clean := findTask(t, plan, "clean")
	require.Contains(t, clean.Targets, filepath.Join("cdk.out", "**", "*"))

	lint := findTask(t, plan, "lint")
	require.Contains(t, lint.Sources, filepath.Join("infra", "**", "*.ts"))
}

func TestPlan_ExportedTypes(t *testing.T) {
	p := newProject(t, "lib", "ts", func(m *project.BuildMetadata) {
		m.ExportedTypes = "src/types"
	})

	plan, err := Plan(p)
	require.NoError(t, err)

	types := findTask(t, plan, "build-types")
	require.Equal(t, []string{filepath.Join("src", "types", "**", "*.d.ts")}, types.Sources)
	require.Equal(t, []string{filepath.Join("working", "src", "types")}, types.Targets)
}

func TestClean_SkipsUndeclaredDirectories(t *testing.T) {
	p := newProject(t, "lib", "js", nil)

	task, err := Clean().Build(p)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join("coverage", "**", "*"),
		filepath.Join("dist", "**", "*"),
		filepath.Join("working", "**", "*"),
		filepath.Join(".tscache", "**", "*"),
	}, task.Targets)
	require.Empty(t, task.Watch)
}

func TestDocsJS(t *testing.T) {
	p := newProject(t, "lib", "js", nil)

	task, err := DocsJS().Build(p)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join("src", "**", "*.js")}, task.Sources)
	require.Equal(t, []string{filepath.Join("docs", "@acme", "widget", "1.2.3")}, task.Targets)
	require.Equal(t, "README.md", task.Args["readme"])
	require.Equal(t, filepath.Join("node_modules", "docdash"), task.Args["template"])
}

func TestDefaultWatchPaths(t *testing.T) {
	lib := newProject(t, "lib", "js", nil)
	paths := DefaultWatchPaths(lib)
	require.Len(t, paths, 14)
	require.Contains(t, paths, filepath.Join("test", "**", "*.tsx"))

	aws := newProject(t, "aws-microservice", "js", func(m *project.BuildMetadata) {
		m.Aws = &project.AwsConfig{Stacks: map[string]string{}}
	})
	paths = DefaultWatchPaths(aws)
	require.Len(t, paths, 21)
	require.Contains(t, paths, filepath.Join("infra", "**", "*.md"))
}

func TestBuilders_RejectUnsupportedProjects(t *testing.T) {
	lib := newProject(t, "lib", "js", nil)

	for _, builder := range []Builder{Build(), BuildTypes(), TestAPI(), PackageDocker(), PublishDocker(), PackageCdk(), DeployCdk("api")} {
		_, err := builder.Build(lib)
		require.Error(t, err, builder.Name())
	}
}

func TestDeployCdk_UnknownKey(t *testing.T) {
	p := newProject(t, "aws-microservice", "js", func(m *project.BuildMetadata) {
		m.Aws = &project.AwsConfig{Stacks: map[string]string{"api": "ApiStack"}}
	})

	_, err := DeployCdk("web").Build(p)
	require.ErrorIs(t, err, project.ErrUnknownStackKey)
}
