package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jakoblorz/go-buildkit/internal/config"
	"github.com/jakoblorz/go-buildkit/internal/filesystem"
	"github.com/jakoblorz/go-buildkit/internal/project"
	"github.com/jakoblorz/go-buildkit/internal/tasks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const libPackageJSON = `{
  "name": "@acme/string-utils",
  "version": "2.1.0",
  "description": "String helpers",
  "buildMetadata": {"projectType": "lib", "language": "js"}
}`

const awsPackageJSON = `{
  "name": "@acme/orders",
  "version": "0.3.0",
  "buildMetadata": {
    "projectType": "aws-microservice",
    "language": "ts",
    "privateNpm": {"params": ["NPM_TOKEN", "NPM_SCOPE"]},
    "aws": {
      "region": "eu-west-1",
      "profile": "deploy",
      "stacks": {"web": "orders-web", "api": "orders-api"}
    }
  }
}`

func newMockWorkspace(packageJSON string) *filesystem.MockFileSystem {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/workspace/package.json", []byte(packageJSON))
	return fs
}

func runRoot(t *testing.T, fs filesystem.FileSystem, settings config.Settings, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(fs, zap.NewNop(), settings)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestInfoCommand_Text(t *testing.T) {
	fs := newMockWorkspace(libPackageJSON)

	out, err := runRoot(t, fs, config.Settings{}, "info")
	require.NoError(t, err)

	require.Contains(t, out, "Name:            @acme/string-utils\n")
	require.Contains(t, out, "Unscoped name:   string-utils\n")
	require.Contains(t, out, "Project type:    lib\n")
	require.Contains(t, out, "Docker repo:     -\n")
	require.Contains(t, out, "Config file:     .stringUtilsrc\n")
	require.Contains(t, out, "JS root:         .\n")
	require.NotContains(t, out, "AWS region")
}

func TestInfoCommand_JSONWithAws(t *testing.T) {
	fs := newMockWorkspace(awsPackageJSON)

	out, err := runRoot(t, fs, config.Settings{}, "info", "--format", "json")
	require.NoError(t, err)

	var info ProjectInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))

	require.Equal(t, "orders", info.UnscopedName)
	require.Equal(t, "aws-microservice", info.ProjectType)
	require.True(t, info.HasTypescript)
	require.Equal(t, "working", info.JSRootDir)
	require.Equal(t, []string{"NPM_TOKEN", "NPM_SCOPE"}, info.PrivateNpmParams)
	require.NotNil(t, info.Aws)
	require.Equal(t, "eu-west-1", info.Aws.Region)
	require.Equal(t, []StackInfo{
		{Key: "api", Name: "orders-api"},
		{Key: "web", Name: "orders-web"},
	}, info.Aws.Stacks)
}

func TestInfoCommand_RejectsUnknownFormat(t *testing.T) {
	fs := newMockWorkspace(libPackageJSON)

	_, err := runRoot(t, fs, config.Settings{}, "info", "--format", "xml")
	require.ErrorContains(t, err, `unknown format "xml"`)
}

func TestInfoCommand_InvalidMetadata(t *testing.T) {
	fs := newMockWorkspace(`{"name": "broken", "version": "1.0.0", "buildMetadata": {"projectType": "website", "language": "js"}}`)

	_, err := runRoot(t, fs, config.Settings{}, "info")
	require.ErrorIs(t, err, project.ErrInvalidProjectType)
}

func TestOverrideFlag_DefaultsFromSettings(t *testing.T) {
	fs := newMockWorkspace(libPackageJSON)
	fs.AddFile("/workspace/buildkit.override.yaml", []byte("projectType: api\nlanguage: ts\n"))

	out, err := runRoot(t, fs, config.Settings{Override: "buildkit.override.yaml"}, "info", "--format", "json")
	require.NoError(t, err)

	var info ProjectInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, "api", info.ProjectType)
	require.True(t, info.HasServer)
}

func TestTreeCommand_Text(t *testing.T) {
	fs := newMockWorkspace(libPackageJSON)

	out, err := runRoot(t, fs, config.Settings{}, "tree")
	require.NoError(t, err)

	expected := `.
├── .gulp
├── .tscache
├── coverage
├── dist
├── docs
├── logs
├── node_modules
├── src
├── test
│   ├── api
│   └── unit
└── working
    ├── node_modules
    ├── src
    └── test
        ├── api
        └── unit
`
	require.Equal(t, expected, out)
}

func TestTreeCommand_MarksIgnoredDirectories(t *testing.T) {
	fs := newMockWorkspace(libPackageJSON)
	fs.AddFile("/workspace/.gitignore", []byte("coverage/\ndist/\n"))

	out, err := runRoot(t, fs, config.Settings{}, "tree")
	require.NoError(t, err)

	require.Contains(t, out, "├── coverage (ignored)\n")
	require.Contains(t, out, "├── dist (ignored)\n")
	require.Contains(t, out, "├── src\n")
}

func TestTreeCommand_JSON(t *testing.T) {
	fs := newMockWorkspace(awsPackageJSON)

	out, err := runRoot(t, fs, config.Settings{}, "tree", "--format", "json")
	require.NoError(t, err)

	var root TreeNode
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	require.Equal(t, ".", root.Path)

	names := make([]string, 0, len(root.Children))
	for _, child := range root.Children {
		names = append(names, child.Name)
	}
	require.Contains(t, names, "infra")
	require.Contains(t, names, "cdk.out")
}

func TestTasksCommand_JSON(t *testing.T) {
	fs := newMockWorkspace(awsPackageJSON)

	out, err := runRoot(t, fs, config.Settings{}, "tasks", "--format", "json")
	require.NoError(t, err)

	var plan []tasks.Task
	require.NoError(t, json.Unmarshal([]byte(out), &plan))

	names := make([]string, 0, len(plan))
	for _, task := range plan {
		names = append(names, task.Name)
	}
	require.Contains(t, names, "package-cdk")
	require.Contains(t, names, "deploy-api")
	require.Contains(t, names, "deploy-web")
}

func TestTasksCommand_Text(t *testing.T) {
	fs := newMockWorkspace(libPackageJSON)

	out, err := runRoot(t, fs, config.Settings{}, "tasks")
	require.NoError(t, err)

	snaps.MatchSnapshot(t, out)
}

func TestWriteTasksText_SortsArgs(t *testing.T) {
	var buf bytes.Buffer
	err := writeTasksText(&buf, []tasks.Task{
		{
			Name:        "publish-docker",
			Description: "Push the docker image",
			Args:        map[string]string{"tag": "1.0.0", "repo": "registry/app"},
			RequiresEnv: []string{"NPM_TOKEN"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, `publish-docker - Push the docker image
  env:     NPM_TOKEN
  args:    repo=registry/app, tag=1.0.0
`, buf.String())
}

func checkEnvCommand(fs filesystem.FileSystem, env project.Environment, args ...string) (string, error) {
	cmd := newCheckEnvCommand(fs, zap.NewNop(), &projectOptions{}, "", env)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCheckEnvCommand_NoPrivateNpm(t *testing.T) {
	fs := newMockWorkspace(libPackageJSON)

	out, err := checkEnvCommand(fs, project.MapEnvironment{})
	require.NoError(t, err)
	require.Equal(t, "No private npm parameters required\n", out)
}

func TestCheckEnvCommand_AllSet(t *testing.T) {
	fs := newMockWorkspace(awsPackageJSON)

	out, err := checkEnvCommand(fs, project.MapEnvironment{"NPM_TOKEN": "secret", "NPM_SCOPE": "@acme"})
	require.NoError(t, err)
	require.Equal(t, "All 2 private npm parameter(s) are set\n", out)
}

func TestCheckEnvCommand_MissingParam(t *testing.T) {
	fs := newMockWorkspace(awsPackageJSON)

	_, err := checkEnvCommand(fs, project.MapEnvironment{"NPM_TOKEN": "secret", "NPM_SCOPE": ""})
	require.ErrorIs(t, err, project.ErrMissingEnvironmentParam)

	var projectErr *project.Error
	require.ErrorAs(t, err, &projectErr)
	require.Equal(t, "NPM_SCOPE", projectErr.Field)
}

func TestCheckEnvCommand_EnvFileFillsGaps(t *testing.T) {
	fs := newMockWorkspace(awsPackageJSON)
	fs.AddFile("/workspace/.env", []byte("# local secrets\nNPM_SCOPE=@acme\nNPM_TOKEN=from-file\n"))

	out, err := checkEnvCommand(fs, project.MapEnvironment{"NPM_TOKEN": "secret"}, "--env-file", ".env")
	require.NoError(t, err)
	require.Equal(t, "All 2 private npm parameter(s) are set\n", out)
}

func TestCheckEnvCommand_MissingEnvFile(t *testing.T) {
	fs := newMockWorkspace(awsPackageJSON)

	_, err := checkEnvCommand(fs, project.MapEnvironment{}, "--env-file", "missing.env")
	require.ErrorContains(t, err, "failed to read env file")
}
