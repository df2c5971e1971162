package tasks

import (
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-buildkit/internal/project"
)

func sourceExtension(p *project.Project) string {
	if p.HasTypescript() {
		return "ts"
	}
	return "js"
}

// sourceGlobs returns ext globs for each named directory the project declares.
func sourceGlobs(p *project.Project, ext string, dirs ...string) []string {
	root := p.RootDir()
	var globs []string
	for _, name := range dirs {
		if dir, err := root.Child(name); err == nil {
			globs = append(globs, dir.AllFilesGlob(ext))
		}
	}
	return globs
}

// Clean removes working, distribution and temporary files.
func Clean() Builder {
	return mustBuilder("clean",
		"Cleans out working, distribution and temporary files and directories",
		false,
		func(p *project.Project, task *Task) error {
			root := p.RootDir()
			for _, name := range []string{project.DirCoverage, project.DirDist, project.DirWorking, project.DirTSCache, project.DirCdkOut} {
				if dir, err := root.Child(name); err == nil {
					task.Targets = append(task.Targets, dir.GlobPath())
				}
			}
			return nil
		})
}

// Format rewrites source files with the project formatter.
func Format() Builder {
	return mustBuilder("format",
		"Formats all source files, README.md and build scripts",
		false,
		func(p *project.Project, task *Task) error {
			task.Sources = sourceGlobs(p, sourceExtension(p), project.DirSrc, project.DirTest, project.DirInfra)
			task.Sources = append(task.Sources, p.RootDir().FilePath("README.md"))
			return nil
		})
}

// Lint checks source files.
func Lint() Builder {
	return mustBuilder("lint",
		"Lints source files",
		true,
		func(p *project.Project, task *Task) error {
			task.Sources = sourceGlobs(p, sourceExtension(p), project.DirSrc, project.DirTest, project.DirInfra)
			return nil
		})
}

// Build transpiles typescript into the working directory.
func Build() Builder {
	return mustBuilder("build",
		"Transpiles typescript sources into the working directory",
		true,
		func(p *project.Project, task *Task) error {
			if !p.HasTypescript() {
				return fmt.Errorf("project %s is not a typescript project", p.Name())
			}
			task.Sources = sourceGlobs(p, "ts", project.DirSrc, project.DirTest, project.DirInfra)
			working := p.RootDir().MustChild(project.DirWorking)
			task.Targets = []string{working.GlobPath()}
			return nil
		})
}

// BuildTypes copies exported type declarations into the working tree.
func BuildTypes() Builder {
	return mustBuilder("build-types",
		"Copies exported type declarations into the working directory",
		true,
		func(p *project.Project, task *Task) error {
			if !p.HasExportedTypes() {
				return fmt.Errorf("project %s does not export types", p.Name())
			}
			src, dest, ok := p.ExportedTypesDirs()
			if !ok {
				return fmt.Errorf("exported types directory %s is not part of the layout", p.ExportedTypes())
			}
			task.Sources = []string{src.AllFilesGlob("d.ts")}
			task.Targets = []string{dest.Path()}
			return nil
		})
}

// DocsJS generates documentation from comments in javascript files.
func DocsJS() Builder {
	return mustBuilder("docs-js",
		"Generates documentation from code comments in javascript files",
		false,
		func(p *project.Project, task *Task) error {
			return docs(p, task, "js", filepath.Join(project.DirNodeModules, "docdash"))
		})
}

// DocsTS generates documentation from comments in typescript files.
func DocsTS() Builder {
	return mustBuilder("docs-ts",
		"Generates documentation from code comments in typescript files",
		false,
		func(p *project.Project, task *Task) error {
			return docs(p, task, "ts", "")
		})
}

func docs(p *project.Project, task *Task, ext, template string) error {
	root := p.RootDir()
	docsDir, err := root.Child(project.DirDocs)
	if err != nil {
		return err
	}

	task.Sources = sourceGlobs(p, ext, project.DirSrc)
	task.Targets = []string{docsDir.FilePath(filepath.Join(p.Name(), p.Version()))}
	task.Args = map[string]string{"readme": root.FilePath("README.md")}
	if template != "" {
		task.Args["template"] = template
	}
	return nil
}

// TestUnit runs unit tests against the javascript root.
func TestUnit() Builder {
	return mustBuilder("test-unit",
		"Executes unit tests against source files",
		true,
		func(p *project.Project, task *Task) error {
			return testTask(p, task, project.DirUnit)
		})
}

// TestAPI runs API tests against a running server.
func TestAPI() Builder {
	return mustBuilder("test-api",
		"Executes API tests against a running server",
		true,
		func(p *project.Project, task *Task) error {
			if !p.HasServer() {
				return fmt.Errorf("project %s has no server", p.Name())
			}
			return testTask(p, task, project.DirAPI)
		})
}

func testTask(p *project.Project, task *Task, suite string) error {
	testDir, err := p.JSRootDir().Descend(project.DirTest, suite)
	if err != nil {
		return err
	}
	coverage, err := p.RootDir().Child(project.DirCoverage)
	if err != nil {
		return err
	}
	task.Sources = []string{testDir.AllFilesGlob("js")}
	task.Targets = []string{coverage.Path()}
	return nil
}

// PackageNpm packs the project into the distribution directory.
func PackageNpm() Builder {
	return mustBuilder("package-npm",
		"Creates an npm package in the distribution directory",
		false,
		func(p *project.Project, task *Task) error {
			task.Sources = []string{p.JSRootDir().GlobPath()}
			task.Targets = []string{p.RootDir().MustChild(project.DirDist).Path()}
			task.RequiresEnv = p.PrivateNpmParams()
			return nil
		})
}

// PublishNpm publishes the package built by PackageNpm.
func PublishNpm() Builder {
	return mustBuilder("publish-npm",
		"Publishes the npm package from the distribution directory",
		false,
		func(p *project.Project, task *Task) error {
			task.Sources = []string{p.RootDir().MustChild(project.DirDist).GlobPath()}
			task.RequiresEnv = p.PrivateNpmParams()
			task.Args = map[string]string{"package": p.Name(), "version": p.Version()}
			return nil
		})
}

// PackageDocker builds a container image for the project.
func PackageDocker() Builder {
	return mustBuilder("package-docker",
		"Builds a docker image for the project",
		false,
		func(p *project.Project, task *Task) error {
			if !p.HasDocker() {
				return fmt.Errorf("project %s is not configured for docker", p.Name())
			}
			task.Sources = []string{p.JSRootDir().GlobPath(), p.RootDir().FilePath("Dockerfile")}
			task.RequiresEnv = p.PrivateNpmParams()
			task.Args = map[string]string{"repo": p.DockerRepo(), "tag": p.Version()}
			return nil
		})
}

// PublishDocker pushes the image built by PackageDocker.
func PublishDocker() Builder {
	return mustBuilder("publish-docker",
		"Publishes the docker image to the configured registry",
		false,
		func(p *project.Project, task *Task) error {
			if !p.HasDocker() {
				return fmt.Errorf("project %s is not configured for docker", p.Name())
			}
			task.Args = map[string]string{"repo": p.DockerRepo(), "tag": p.Version()}
			return nil
		})
}

// PackageCdk synthesizes cloud templates into cdk.out.
func PackageCdk() Builder {
	return mustBuilder("package-cdk",
		"Synthesizes cloud deployment templates",
		false,
		func(p *project.Project, task *Task) error {
			out, err := p.RootDir().Child(project.DirCdkOut)
			if err != nil {
				return err
			}
			task.Sources = sourceGlobs(p, sourceExtension(p), project.DirInfra)
			task.Targets = []string{out.Path()}
			task.Args = awsArgs(p)
			return nil
		})
}

// DeployCdk deploys the stack registered under key. The task is named
// "deploy-<key>".
func DeployCdk(key string) Builder {
	return mustBuilder("deploy-"+key,
		fmt.Sprintf("Deploys the %s stack", key),
		false,
		func(p *project.Project, task *Task) error {
			stack, err := p.CdkStackName(key)
			if err != nil {
				return err
			}
			out, err := p.RootDir().Child(project.DirCdkOut)
			if err != nil {
				return err
			}
			task.Sources = []string{out.GlobPath()}
			task.Args = awsArgs(p)
			task.Args["stack"] = stack
			return nil
		})
}

func awsArgs(p *project.Project) map[string]string {
	args := map[string]string{}
	if p.AwsRegion() != "" {
		args["region"] = p.AwsRegion()
	}
	if p.AwsProfile() != "" {
		args["profile"] = p.AwsProfile()
	}
	return args
}
