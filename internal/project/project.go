// Package project turns a package descriptor and its build metadata into the
// validated, read-only Project consumed by task builders.
package project

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/huandu/xstrings"
	"github.com/jakoblorz/go-buildkit/internal/directory"
)

var scopePattern = regexp.MustCompile(`^@[^/]*/`)

// Project is the validated build configuration of a single package.
// It is never modified after New returns and is safe for concurrent use.
type Project struct {
	name         string
	unscopedName string
	version      string
	description  string

	projectType   ProjectType
	language      Language
	exportedTypes string

	hasTypescript    bool
	hasServer        bool
	hasDocker        bool
	hasPrivateNpm    bool
	hasExportedTypes bool

	dockerRepo       string
	privateNpmParams []string

	awsRegion  string
	awsProfile string
	cdkStacks  map[string]string

	tree *directory.Tree
}

// New validates cfg and builds a Project. A non-nil override is merged on top
// of cfg.BuildMetadata field by field; neither input is modified.
func New(cfg *PackageConfig, override *BuildMetadata) (*Project, error) {
	if cfg == nil {
		return nil, newError(ErrInvalidConfig, "packageConfig", "configuration is required")
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, newError(ErrInvalidConfig, "name", "package name is required")
	}

	p := &Project{
		name:         cfg.Name,
		unscopedName: scopePattern.ReplaceAllString(cfg.Name, ""),
		version:      cfg.Version,
		description:  cfg.Description,
	}

	if err := p.initProperties(cfg.BuildMetadata.Merge(override)); err != nil {
		return nil, err
	}

	shape := layoutShape(p.projectType, splitExportedTypes(p.exportedTypes))
	tree, err := directory.NewTree("./", shape)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidConfig, Field: "buildMetadata.exportedTypes", Msg: err.Error()}
	}
	p.tree = tree

	return p, nil
}

func (p *Project) initProperties(metadata BuildMetadata) error {
	projectType, err := ParseProjectType(metadata.ProjectType)
	if err != nil {
		return err
	}
	language, err := ParseLanguage(metadata.Language)
	if err != nil {
		return err
	}

	p.projectType = projectType
	p.language = language
	p.exportedTypes = metadata.ExportedTypes

	p.hasTypescript = language == LanguageTS
	p.hasServer = projectType == ProjectTypeAPI
	p.hasDocker = projectType != ProjectTypeLib && metadata.Docker != nil
	p.hasPrivateNpm = metadata.PrivateNpm != nil
	p.hasExportedTypes = len(splitExportedTypes(metadata.ExportedTypes)) > 0

	if projectType == ProjectTypeAwsMicroservice {
		aws := metadata.Aws
		if aws == nil {
			return newError(ErrMissingAwsConfig, "buildMetadata.aws",
				"the project is an aws microservice, but does not define aws configuration")
		}
		if aws.Stacks == nil {
			return newError(ErrMissingAwsStacks, "buildMetadata.aws.stacks",
				"the project is an aws microservice, but does not define aws stacks")
		}
		p.awsRegion = aws.Region
		p.awsProfile = aws.Profile
		p.cdkStacks = aws.clone().Stacks
	} else {
		p.cdkStacks = map[string]string{}
	}

	if p.hasDocker {
		p.dockerRepo = p.unscopedName
		if metadata.Docker.Registry != "" {
			p.dockerRepo = fmt.Sprintf("%s/%s", metadata.Docker.Registry, p.unscopedName)
		}
	}

	if p.hasPrivateNpm {
		if metadata.PrivateNpm.Params == nil {
			return newError(ErrMissingPrivateNpmParams, "buildMetadata.privateNpm.params",
				"the project uses a private npm repository, but does not define any private npm params")
		}
		p.privateNpmParams = append([]string{}, metadata.PrivateNpm.Params...)
	} else {
		p.privateNpmParams = []string{}
	}

	return nil
}

// Name is the package name as declared, scope included.
func (p *Project) Name() string { return p.name }

// UnscopedName is Name without a leading "@scope/".
func (p *Project) UnscopedName() string { return p.unscopedName }

func (p *Project) Version() string { return p.version }

func (p *Project) Description() string { return p.description }

func (p *Project) ProjectType() ProjectType { return p.projectType }

func (p *Project) Language() Language { return p.language }

// ExportedTypes is the configured path of exported type declarations, if any.
func (p *Project) ExportedTypes() string { return p.exportedTypes }

func (p *Project) HasTypescript() bool { return p.hasTypescript }

// HasServer reports whether the project hosts a server and therefore has API tests.
func (p *Project) HasServer() bool { return p.hasServer }

// HasDocker reports whether the project can be packaged as a container image.
// Libraries never are.
func (p *Project) HasDocker() bool { return p.hasDocker }

func (p *Project) HasPrivateNpm() bool { return p.hasPrivateNpm }

func (p *Project) HasExportedTypes() bool { return p.hasExportedTypes }

// ExportedTypesDirs returns the exported types directory and its counterpart
// in the working tree. ok is false when the project exports no types.
func (p *Project) ExportedTypesDirs() (src, working directory.Directory, ok bool) {
	if !p.hasExportedTypes {
		return directory.Directory{}, directory.Directory{}, false
	}
	segments := splitExportedTypes(p.exportedTypes)
	root := p.tree.Root()

	src, err := root.Descend(segments...)
	if err != nil {
		return directory.Directory{}, directory.Directory{}, false
	}
	working, err = root.Descend(append([]string{DirWorking}, segments...)...)
	if err != nil {
		return directory.Directory{}, directory.Directory{}, false
	}
	return src, working, true
}

// DockerRepo is the image repository path; empty when HasDocker is false.
func (p *Project) DockerRepo() string { return p.dockerRepo }

// AwsRegion is passed through from the aws configuration and may be empty.
func (p *Project) AwsRegion() string { return p.awsRegion }

// AwsProfile is passed through from the aws configuration and may be empty.
func (p *Project) AwsProfile() string { return p.awsProfile }

// RootDir is the root of the project layout.
func (p *Project) RootDir() directory.Directory { return p.tree.Root() }

// JSRootDir holds the javascript files: the transpile output for typescript
// projects, the project root otherwise.
func (p *Project) JSRootDir() directory.Directory {
	if p.hasTypescript {
		return p.tree.Root().MustChild(DirWorking)
	}
	return p.tree.Root()
}

// ConfigFileName is the runtime configuration file the project reads,
// e.g. ".myWidgetrc" for "@acme/my-widget".
func (p *Project) ConfigFileName() string {
	words := strings.FieldsFunc(p.unscopedName, isNameSeparator)
	return "." + lowerFirst(xstrings.ToCamelCase(strings.Join(words, "_"))) + "rc"
}

func isNameSeparator(r rune) bool {
	return r == '.' || r == '_' || r == '-' || r == ' '
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// PrivateNpmParams returns a copy of the environment variables required by a
// private npm registry.
func (p *Project) PrivateNpmParams() []string {
	return append([]string{}, p.privateNpmParams...)
}

// ValidatePrivateNpmParams checks that every private npm parameter is set to a
// non-empty value in env. A nil env reads the process environment.
func (p *Project) ValidatePrivateNpmParams(env Environment) error {
	if env == nil {
		env = OSEnvironment{}
	}
	for _, param := range p.privateNpmParams {
		if value, ok := env.LookupEnv(param); !ok || value == "" {
			return newError(ErrMissingEnvironmentParam, param,
				"required npm parameter %s not found in environment", param)
		}
	}
	return nil
}

// CdkStacks returns the configured stack keys in ascending order.
func (p *Project) CdkStacks() []string {
	keys := make([]string, 0, len(p.cdkStacks))
	for key := range p.cdkStacks {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// CdkStackName returns the deployment name of the stack registered under key.
func (p *Project) CdkStackName(key string) (string, error) {
	if key == "" {
		return "", newError(ErrUnknownStackKey, "key", "stack key must be a non-empty string")
	}
	name, ok := p.cdkStacks[key]
	if !ok {
		return "", newError(ErrUnknownStackKey, "key", "no stack registered under %q", key)
	}
	return name, nil
}
