package project

// PackageConfig is the subset of package.json the build tooling reads.
type PackageConfig struct {
	Name          string        `json:"name" yaml:"name"`
	Version       string        `json:"version" yaml:"version"`
	Description   string        `json:"description" yaml:"description"`
	BuildMetadata BuildMetadata `json:"buildMetadata" yaml:"buildMetadata"`
}

// BuildMetadata controls classification and toolchain behavior.
//
// The optional sections are pointers: a nil section was not supplied, an
// empty one was.
type BuildMetadata struct {
	ProjectType   string            `json:"projectType,omitempty" yaml:"projectType,omitempty"`
	Language      string            `json:"language,omitempty" yaml:"language,omitempty"`
	ExportedTypes string            `json:"exportedTypes,omitempty" yaml:"exportedTypes,omitempty"`
	Docker        *DockerConfig     `json:"docker,omitempty" yaml:"docker,omitempty"`
	PrivateNpm    *PrivateNpmConfig `json:"privateNpm,omitempty" yaml:"privateNpm,omitempty"`
	Aws           *AwsConfig        `json:"aws,omitempty" yaml:"aws,omitempty"`
}

// DockerConfig enables container packaging.
type DockerConfig struct {
	Registry string `json:"registry,omitempty" yaml:"registry,omitempty"`
}

// PrivateNpmConfig lists environment variables needed to reach a private registry.
type PrivateNpmConfig struct {
	Params []string `json:"params" yaml:"params"`
}

// AwsConfig describes where and what an aws-microservice deploys.
type AwsConfig struct {
	Region  string            `json:"region,omitempty" yaml:"region,omitempty"`
	Profile string            `json:"profile,omitempty" yaml:"profile,omitempty"`
	Stacks  map[string]string `json:"stacks" yaml:"stacks"`
}

// Merge overlays override onto the receiver returning the combined metadata.
// Each set field of override replaces the whole field; neither input is modified.
func (m BuildMetadata) Merge(override *BuildMetadata) BuildMetadata {
	result := m.clone()
	if override == nil {
		return result
	}

	if override.ProjectType != "" {
		result.ProjectType = override.ProjectType
	}
	if override.Language != "" {
		result.Language = override.Language
	}
	if override.ExportedTypes != "" {
		result.ExportedTypes = override.ExportedTypes
	}
	if override.Docker != nil {
		result.Docker = override.Docker.clone()
	}
	if override.PrivateNpm != nil {
		result.PrivateNpm = override.PrivateNpm.clone()
	}
	if override.Aws != nil {
		result.Aws = override.Aws.clone()
	}
	return result
}

func (m BuildMetadata) clone() BuildMetadata {
	result := m
	result.Docker = m.Docker.clone()
	result.PrivateNpm = m.PrivateNpm.clone()
	result.Aws = m.Aws.clone()
	return result
}

func (c *DockerConfig) clone() *DockerConfig {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

func (c *PrivateNpmConfig) clone() *PrivateNpmConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Params != nil {
		out.Params = append([]string{}, c.Params...)
	}
	return &out
}

func (c *AwsConfig) clone() *AwsConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Stacks != nil {
		out.Stacks = make(map[string]string, len(c.Stacks))
		for key, name := range c.Stacks {
			out.Stacks[key] = name
		}
	}
	return &out
}
