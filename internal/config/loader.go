// Package config locates and decodes project descriptors and the tool's own
// settings.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jakoblorz/go-buildkit/internal/filesystem"
	"github.com/jakoblorz/go-buildkit/internal/project"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// PackageFileName is the descriptor searched for when no path is given.
const PackageFileName = "package.json"

// ErrPackageNotFound is returned when no package.json exists in the search path.
var ErrPackageNotFound = errors.New("package.json not found")

// LoadOptions controls where descriptors are read from. Relative paths are
// resolved against the working directory.
type LoadOptions struct {
	PackageFile  string
	OverrideFile string
}

// Loaded is a constructed project together with where it came from.
type Loaded struct {
	Project     *project.Project
	PackagePath string
	RootPath    string
}

// Loader reads project descriptors from a FileSystem.
type Loader struct {
	fs     filesystem.FileSystem
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(fs filesystem.FileSystem, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fs: fs, logger: logger}
}

// Load reads package.json (searching upwards from the working directory when
// no file is given), applies the optional override file and builds the project.
func (l *Loader) Load(opts LoadOptions) (*Loaded, error) {
	cwd, err := l.fs.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	packagePath := resolvePath(cwd, opts.PackageFile)
	if packagePath == "" {
		found, ok := findFileUp(l.fs, cwd, PackageFileName)
		if !ok {
			return nil, fmt.Errorf("%w (searched from %s)", ErrPackageNotFound, cwd)
		}
		packagePath = found
	}

	cfg, err := l.ReadPackageConfig(packagePath)
	if err != nil {
		return nil, err
	}

	var override *project.BuildMetadata
	if opts.OverrideFile != "" {
		override, err = l.ReadOverride(resolvePath(cwd, opts.OverrideFile))
		if err != nil {
			return nil, err
		}
	}

	p, err := project.New(cfg, override)
	if err != nil {
		return nil, fmt.Errorf("failed to load project from %s: %w", packagePath, err)
	}

	if !semver.IsValid("v" + p.Version()) {
		l.logger.Warn("project version is not a semantic version",
			zap.String("project", p.Name()),
			zap.String("version", p.Version()))
	}

	l.logger.Debug("loaded project",
		zap.String("package", packagePath),
		zap.String("projectType", p.ProjectType().String()),
		zap.String("language", p.Language().String()),
		zap.Bool("override", override != nil))

	return &Loaded{
		Project:     p,
		PackagePath: packagePath,
		RootPath:    filepath.Dir(packagePath),
	}, nil
}

// ReadPackageConfig decodes a package.json file.
func (l *Loader) ReadPackageConfig(path string) (*project.PackageConfig, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg project.PackageConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, packageDecodeError(path, err)
	}

	return &cfg, nil
}

// ReadOverride decodes a build metadata override from a YAML or JSON file.
// Unknown fields are rejected.
func (l *Loader) ReadOverride(path string) (*project.BuildMetadata, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read override %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &project.Error{Kind: project.ErrInvalidConfig, Field: path, Msg: err.Error()}
	}
	if err := checkOverrideShape(&doc); err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var metadata project.BuildMetadata
	if err := decoder.Decode(&metadata); err != nil && !errors.Is(err, io.EOF) {
		return nil, &project.Error{Kind: project.ErrInvalidConfig, Field: path, Msg: err.Error()}
	}

	return &metadata, nil
}

func resolvePath(cwd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}
