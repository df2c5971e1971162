package config

import (
	"bytes"
	"fmt"
	"path/filepath"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/jakoblorz/go-buildkit/internal/directory"
	"github.com/jakoblorz/go-buildkit/internal/project"
)

// IgnoredDirectories lists the layout directories matched by the .gitignore
// at rootPath. Paths are relative to the project root, in walk order.
func (l *Loader) IgnoredDirectories(rootPath string, p *project.Project) ([]string, error) {
	ignorePath := filepath.Join(rootPath, ".gitignore")
	if !l.fs.Exists(ignorePath) {
		return nil, nil
	}

	data, err := l.fs.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}
	ignore := gitignore.New(bytes.NewReader(data), rootPath, nil)

	var ignored []string
	err = p.RootDir().Walk(func(dir directory.Directory, depth int) error {
		if dir.IsRoot() {
			return nil
		}
		if match := ignore.Relative(dir.Path(), true); match != nil && match.Ignore() {
			ignored = append(ignored, dir.Path())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ignored, nil
}
