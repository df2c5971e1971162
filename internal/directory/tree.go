// Package directory models a project's canonical folder layout as an
// immutable tree of named directories.
//
// Nodes live in a flat arena owned by the Tree; parent and child links are
// indices into that arena, so a Directory handle never owns its parent.
package directory

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

const noParent = -1

type node struct {
	name     string
	path     string
	parent   int
	children map[string]int
	names    []string // sorted child names
}

// Tree is a directory hierarchy built once from a Shape.
//
// It is safe for concurrent read access.
type Tree struct {
	nodes []node
}

// Directory is a read-only handle to a node of a Tree.
type Directory struct {
	tree  *Tree
	index int
}

// NewTree builds a tree rooted at rootPath. Every shape entry becomes a child
// of its containing entry, depth first.
func NewTree(rootPath string, shape Shape) (*Tree, error) {
	root := filepath.Clean(rootPath)
	t := &Tree{
		nodes: []node{{
			name:     filepath.Base(root),
			path:     root,
			parent:   noParent,
			children: map[string]int{},
		}},
	}

	if err := t.add(0, shape); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Tree) add(parent int, shape Shape) error {
	for _, entry := range shape {
		if err := validateName(entry.Name); err != nil {
			return fmt.Errorf("%w: %s under %s", ErrInvalidShape, err.Error(), t.nodes[parent].path)
		}
		if _, exists := t.nodes[parent].children[entry.Name]; exists {
			return fmt.Errorf("%w: duplicate directory %q under %s", ErrInvalidShape, entry.Name, t.nodes[parent].path)
		}

		index := len(t.nodes)
		t.nodes = append(t.nodes, node{
			name:     entry.Name,
			path:     filepath.Join(t.nodes[parent].path, entry.Name),
			parent:   parent,
			children: map[string]int{},
		})
		t.nodes[parent].children[entry.Name] = index
		t.nodes[parent].names = append(t.nodes[parent].names, entry.Name)

		if err := t.add(index, entry.Children); err != nil {
			return err
		}
	}

	sort.Strings(t.nodes[parent].names)
	return nil
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("empty directory name")
	case name == "." || name == "..":
		return fmt.Errorf("directory name %q is not a path segment", name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("directory name %q contains a path separator", name)
	}
	return nil
}

// Root returns the root directory of the tree.
func (t *Tree) Root() Directory {
	return Directory{tree: t, index: 0}
}

// Len returns the number of directories in the tree, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (d Directory) node() *node {
	return &d.tree.nodes[d.index]
}

// Name returns the path segment of the directory.
func (d Directory) Name() string {
	return d.node().name
}

// Path returns the directory path: the root path joined with every ancestor name.
func (d Directory) Path() string {
	return d.node().path
}

// GlobPath returns a glob matching everything below the directory.
func (d Directory) GlobPath() string {
	return filepath.Join(d.Path(), "**", "*")
}

// FilePath joins a file name onto the directory path. The file does not need
// to be part of the tree.
func (d Directory) FilePath(fileName string) string {
	return filepath.Join(d.Path(), fileName)
}

// AllFilesGlob returns a recursive glob matching every file with the given
// extension below the directory.
func (d Directory) AllFilesGlob(extension string) string {
	return filepath.Join(d.Path(), "**", "*."+strings.TrimPrefix(extension, "."))
}

// IsRoot reports whether the directory is the tree root.
func (d Directory) IsRoot() bool {
	return d.node().parent == noParent
}

// Parent returns the owning directory; ok is false for the root.
func (d Directory) Parent() (Directory, bool) {
	parent := d.node().parent
	if parent == noParent {
		return Directory{}, false
	}
	return Directory{tree: d.tree, index: parent}, true
}

// HasChild reports whether name was declared under this directory.
func (d Directory) HasChild(name string) bool {
	_, ok := d.node().children[name]
	return ok
}

// Child returns the directory declared under name.
func (d Directory) Child(name string) (Directory, error) {
	index, ok := d.node().children[name]
	if !ok {
		return Directory{}, fmt.Errorf("%w: %q in %s", ErrUnknownChild, name, d.Path())
	}
	return Directory{tree: d.tree, index: index}, nil
}

// MustChild is like Child but panics when name was not declared. Use it only
// for directories the layout is known to contain.
func (d Directory) MustChild(name string) Directory {
	child, err := d.Child(name)
	if err != nil {
		panic(err)
	}
	return child
}

// Descend follows Child through each name in turn.
func (d Directory) Descend(names ...string) (Directory, error) {
	current := d
	for _, name := range names {
		next, err := current.Child(name)
		if err != nil {
			return Directory{}, err
		}
		current = next
	}
	return current, nil
}

// Children returns the direct children sorted by name.
func (d Directory) Children() []Directory {
	n := d.node()
	children := make([]Directory, 0, len(n.names))
	for _, name := range n.names {
		children = append(children, Directory{tree: d.tree, index: n.children[name]})
	}
	return children
}

// Walk visits the directory and all descendants depth first, children in name order.
func (d Directory) Walk(fn func(dir Directory, depth int) error) error {
	return d.walk(fn, 0)
}

func (d Directory) walk(fn func(dir Directory, depth int) error, depth int) error {
	if err := fn(d, depth); err != nil {
		return err
	}
	for _, child := range d.Children() {
		if err := child.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}
