package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"
)

// MockFileSystem provides in-memory filesystem for testing
type MockFileSystem struct {
	entries    map[string]*MockEntry
	currentDir string
}

// MockEntry is a file or directory held by the mock filesystem.
type MockEntry struct {
	Content []byte
	ModTime time.Time
	IsDir   bool
}

type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

func (m *mockFileInfo) Mode() fs.FileMode {
	if m.isDir {
		return 0755 | fs.ModeDir
	}
	return 0644
}

// NewMockFileSystem creates a new MockFileSystem rooted at /workspace.
func NewMockFileSystem() *MockFileSystem {
	mfs := &MockFileSystem{
		entries:    make(map[string]*MockEntry),
		currentDir: "/workspace",
	}
	mfs.AddDir(mfs.currentDir)
	return mfs
}

// AddFile adds a file, creating missing parent directories.
func (mfs *MockFileSystem) AddFile(path string, content []byte) {
	cleanPath := filepath.Clean(path)
	mfs.entries[cleanPath] = &MockEntry{
		Content: content,
		ModTime: time.Now(),
	}
	mfs.addParents(cleanPath)
}

// AddDir adds a directory, creating missing parent directories.
func (mfs *MockFileSystem) AddDir(path string) {
	cleanPath := filepath.Clean(path)
	if _, exists := mfs.entries[cleanPath]; !exists {
		mfs.entries[cleanPath] = &MockEntry{
			ModTime: time.Now(),
			IsDir:   true,
		}
	}
	mfs.addParents(cleanPath)
}

func (mfs *MockFileSystem) addParents(cleanPath string) {
	dir := filepath.Dir(cleanPath)
	for dir != "." && dir != "/" && dir != cleanPath {
		if _, exists := mfs.entries[dir]; !exists {
			mfs.entries[dir] = &MockEntry{ModTime: time.Now(), IsDir: true}
		}
		dir = filepath.Dir(dir)
	}
}

// SetCurrentDir sets the directory returned by Getwd.
func (mfs *MockFileSystem) SetCurrentDir(dir string) {
	mfs.currentDir = filepath.Clean(dir)
	mfs.AddDir(mfs.currentDir)
}

func (mfs *MockFileSystem) ReadFile(path string) ([]byte, error) {
	entry, exists := mfs.entries[filepath.Clean(path)]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if entry.IsDir {
		return nil, errors.New("is a directory")
	}
	return entry.Content, nil
}

func (mfs *MockFileSystem) Stat(path string) (fs.FileInfo, error) {
	entry, exists := mfs.entries[filepath.Clean(path)]
	if !exists {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}

	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(entry.Content)),
		modTime: entry.ModTime,
		isDir:   entry.IsDir,
	}, nil
}

func (mfs *MockFileSystem) Exists(path string) bool {
	_, err := mfs.Stat(path)
	return err == nil
}

func (mfs *MockFileSystem) Getwd() (string, error) {
	return mfs.currentDir, nil
}
