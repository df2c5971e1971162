package filesystem

import (
	"io/fs"
)

// FileSystem is the read-only view of the disk used to locate and load
// project descriptors.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) bool
	Getwd() (string, error)
}
