package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// File is one entry met while walking a source tree.
type File interface {
	// Path returns the absolute path of the entry
	Path() string

	// RelativePath returns the slash-separated path relative to the walked root
	RelativePath() string

	// Info returns entry metadata without following symlinks
	Info() FileInfo
}

// Directory is the root of a source tree.
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk traverses the directory tree depth-first in lexical order, calling fn
	// for each file and directory, the root included. If fn returns an error,
	// walking stops. A panic in fn is returned as an error.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider opens source trees for discovery and files for parsing.
type FileSystemProvider interface {
	// Open opens the directory at path
	Open(path string) (Directory, error)

	// OpenFile opens the file at path for streaming reads
	OpenFile(path string) (io.ReadCloser, error)
}
