package scanner

import (
	"fmt"
	"path"
	"strings"

	"github.com/vvka-141/pgcsv/internal/files/filesystem"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Scanner discovers source files in a directory tree.
// Scanner is safe for concurrent use as long as the filesystem provider is.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a scanner over the OS filesystem.
func NewScanner() *Scanner {
	return &Scanner{fsProvider: filesystem.NewOSFileSystem()}
}

// NewScannerWithFS creates a scanner over a custom filesystem provider.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{fsProvider: fsProvider}
}

// Discover walks root recursively and returns every regular file whose extension
// matches ext (case-insensitive, with or without the leading dot). Files are returned
// in walk order: lexical within a directory, subdirectories in place.
// An empty result is not an error.
func (s *Scanner) Discover(root, ext string) ([]pgcsv.SourceFile, error) {
	dir, err := s.fsProvider.Open(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open source directory %s: %w", root, err)
	}

	want := normalizeExtension(ext)
	var found []pgcsv.SourceFile

	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}

		info := file.Info()
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		if !strings.EqualFold(path.Ext(info.Name()), want) {
			return nil
		}

		found = append(found, pgcsv.SourceFile{
			Path:         file.Path(),
			RelativePath: file.RelativePath(),
			SizeBytes:    info.Size(),
			ModifiedAt:   info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// Chunk partitions files into consecutive groups of at most size files, preserving
// order. size <= 0 yields one group with every file. No files yields no groups.
func Chunk(files []pgcsv.SourceFile, size int) [][]pgcsv.SourceFile {
	if len(files) == 0 {
		return nil
	}
	if size <= 0 || size >= len(files) {
		return [][]pgcsv.SourceFile{files}
	}

	chunks := make([][]pgcsv.SourceFile, 0, (len(files)+size-1)/size)
	for start := 0; start < len(files); start += size {
		chunks = append(chunks, files[start:min(start+size, len(files))])
	}
	return chunks
}

func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = pgcsv.DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
