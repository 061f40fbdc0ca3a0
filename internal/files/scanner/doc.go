// Package scanner discovers source files under a root directory and partitions
// them into load chunks.
//
// Discovery is filesystem-agnostic through filesystem.FileSystemProvider, so the
// same code runs against the OS and against in-memory trees in tests.
package scanner
