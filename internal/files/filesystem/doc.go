// Package filesystem abstracts the read-only directory walk the job runs over the
// source root, so discovery and parsing can be tested against an in-memory tree.
//
// Key interfaces:
//   - FileSystemProvider: opens directories and streams file contents
//   - Directory: a directory that can be traversed recursively
//   - File: one walked entry with its metadata
//
// Implementations:
//   - OSFileSystem: production implementation using the OS filesystem
//   - MemoryFileSystem: in-memory implementation for testing
//
// Both implementations visit entries in lexical order within each directory.
package filesystem
