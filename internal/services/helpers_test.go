package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgcsv/internal/csvread"
	"github.com/vvka-141/pgcsv/internal/files/filesystem"
	"github.com/vvka-141/pgcsv/internal/files/scanner"
	"github.com/vvka-141/pgcsv/internal/logging"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

const exportRoot = "/exports"

func newJob(mode pgcsv.LoadMode, chunkSize int) pgcsv.JobConfig {
	job := pgcsv.JobConfig{
		SourcePath: exportRoot,
		Table:      pgcsv.TableName{Name: "sales"},
		Mode:       mode,
		ChunkSize:  chunkSize,
	}
	job.ApplyDefaults()
	return job
}

func memoryFS(files map[string]string) *filesystem.MemoryFileSystem {
	fs := filesystem.NewMemoryFileSystem(exportRoot)
	for name, content := range files {
		fs.AddFile(name, content)
	}
	return fs
}

// newOrchestrator wires the real scanner and reader over an in-memory export folder.
func newOrchestrator(t *testing.T, job pgcsv.JobConfig, files map[string]string, connector pgcsv.Connector) *Orchestrator {
	t.Helper()
	fs := memoryFS(files)
	reader, err := csvread.NewReader(fs, job.Parse)
	require.NoError(t, err)
	return NewOrchestrator(job, connector, scanner.NewScannerWithFS(fs), reader, logging.NewNullLogger())
}

func newLoader(t *testing.T, job pgcsv.JobConfig, files map[string]string) *BatchLoader {
	t.Helper()
	reader, err := csvread.NewReader(memoryFS(files), job.Parse)
	require.NoError(t, err)
	return NewBatchLoader(reader, job, logging.NewNullLogger())
}

func sources(names ...string) []pgcsv.SourceFile {
	out := make([]pgcsv.SourceFile, len(names))
	for i, n := range names {
		out[i] = pgcsv.SourceFile{Path: exportRoot + "/" + n, RelativePath: n}
	}
	return out
}

var salesFiles = map[string]string{
	"a.csv": "ID,Sale Amount\n1,10.5\n2,20\n3,30.25\n",
	"b.csv": "ID,Sale Amount\n4,1.5\n5,2\n",
}
