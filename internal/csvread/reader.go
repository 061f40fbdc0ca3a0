package csvread

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/vvka-141/pgcsv/internal/files/filesystem"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Reader parses source files under one fixed set of parse options.
// Reader is safe for concurrent use as long as the filesystem provider is.
type Reader struct {
	fsProvider filesystem.FileSystemProvider
	opts       pgcsv.ParseOptions
	encoding   encoding.Encoding
	strictUTF8 bool
	nulls      map[string]struct{}
	dates      map[string]struct{}
	parser     dateParser
}

// NewReader creates a Reader over fsProvider. It fails with ErrInvalidConfig when
// the encoding label is unknown. Panics if fsProvider is nil.
func NewReader(fsProvider filesystem.FileSystemProvider, opts pgcsv.ParseOptions) (*Reader, error) {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = pgcsv.DefaultDelimiter
	}
	if opts.NullValues == nil {
		opts.NullValues = pgcsv.DefaultNullValues
	}

	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	return &Reader{
		fsProvider: fsProvider,
		opts:       opts,
		encoding:   enc,
		strictUTF8: enc == unicode.UTF8,
		nulls:      toSet(opts.NullValues),
		dates:      toSet(opts.DateColumns),
		parser:     dateParser{layouts: opts.DateFormats, dayFirst: opts.DayFirst},
	}, nil
}

// ReadFile parses file into a batch. The first record is the header. With a column
// subset configured, the batch holds exactly those columns in configured order and a
// subset column missing from the header is an error. Rows with more fields than the
// header are an error; shorter rows are padded with NULL.
//
// All errors wrap pgcsv.ErrParse and name the file.
func (r *Reader) ReadFile(file pgcsv.SourceFile) (*pgcsv.Batch, error) {
	name := file.RelativePath
	if name == "" {
		name = file.Path
	}

	f, err := r.fsProvider.OpenFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open file: %w: %w", name, pgcsv.ErrParse, err)
	}
	defer f.Close()

	cr := csv.NewReader(r.decode(f))
	cr.Comma = r.opts.Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &pgcsv.Batch{Sources: []string{name}}, nil
	}
	if err != nil {
		return nil, r.parseError(name, err)
	}
	if err := r.checkUTF8(name, cr, header); err != nil {
		return nil, err
	}
	header = dedupeHeader(header)

	columns, indexes, err := r.selectColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	dateParsers := make([]*dateParser, len(columns))
	for i, c := range columns {
		if _, ok := r.dates[c]; ok {
			dateParsers[i] = &r.parser
		}
	}

	batch := &pgcsv.Batch{Columns: columns, Sources: []string{name}}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, r.parseError(name, err)
		}
		if err := r.checkUTF8(name, cr, record); err != nil {
			return nil, err
		}
		if len(record) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%s: line %d: expected %d fields, saw %d: %w",
				name, line, len(header), len(record), pgcsv.ErrParse)
		}

		row := make([]pgcsv.Cell, len(columns))
		for i, idx := range indexes {
			if idx >= len(record) {
				continue
			}
			row[i] = cellFor(record[idx], r.nulls, dateParsers[i])
		}
		batch.Rows = append(batch.Rows, row)
	}

	return batch, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode wraps f so the CSV reader sees UTF-8 without a byte order mark.
// UTF-8 input passes through undecoded so invalid bytes reach checkUTF8
// instead of being replaced with U+FFFD.
func (r *Reader) decode(f io.Reader) io.Reader {
	if r.strictUTF8 {
		br := bufio.NewReader(f)
		if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			_, _ = br.Discard(len(utf8BOM))
		}
		return br
	}
	// Decoders carry BOM state, so every file gets a fresh one.
	return transform.NewReader(f, unicode.BOMOverride(r.encoding.NewDecoder()))
}

func (r *Reader) checkUTF8(name string, cr *csv.Reader, record []string) error {
	if !r.strictUTF8 {
		return nil
	}
	for _, field := range record {
		if !utf8.ValidString(field) {
			line, _ := cr.FieldPos(0)
			return fmt.Errorf("%s: line %d: invalid UTF-8: %w", name, line, pgcsv.ErrParse)
		}
	}
	return nil
}

// selectColumns returns the batch columns and their header positions.
func (r *Reader) selectColumns(header []string) ([]string, []int, error) {
	if len(r.opts.Columns) == 0 {
		indexes := make([]int, len(header))
		for i := range header {
			indexes[i] = i
		}
		return header, indexes, nil
	}

	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[h] = i
	}
	indexes := make([]int, len(r.opts.Columns))
	for i, c := range r.opts.Columns {
		idx, ok := positions[c]
		if !ok {
			return nil, nil, fmt.Errorf("column %q not found in header: %w", c, pgcsv.ErrParse)
		}
		indexes[i] = idx
	}
	return append([]string(nil), r.opts.Columns...), indexes, nil
}

func (r *Reader) parseError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: line %d, column %d: %v: %w", name, pe.Line, pe.Column, pe.Err, pgcsv.ErrParse)
	}
	return fmt.Errorf("%s: %v: %w", name, err, pgcsv.ErrParse)
}

// dedupeHeader renames repeated labels "a", "a" to "a", "a.1" so every column
// stays addressable; normalization later turns the suffix into "a_1".
func dedupeHeader(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		label := h
		for n := seen[h]; n > 0; n++ {
			candidate := h + "." + strconv.Itoa(n)
			if _, taken := seen[candidate]; !taken {
				label = candidate
				seen[h] = n + 1
				break
			}
		}
		if label == h {
			seen[h] = 1
		} else {
			seen[label] = 1
		}
		out[i] = label
	}
	return out
}
