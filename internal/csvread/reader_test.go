package csvread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgcsv/internal/files/filesystem"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

func newTestReader(t *testing.T, opts pgcsv.ParseOptions, files map[string]string) *Reader {
	t.Helper()
	fs := filesystem.NewMemoryFileSystem("/exports")
	for name, content := range files {
		fs.AddFile(name, content)
	}
	r, err := NewReader(fs, opts)
	require.NoError(t, err)
	return r
}

func source(name string) pgcsv.SourceFile {
	return pgcsv.SourceFile{Path: "/exports/" + name, RelativePath: name}
}

func values(b *pgcsv.Batch) [][]any {
	out := make([][]any, len(b.Rows))
	for i, row := range b.Rows {
		out[i] = make([]any, len(row))
		for j, c := range row {
			out[i][j] = c.Value
		}
	}
	return out
}

func TestReadFile_ClassifiesValues(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{}, map[string]string{
		"a.csv": "id,price,name,code\n1,2.5,apple,007\n2,3,NA,X1\n",
	})

	b, err := r.ReadFile(source("a.csv"))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "price", "name", "code"}, b.Columns)
	assert.Equal(t, []string{"a.csv"}, b.Sources)
	assert.Equal(t, [][]any{
		{int64(1), 2.5, "apple", int64(7)},
		{int64(2), int64(3), nil, "X1"},
	}, values(b))
	assert.Equal(t, "007", b.Rows[0][3].Raw)
	assert.True(t, b.Rows[1][2].IsNull())
}

func TestReadFile_NullTokens(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{}, map[string]string{
		"a.csv": "v\nNULL\nnan\n#N/A\n\"\"\nNaT\nnone\n",
	})

	b, err := r.ReadFile(source("a.csv"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{nil}, {nil}, {nil}, {nil}, {nil}, {"none"}}, values(b))
}

func TestReadFile_CustomNullValues(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{NullValues: []string{"-"}}, map[string]string{
		"a.csv": "v\n-\nNA\n",
	})

	b, err := r.ReadFile(source("a.csv"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{nil}, {"NA"}}, values(b))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"42", int64(42)},
		{"-7", int64(-7)},
		{" 12 ", int64(12)},
		{"1e3", 1000.0},
		{"0.5", 0.5},
		{"99999999999999999999", 1e20},
		{"0x1p-2", "0x1p-2"},
		{"1_000", "1_000"},
		{"1.2.3", "1.2.3"},
		{"12abc", "12abc"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.raw))
		})
	}
}

func TestReadFile_DateColumns(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{
		DateColumns: []string{"Date"},
		DayFirst:    true,
	}, map[string]string{
		"a.csv": "Date,qty\n01/03/2023,1\n2023-03-15,2\n31/12/2023,3\n??,4\n,5\n",
	})

	b, err := r.ReadFile(source("a.csv"))
	require.NoError(t, err)

	assert.Equal(t, [][]any{
		{time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), int64(1)},
		{time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), int64(2)},
		{time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), int64(3)},
		{nil, int64(4)},
		{nil, int64(5)},
	}, values(b))
}

func TestReadFile_ExplicitDateLayoutsWin(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{
		DateColumns: []string{"day"},
		DateFormats: []string{"02.01.2006"},
	}, map[string]string{
		"a.csv": "day\n05.04.2024\n",
	})

	b, err := r.ReadFile(source("a.csv"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), b.Rows[0][0].Value)
}

func TestReadFile_ColumnSubset(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{Columns: []string{"c", "a"}}, map[string]string{
		"ok.csv":      "a,b,c\n1,2,3\n",
		"missing.csv": "a,b\n1,2\n",
	})

	b, err := r.ReadFile(source("ok.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, b.Columns)
	assert.Equal(t, [][]any{{int64(3), int64(1)}}, values(b))

	_, err = r.ReadFile(source("missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pgcsv.ErrParse)
	assert.Contains(t, err.Error(), `missing.csv: column "c" not found in header`)
}

func TestReadFile_RaggedRows(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{}, map[string]string{
		"short.csv": "a,b,c\n1,2\n",
		"long.csv":  "a,b\n1,2\n1,2,3\n",
	})

	b, err := r.ReadFile(source("short.csv"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1), int64(2), nil}}, values(b))

	_, err = r.ReadFile(source("long.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pgcsv.ErrParse)
	assert.Contains(t, err.Error(), "long.csv: line 3: expected 2 fields, saw 3")
}

func TestReadFile_MalformedQuotes(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{}, map[string]string{
		"bad.csv": "a\n\"unterminated\n",
	})

	_, err := r.ReadFile(source("bad.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pgcsv.ErrParse)
	assert.Contains(t, err.Error(), "bad.csv: line")
}

func TestReadFile_Delimiter(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{Delimiter: ';'}, map[string]string{
		"a.csv": "a;b\n1,5;x\n",
	})

	b, err := r.ReadFile(source("a.csv"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"1,5", "x"}}, values(b))
}

func TestReadFile_EncodingAndBOM(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{Encoding: "cp1252"}, map[string]string{
		"win.csv": "name\nCaf\xe9\n",
	})
	b, err := r.ReadFile(source("win.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Café", b.Rows[0][0].Value)

	r = newTestReader(t, pgcsv.ParseOptions{}, map[string]string{
		"bom.csv": "\xef\xbb\xbfid\n1\n",
	})
	b, err = r.ReadFile(source("bom.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, b.Columns)
}

func TestReadFile_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		content  string
		wantLine string
	}{
		{"bad row bytes", "utf-8", "Name,Qty\nabc,1\nabc\xff\xfe,1\n", "line 3"},
		{"bad header bytes", "", "Na\xffme,Qty\nabc,1\n", "line 1"},
		{"bad bytes after BOM", "utf8", "\xef\xbb\xbfName\n\xc3\n", "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReader(t, pgcsv.ParseOptions{Encoding: tt.encoding}, map[string]string{
				"bad.csv": tt.content,
			})
			_, err := r.ReadFile(source("bad.csv"))
			require.Error(t, err)
			assert.ErrorIs(t, err, pgcsv.ErrParse)
			assert.Contains(t, err.Error(), "bad.csv: "+tt.wantLine+": invalid UTF-8")
		})
	}

	r := newTestReader(t, pgcsv.ParseOptions{Encoding: "utf-8"}, map[string]string{
		"ok.csv": "\xef\xbb\xbfName,Qty\nCafé,1\n",
	})
	b, err := r.ReadFile(source("ok.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Qty"}, b.Columns)
	assert.Equal(t, "Café", b.Rows[0][0].Value)
}

func TestNewReader_UnknownEncoding(t *testing.T) {
	_, err := NewReader(filesystem.NewMemoryFileSystem("/"), pgcsv.ParseOptions{Encoding: "klingon"})
	assert.ErrorIs(t, err, pgcsv.ErrInvalidConfig)
}

func TestReadFile_EmptyAndHeaderOnly(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{}, map[string]string{
		"empty.csv":  "",
		"header.csv": "a,b\n",
	})

	b, err := r.ReadFile(source("empty.csv"))
	require.NoError(t, err)
	assert.Empty(t, b.Columns)
	assert.Zero(t, b.Len())

	b, err = r.ReadFile(source("header.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, b.Columns)
	assert.Zero(t, b.Len())
}

func TestReadFile_MissingFile(t *testing.T) {
	r := newTestReader(t, pgcsv.ParseOptions{}, nil)

	_, err := r.ReadFile(source("gone.csv"))
	assert.ErrorIs(t, err, pgcsv.ErrParse)
}

func TestDedupeHeader(t *testing.T) {
	assert.Equal(t, []string{"a", "a.1", "b", "a.2"}, dedupeHeader([]string{"a", "a", "b", "a"}))
	assert.Equal(t, []string{"a", "a.1", "a.2"}, dedupeHeader([]string{"a", "a.1", "a"}))
}
