package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vvka-141/pgcsv/internal/schema"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Printer writes human-readable reports to a single writer.
type Printer struct {
	out    io.Writer
	styled bool
}

// NewPrinter creates a Printer for w. Colors are used only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w, styled: Styled(w)}
}

// Summary prints the outcome of a completed run.
func (p *Printer) Summary(s pgcsv.RunSummary) error {
	var b strings.Builder

	if s.Files == 0 {
		fmt.Fprintf(&b, "%s\n", p.render(mutedStyle, "Nothing to load: no source files found"))
		return p.write(b.String())
	}

	headline := fmt.Sprintf("%s Loaded %d %s from %d %s into %s in %s",
		symbolCheck, s.Rows, plural(s.Rows, "row"), s.Files, plural(int64(s.Files), "file"),
		s.Table, s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "%s\n", p.render(successStyle, headline))

	for i, unit := range s.Units {
		line := fmt.Sprintf("  %s %s %d: %d rows, %d columns (%s)",
			symbolBullet, unitLabel(s.Mode), i+1, unit.Rows, len(unit.Columns), strings.Join(unit.Files, ", "))
		fmt.Fprintf(&b, "%s\n", p.render(mutedStyle, line))
	}

	fmt.Fprintf(&b, "%s\n", p.render(mutedStyle, fmt.Sprintf("  run %s, mode %s, %d committed", s.RunID, s.Mode, s.Committed())))
	return p.write(b.String())
}

// Plan prints the dry-run plan as a table with one row per load unit.
func (p *Printer) Plan(plan pgcsv.Plan) error {
	var b strings.Builder

	title := fmt.Sprintf("Plan: %s load of %d %s into %s (%d %s)",
		plan.Mode, plan.Files, plural(int64(plan.Files), "file"), plan.Table,
		len(plan.Chunks), plural(int64(len(plan.Chunks)), unitLabel(plan.Mode)))
	fmt.Fprintf(&b, "%s\n", p.render(titleStyle, title))

	if len(plan.Chunks) == 0 {
		return p.write(b.String())
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Files", "Rows", "Columns", "First row"})
	for _, chunk := range plan.Chunks {
		t.AppendRow(table.Row{
			chunk.Index,
			strings.Join(chunk.Files, "\n"),
			chunk.Rows,
			describeColumns(plan, chunk.Columns),
			strings.Join(chunk.Sample, "\n"),
		})
		t.AppendSeparator()
	}
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	t.SuppressTrailingSpaces()

	b.WriteString(t.Render())
	b.WriteString("\n")
	return p.write(b.String())
}

func (p *Printer) write(s string) error {
	_, err := io.WriteString(p.out, s)
	return err
}

// describeColumns lists each column with the SQL type the run would create it with.
func describeColumns(plan pgcsv.Plan, cols []pgcsv.Column) string {
	lines := make([]string, len(cols))
	for i, c := range cols {
		sqlType := c.Type.String()
		if plan.Dialect != nil {
			sqlType = schema.ColumnSQLType(plan.Dialect, c.Type, plan.FallbackType)
		} else if c.Type == pgcsv.ColumnFallback && plan.FallbackType != "" {
			sqlType = plan.FallbackType
		}
		lines[i] = c.Name + " " + sqlType
	}
	return strings.Join(lines, "\n")
}

func unitLabel(mode pgcsv.LoadMode) string {
	if mode == pgcsv.ModePerFile {
		return "file"
	}
	return "chunk"
}

func plural(n int64, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
