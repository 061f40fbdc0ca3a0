package csvread

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// parseValue classifies a non-null field as int64, float64 or string.
func parseValue(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if looksNumeric(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return raw
}

// looksNumeric rejects forms strconv accepts but a CSV reader should keep as text,
// such as hex floats and digit separators.
func looksNumeric(s string) bool {
	lower := strings.ToLower(s)
	if strings.ContainsAny(lower, "x_p") {
		return false
	}
	switch strings.TrimLeft(lower, "+-") {
	case "inf", "infinity":
		return true
	}
	return strings.IndexFunc(lower, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.' || r == 'e' || r == '+' || r == '-')
	}) < 0
}

// dateParser turns date-column text into timestamps. Explicit Go layouts are tried
// first, then format-free parsing. Failures yield nil.
type dateParser struct {
	layouts  []string
	dayFirst bool
}

func (p dateParser) parse(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range p.layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC,
		dateparse.PreferMonthFirst(!p.dayFirst),
		dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return nil
	}
	// The ambiguous day/month retry parses in time.Local; keep the wall clock in UTC.
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// cellFor builds the cell for one field.
func cellFor(raw string, nulls map[string]struct{}, dates *dateParser) pgcsv.Cell {
	if _, isNull := nulls[raw]; isNull {
		return pgcsv.Cell{Raw: raw}
	}
	if dates != nil {
		return pgcsv.Cell{Raw: raw, Value: dates.parse(raw)}
	}
	return pgcsv.Cell{Raw: raw, Value: parseValue(raw)}
}
