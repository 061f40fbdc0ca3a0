package schema

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// TypeFamily groups SQL types that accept the same values.
type TypeFamily string

const (
	FamilyText      TypeFamily = "text"
	FamilyFloat     TypeFamily = "float"
	FamilyNumeric   TypeFamily = "numeric"
	FamilyTimestamp TypeFamily = "timestamp"
	FamilyOther     TypeFamily = "other"
)

// FamilyOf classifies a catalog type name such as "character varying",
// "double precision", "DECIMAL(65,0)" or "timestamp without time zone".
func FamilyOf(sqlType string) TypeFamily {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	switch {
	case strings.Contains(t, "char"), strings.Contains(t, "text"), strings.Contains(t, "clob"):
		return FamilyText
	case strings.Contains(t, "double"), strings.Contains(t, "float"), strings.Contains(t, "real"):
		return FamilyFloat
	case strings.Contains(t, "numeric"), strings.Contains(t, "decimal"), strings.Contains(t, "int"):
		return FamilyNumeric
	case strings.Contains(t, "timestamp"), strings.Contains(t, "datetime"), strings.Contains(t, "date"):
		return FamilyTimestamp
	default:
		return FamilyOther
	}
}

// CheckDrift compares batch descriptors with the table's recorded columns by name,
// order and type family. A nil existing slice means the table does not exist yet and
// never drifts. Fallback columns hold only NULLs and match any family.
func CheckDrift(d pgcsv.Dialect, table pgcsv.TableName, existing []pgcsv.ExistingColumn, cols []pgcsv.Column, fallbackSQL string) error {
	if existing == nil {
		return nil
	}

	var problems []string
	if len(existing) != len(cols) {
		problems = append(problems, fmt.Sprintf("table has %d columns, batch has %d", len(existing), len(cols)))
	}

	n := min(len(existing), len(cols))
	for i := 0; i < n; i++ {
		have, want := existing[i], cols[i]
		if have.Name != want.Name {
			problems = append(problems, fmt.Sprintf("column %d is %q in the table, %q in the batch", i+1, have.Name, want.Name))
			continue
		}
		if want.Type == pgcsv.ColumnFallback {
			continue
		}
		wantFamily := FamilyOf(ColumnSQLType(d, want.Type, fallbackSQL))
		if haveFamily := FamilyOf(have.SQLType); haveFamily != wantFamily {
			problems = append(problems, fmt.Sprintf("column %q is %s in the table, %s in the batch", want.Name, haveFamily, wantFamily))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("table %s: %s: %w: %w", table, strings.Join(problems, "; "), pgcsv.ErrSchemaDrift, pgcsv.ErrSchema)
}
