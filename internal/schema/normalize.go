package schema

import "strings"

var labelReplacer = strings.NewReplacer(
	" ", "_",
	"-", "_",
	"/", "_",
	"\\", "_",
	".", "_",
	"$", "",
	"%", "",
)

// NormalizeLabel lower-cases a raw column label, replaces space, '-', '/', '\' and '.'
// with '_' and deletes '$' and '%'. It is idempotent.
func NormalizeLabel(label string) string {
	return labelReplacer.Replace(strings.ToLower(label))
}

// NormalizeLabels normalizes every label. The result has the same length and order;
// distinct labels may collapse to the same identifier (see DuplicateLabels).
func NormalizeLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = NormalizeLabel(l)
	}
	return out
}

// DuplicateLabels returns the identifiers that occur more than once, in first-seen order.
func DuplicateLabels(names []string) []string {
	seen := make(map[string]int, len(names))
	var dups []string
	for _, n := range names {
		seen[n]++
		if seen[n] == 2 {
			dups = append(dups, n)
		}
	}
	return dups
}
