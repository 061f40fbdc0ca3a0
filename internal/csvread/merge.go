package csvread

import "github.com/vvka-141/pgcsv/pkg/pgcsv"

// Merge concatenates batches in order into one batch. Columns are subset when it is
// non-empty, otherwise the union of all batch columns in first-appearance order.
// Cells for columns a batch does not have are NULL.
func Merge(batches []*pgcsv.Batch, subset []string) *pgcsv.Batch {
	var columns []string
	if len(subset) > 0 {
		columns = append(columns, subset...)
	} else {
		seen := make(map[string]struct{})
		for _, b := range batches {
			for _, c := range b.Columns {
				if _, ok := seen[c]; !ok {
					seen[c] = struct{}{}
					columns = append(columns, c)
				}
			}
		}
	}

	positions := make(map[string]int, len(columns))
	for i, c := range columns {
		positions[c] = i
	}

	merged := &pgcsv.Batch{Columns: columns}
	for _, b := range batches {
		merged.Sources = append(merged.Sources, b.Sources...)

		targets := make([]int, len(b.Columns))
		for i, c := range b.Columns {
			if pos, ok := positions[c]; ok {
				targets[i] = pos
			} else {
				targets[i] = -1
			}
		}

		for _, row := range b.Rows {
			out := make([]pgcsv.Cell, len(columns))
			for i, cell := range row {
				if targets[i] >= 0 {
					out[targets[i]] = cell
				}
			}
			merged.Rows = append(merged.Rows, out)
		}
	}
	return merged
}
