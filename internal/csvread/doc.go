// Package csvread parses delimited text files into record batches.
//
// Every cell keeps its raw text and a parsed value: nil for null tokens and
// unparseable dates, int64, float64, time.Time for configured date columns, or the
// raw string. The type inferencer reads the parsed values; Text columns are written
// from the raw text.
package csvread
