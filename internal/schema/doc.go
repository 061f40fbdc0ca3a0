// Package schema turns raw CSV headers and parsed cells into column descriptors
// and issues the create-if-missing statement for the target table.
//
// The three steps are pure or nearly pure:
//   - NormalizeLabels maps raw labels to lower-case identifiers
//   - InferColumns derives one ColumnType per column from the parsed values
//   - Provisioner renders CREATE TABLE IF NOT EXISTS from the ordered descriptor list
//
// The same ordered []pgcsv.Column slice must be passed to provisioning and insert;
// nothing in this package regenerates the column list independently.
package schema
