// Package roster models tournament registration rows.
//
// A Record is one parsed input row together with everything later passes
// learn about it: the field-level validation outcome, the resolved clan and
// player identifiers, and optional performance figures. Validity is tracked as
// a list of reasons; a record is valid exactly when that list is empty, and
// reasons can only be added.
//
// The package also owns the wire format: SplitFields tokenizes an input line,
// Parse reads a whole roster file, and Record.Line renders the annotated
// output row.
package roster
