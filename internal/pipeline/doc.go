// Package pipeline orchestrates one validation run over a roster file.
//
// A Validator executes the passes in a fixed order: parse, field validation,
// clan resolution, the optional reference-data load, player resolution,
// consistency, and write. Every pass may invalidate more rows but never
// restores one. Only input and output I/O failures (and an input without
// records) abort a run; everything else becomes a reason on the affected
// row.
//
// Progress is published through Progress, which observers poll with
// Snapshot or subscribe to with OnProgress. Alongside the annotated file a
// run can write a SQLite export of its rows and a Prometheus textfile with
// run metrics.
package pipeline
