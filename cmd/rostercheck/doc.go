// Package main hosts the rostercheck CLI entrypoint and command graph.
//
// The Cobra-based command tree runs roster validations, converts tournament
// stage documents into division tables, inspects the response cache, and
// scaffolds configuration. It centralizes configuration resolution and
// logger setup so subcommands can focus on output.
//
// Keep this package lean: functionality lives in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
