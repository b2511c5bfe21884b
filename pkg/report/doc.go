// Package report renders fleet evaluation results.
//
// A [Renderer] writes a [*engine.Fleet] as a status table (plain text,
// markdown or CSV), optionally followed by per-directive summary statistics
// and the detailed reasoning behind every result. It can also write the
// results as JSON or YAML in the export shape produced by [Export].
//
// A [Filter] narrows a fleet down to the entries matching a CEL expression
// before rendering.
package report
