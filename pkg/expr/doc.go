// Package expr provides CEL (Common Expression Language) environments for
// filtering fleet evaluation results.
//
// Environments include the CEL math, strings and lists extensions, plus:
//   - `hasModification(mods, id)` / `mods.hasModification(id)`: reports
//     whether any modification descriptor matches id, using the same
//     case-insensitive containment rule as directive evaluation.
//   - `status.AFFECTED`, `status.NOT_AFFECTED`, `status.NOT_APPLICABLE`:
//     the result status strings.
//   - `results.anyStatus(s, ...)`: reports whether any value of a map of
//     results has one of the given statuses.
//
// Expressions see one aircraft and its results through the [VarAircraft] and
// [VarResults] variables.
package expr
