// Package constraint provides the self-contained matchers that directive
// applicability rules are built from:
//
//   - [Serial] restricts the manufacturer serial numbers (MSN) a directive
//     covers. It is a closed set of variants: [AllSerials], [SerialRange] and
//     [SerialList].
//   - [Modification] recognizes a modification or service bulletin in the
//     free-text modification descriptors recorded for an aircraft.
//
// All constraints are immutable once constructed.
package constraint
