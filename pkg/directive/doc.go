// Package directive models Airworthiness Directives (ADs) and their
// applicability rules, and loads them from JSON or YAML definition sources.
//
// A [Directive] is immutable once built. Directives are constructed either
// directly with [New], or from a definition source with a [Loader], which
// validates every entry against the embedded JSON schema and fails the whole
// load on the first invalid entry.
package directive
