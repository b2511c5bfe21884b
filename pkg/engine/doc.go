// Package engine decides whether aircraft are subject to Airworthiness
// Directives.
//
// Each directive is evaluated against an aircraft in four ordered stages:
//
//  1. Model check: the aircraft model must be one of the affected models.
//  2. MSN check: the serial number must satisfy the serial constraint, if any.
//  3. Excluded mods check: no excluded modification may be present.
//  4. Required mods check: at least one required modification must be
//     present, if any are listed.
//
// The first failing stage decides the outcome. Failing stage 1 or 2 yields
// [StatusNotApplicable]; failing stage 3 or 4 yields [StatusNotAffected].
// An aircraft passing every stage is [StatusAffected]. Every evaluated stage
// contributes one sentence to the [Result] reason.
package engine
