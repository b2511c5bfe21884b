package engine

import (
	"iter"
	"slices"

	"github.com/macropower/adcheck/pkg/aircraft"
)

// FleetEntry holds the results of evaluating every directive against one
// aircraft.
type FleetEntry struct {
	Aircraft aircraft.Configuration
	Results  []Result
}

// Fleet maps aircraft identities to their evaluation results, preserving the
// order in which aircraft were evaluated.
//
// When two aircraft share an [aircraft.Identity], the later one replaces the
// earlier entry but keeps its position.
type Fleet struct {
	index      map[aircraft.Identity]int
	directives []string
	entries    []FleetEntry
}

func newFleet(directives []string, size int) *Fleet {
	return &Fleet{
		index:      make(map[aircraft.Identity]int, size),
		directives: directives,
		entries:    make([]FleetEntry, 0, size),
	}
}

func (f *Fleet) put(ac aircraft.Configuration, results []Result) {
	entry := FleetEntry{Aircraft: ac, Results: results}

	if i, ok := f.index[ac.Identity()]; ok {
		f.entries[i] = entry
		return
	}

	f.index[ac.Identity()] = len(f.entries)
	f.entries = append(f.entries, entry)
}

// Len returns the number of distinct aircraft.
func (f *Fleet) Len() int {
	return len(f.entries)
}

// DirectiveIDs returns the IDs of the evaluated directives, in the order of
// every entry's results.
func (f *Fleet) DirectiveIDs() []string {
	return slices.Clone(f.directives)
}

// Get returns the results for the aircraft with the given identity.
func (f *Fleet) Get(id aircraft.Identity) ([]Result, bool) {
	i, ok := f.index[id]
	if !ok {
		return nil, false
	}

	return slices.Clone(f.entries[i].Results), true
}

// Entries returns every entry, in evaluation order.
func (f *Fleet) Entries() []FleetEntry {
	return slices.Clone(f.entries)
}

// All iterates over the entries in evaluation order.
func (f *Fleet) All() iter.Seq2[aircraft.Identity, []Result] {
	return func(yield func(aircraft.Identity, []Result) bool) {
		for _, e := range f.entries {
			if !yield(e.Aircraft.Identity(), e.Results) {
				return
			}
		}
	}
}

// Filter returns a new [Fleet] holding only the entries for which keep
// returns true. The first error returned by keep aborts filtering.
func (f *Fleet) Filter(keep func(FleetEntry) (bool, error)) (*Fleet, error) {
	out := newFleet(f.directives, len(f.entries))

	for _, e := range f.entries {
		ok, err := keep(e)
		if err != nil {
			return nil, err
		}

		if ok {
			out.put(e.Aircraft, e.Results)
		}
	}

	return out, nil
}
