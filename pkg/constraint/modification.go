package constraint

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// ErrInvalidModification is returned when a [Modification] cannot match
// anything meaningful, e.g. because its identifier is blank.
var ErrInvalidModification = errors.New("invalid modification constraint")

// Modification identifies a modification or service bulletin by its canonical
// identifier and any alternate spellings.
//
// Matching is case-insensitive substring containment, so that descriptors
// carrying revision suffixes still match: "SB A320-57-1089 Rev 04" matches a
// constraint with identifier "SB A320-57-1089".
type Modification struct {
	id          string
	description string
	aliases     []string

	// Folded forms of id and aliases, computed once.
	keys []string
}

// NewModification creates a new [Modification]. The identifier and every
// alias must contain at least one non-space character, since an empty needle
// would match every modification.
func NewModification(id string, aliases []string, description string) (*Modification, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: identifier is empty", ErrInvalidModification)
	}

	m := &Modification{
		id:          id,
		description: description,
		aliases:     slices.Clone(aliases),
		keys:        make([]string, 0, len(aliases)+1),
	}
	m.keys = append(m.keys, normalize(id))

	for i, alias := range aliases {
		if strings.TrimSpace(alias) == "" {
			return nil, fmt.Errorf("%w: %q: alias %d is empty", ErrInvalidModification, id, i)
		}

		m.keys = append(m.keys, normalize(alias))
	}

	return m, nil
}

// MustNewModification creates a new [Modification] and panics on error.
func MustNewModification(id string, aliases ...string) *Modification {
	m, err := NewModification(id, aliases, "")
	if err != nil {
		panic(err)
	}

	return m
}

// ID returns the canonical identifier.
func (m *Modification) ID() string {
	return m.id
}

// Aliases returns a copy of the alternate identifiers.
func (m *Modification) Aliases() []string {
	return slices.Clone(m.aliases)
}

// Description returns the free-text description. It is not used in matching.
func (m *Modification) Description() string {
	return m.description
}

// Matches reports whether the modification descriptor contains the
// identifier or one of the aliases, ignoring case and surrounding whitespace.
func (m *Modification) Matches(text string) bool {
	t := normalize(text)
	for _, key := range m.keys {
		if strings.Contains(t, key) {
			return true
		}
	}

	return false
}

// FirstMatch returns the first of mods that m matches.
func (m *Modification) FirstMatch(mods []string) (string, bool) {
	for _, mod := range mods {
		if m.Matches(mod) {
			return mod, true
		}
	}

	return "", false
}

func (m *Modification) String() string {
	if len(m.aliases) == 0 {
		return m.id
	}

	return fmt.Sprintf("%s (aka %s)", m.id, strings.Join(m.aliases, ", "))
}

// The folding caser is stateless, so it can be shared.
var folder = cases.Fold()

// normalize trims surrounding whitespace and applies Unicode case folding.
func normalize(s string) string {
	return folder.String(strings.TrimSpace(s))
}
