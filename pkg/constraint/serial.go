package constraint

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SerialKind identifies a [Serial] variant.
type SerialKind string

const (
	// SerialKindAll matches every serial number.
	SerialKindAll SerialKind = "all"
	// SerialKindRange matches serial numbers within inclusive bounds.
	SerialKindRange SerialKind = "range"
	// SerialKindList matches an enumerated set of serial numbers.
	SerialKindList SerialKind = "list"
)

var (
	// ErrUnknownSerialKind is returned when a serial constraint kind is not one
	// of [AllSerialKinds].
	ErrUnknownSerialKind = errors.New("unknown serial constraint kind")

	// AllSerialKinds lists every valid [SerialKind].
	AllSerialKinds = []string{
		string(SerialKindAll),
		string(SerialKindRange),
		string(SerialKindList),
	}
)

// ParseSerialKind converts a kind name into a [SerialKind]. Names are
// matched exactly, as in directive files.
func ParseSerialKind(kind string) (SerialKind, error) {
	if slices.Contains(AllSerialKinds, kind) {
		return SerialKind(kind), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownSerialKind, kind)
}

// Serial restricts which manufacturer serial numbers a directive applies to.
//
// The set of implementations is closed: only [AllSerials], [SerialRange] and
// [SerialList] satisfy it.
type Serial interface {
	// Matches reports whether the serial number satisfies the constraint.
	Matches(serial int) bool
	// Kind returns the variant tag.
	Kind() SerialKind
	String() string

	sealed()
}

// Compile-time interface checks.
var (
	_ Serial = AllSerials{}
	_ Serial = SerialRange{}
	_ Serial = SerialList{}
)

// NewSerial creates a [Serial] of the given kind. The bounds are only used
// for [SerialKindRange], and values only for [SerialKindList].
//
//nolint:ireturn // Returns one of the sealed variants.
func NewSerial(kind string, minSerial, maxSerial *int, values []int) (Serial, error) {
	k, err := ParseSerialKind(kind)
	if err != nil {
		return nil, err
	}

	switch k {
	case SerialKindAll:
		return AllSerials{}, nil
	case SerialKindRange:
		return NewSerialRange(minSerial, maxSerial)
	case SerialKindList:
		return NewSerialList(values...), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSerialKind, kind)
}

// AllSerials places no restriction on the serial number.
type AllSerials struct{}

// Matches always returns true.
func (AllSerials) Matches(int) bool { return true }

func (AllSerials) Kind() SerialKind { return SerialKindAll }

func (AllSerials) String() string { return "all serial numbers" }

func (AllSerials) sealed() {}

// SerialRange matches serial numbers between two inclusive bounds. Either
// bound may be absent, leaving that side of the range open.
type SerialRange struct {
	minSerial *int
	maxSerial *int
}

// NewSerialRange creates a [SerialRange]. A nil bound is open-ended; a range
// with both bounds absent matches every serial number.
func NewSerialRange(minSerial, maxSerial *int) (SerialRange, error) {
	r := SerialRange{
		minSerial: copyInt(minSerial),
		maxSerial: copyInt(maxSerial),
	}
	if r.minSerial != nil && r.maxSerial != nil && *r.minSerial > *r.maxSerial {
		return SerialRange{}, fmt.Errorf("serial range: min %d is greater than max %d", *r.minSerial, *r.maxSerial)
	}

	return r, nil
}

// Matches reports whether serial lies within the bounds.
func (r SerialRange) Matches(serial int) bool {
	if r.minSerial != nil && serial < *r.minSerial {
		return false
	}
	if r.maxSerial != nil && serial > *r.maxSerial {
		return false
	}

	return true
}

// Min returns the lower bound, if any.
func (r SerialRange) Min() (int, bool) {
	if r.minSerial == nil {
		return 0, false
	}

	return *r.minSerial, true
}

// Max returns the upper bound, if any.
func (r SerialRange) Max() (int, bool) {
	if r.maxSerial == nil {
		return 0, false
	}

	return *r.maxSerial, true
}

func (SerialRange) Kind() SerialKind { return SerialKindRange }

func (r SerialRange) String() string {
	switch {
	case r.minSerial != nil && r.maxSerial != nil:
		return fmt.Sprintf("serial numbers %d to %d", *r.minSerial, *r.maxSerial)
	case r.minSerial != nil:
		return fmt.Sprintf("serial numbers from %d", *r.minSerial)
	case r.maxSerial != nil:
		return fmt.Sprintf("serial numbers up to %d", *r.maxSerial)
	}

	return "all serial numbers"
}

func (SerialRange) sealed() {}

// SerialList matches an enumerated set of serial numbers. An empty list
// matches nothing.
type SerialList struct {
	values []int
}

// NewSerialList creates a [SerialList] from the given values.
func NewSerialList(values ...int) SerialList {
	return SerialList{values: slices.Clone(values)}
}

// Matches reports whether serial is one of the listed values.
func (l SerialList) Matches(serial int) bool {
	return slices.Contains(l.values, serial)
}

// Values returns a copy of the listed serial numbers, in definition order.
func (l SerialList) Values() []int {
	return slices.Clone(l.values)
}

func (SerialList) Kind() SerialKind { return SerialKindList }

func (l SerialList) String() string {
	if len(l.values) == 0 {
		return "no serial numbers"
	}

	s := make([]string, 0, len(l.values))
	for _, v := range l.values {
		s = append(s, strconv.Itoa(v))
	}

	return "serial numbers " + strings.Join(s, ", ")
}

func (SerialList) sealed() {}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}
