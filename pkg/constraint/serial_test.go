package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/adcheck/pkg/constraint"
)

func intPtr(v int) *int {
	return &v
}

func TestParseSerialKind(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    constraint.SerialKind
		wantErr bool
	}{
		"all":             {input: "all", want: constraint.SerialKindAll},
		"range":           {input: "range", want: constraint.SerialKindRange},
		"list":            {input: "list", want: constraint.SerialKindList},
		"upper case":      {input: "RANGE", wantErr: true},
		"padded":          {input: " range ", wantErr: true},
		"unknown kind":    {input: "between", wantErr: true},
		"empty kind":      {input: "", wantErr: true},
		"plural spelling": {input: "lists", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := constraint.ParseSerialKind(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, constraint.ErrUnknownSerialKind)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSerial_Matches(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		serial constraint.Serial
		want   map[int]bool
	}{
		"all": {
			serial: constraint.AllSerials{},
			want:   map[int]bool{0: true, 1: true, 99999: true},
		},
		"closed range": {
			serial: mustRange(t, intPtr(100), intPtr(200)),
			want:   map[int]bool{99: false, 100: true, 150: true, 200: true, 201: false},
		},
		"open upper bound": {
			serial: mustRange(t, intPtr(100), nil),
			want:   map[int]bool{99: false, 100: true, 1000000: true},
		},
		"open lower bound": {
			serial: mustRange(t, nil, intPtr(200)),
			want:   map[int]bool{0: true, 200: true, 201: false},
		},
		"range without bounds": {
			serial: mustRange(t, nil, nil),
			want:   map[int]bool{0: true, 5: true, 123456: true},
		},
		"list": {
			serial: constraint.NewSerialList(5, 10),
			want:   map[int]bool{5: true, 7: false, 10: true, 0: false},
		},
		"empty list": {
			serial: constraint.NewSerialList(),
			want:   map[int]bool{0: false, 5: false},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for serial, want := range tc.want {
				assert.Equal(t, want, tc.serial.Matches(serial), "serial %d", serial)
			}
		})
	}
}

func TestNewSerial(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		minSerial *int
		maxSerial *int
		kind      string
		wantKind  constraint.SerialKind
		values    []int
		wantErr   bool
	}{
		"all ignores bounds": {
			kind:      "all",
			minSerial: intPtr(1),
			wantKind:  constraint.SerialKindAll,
		},
		"range": {
			kind:      "range",
			minSerial: intPtr(1),
			maxSerial: intPtr(2),
			wantKind:  constraint.SerialKindRange,
		},
		"list": {
			kind:     "list",
			values:   []int{1, 2, 3},
			wantKind: constraint.SerialKindList,
		},
		"inverted range": {
			kind:      "range",
			minSerial: intPtr(200),
			maxSerial: intPtr(100),
			wantErr:   true,
		},
		"unknown kind": {
			kind:    "prefix",
			wantErr: true,
		},
		"capitalized kind": {
			kind:      " Range ",
			minSerial: intPtr(1),
			wantErr:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := constraint.NewSerial(tc.kind, tc.minSerial, tc.maxSerial, tc.values)
			if tc.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, got.Kind())
		})
	}
}

func TestSerialRange_Immutable(t *testing.T) {
	t.Parallel()

	lo, hi := 100, 200
	r := mustRange(t, &lo, &hi)

	lo, hi = 0, 0

	gotMin, ok := r.Min()
	require.True(t, ok)
	assert.Equal(t, 100, gotMin)

	gotMax, ok := r.Max()
	require.True(t, ok)
	assert.Equal(t, 200, gotMax)
	assert.True(t, r.Matches(150))
}

func TestSerialList_Immutable(t *testing.T) {
	t.Parallel()

	values := []int{5, 10}
	l := constraint.NewSerialList(values...)

	values[0] = 7
	got := l.Values()
	got[1] = 8

	assert.Equal(t, []int{5, 10}, l.Values())
	assert.False(t, l.Matches(7))
	assert.True(t, l.Matches(10))
}

func TestSerial_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "all serial numbers", constraint.AllSerials{}.String())
	assert.Equal(t, "serial numbers 100 to 200", mustRange(t, intPtr(100), intPtr(200)).String())
	assert.Equal(t, "serial numbers from 100", mustRange(t, intPtr(100), nil).String())
	assert.Equal(t, "serial numbers up to 200", mustRange(t, nil, intPtr(200)).String())
	assert.Equal(t, "serial numbers 5, 10", constraint.NewSerialList(5, 10).String())
	assert.Equal(t, "no serial numbers", constraint.NewSerialList().String())
}

func mustRange(t *testing.T, minSerial, maxSerial *int) constraint.SerialRange {
	t.Helper()

	r, err := constraint.NewSerialRange(minSerial, maxSerial)
	require.NoError(t, err)

	return r
}
