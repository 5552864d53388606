package lock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type keyed string

func (k keyed) LockKey() string { return string(k) }

func TestKeys(t *testing.T) {
	got := Keys(keyed("Account:2"), keyed("Account:1"))
	assert.Equal(t, []string{"Account:2", "Account:1"}, got)
}

func TestSortedUnique(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"already sorted", []string{"a", "b"}, []string{"a", "b"}},
		{"reversed", []string{"b", "a"}, []string{"a", "b"}},
		{"duplicates", []string{"a", "b", "a"}, []string{"a", "b"}},
		{"all equal", []string{"a", "a", "a"}, []string{"a"}},
		{"empty", []string{}, []string{}},
		{"lexicographic not numeric", []string{"Account:10", "Account:2"}, []string{"Account:10", "Account:2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SortedUnique(tc.in))
		})
	}
}

func TestSortedUniqueLeavesInputUntouched(t *testing.T) {
	in := []string{"b", "a", "b"}
	_ = SortedUnique(in)
	assert.Equal(t, []string{"b", "a", "b"}, in)
}
