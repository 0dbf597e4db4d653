package jump

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrEmptyAlphabet is returned when no labels are configured.
var ErrEmptyAlphabet = errors.New("label alphabet is empty")

// Alphabet is the ordered set of label characters. Index 0 labels the first
// group of every phase.
type Alphabet []rune

// ParseAlphabet builds an alphabet from a string, one label per rune.
func ParseAlphabet(s string) (Alphabet, error) {
	a := Alphabet([]rune(s))
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate rejects empty alphabets, repeated labels and labels that cannot be
// typed as a single printable key.
func (a Alphabet) Validate() error {
	if len(a) == 0 {
		return ErrEmptyAlphabet
	}
	seen := make(map[rune]int, len(a))
	for i, r := range a {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return fmt.Errorf("label %d %q is not a printable character", i, r)
		}
		if prev, ok := seen[r]; ok {
			return fmt.Errorf("label %q repeated at positions %d and %d", r, prev, i)
		}
		seen[r] = i
	}
	return nil
}

func (a Alphabet) String() string {
	return string(a)
}

// Labeled pairs an item with the label that selects it.
type Labeled[T any] struct {
	Item  T
	Label rune
}

// Assign labels items positionally. Items beyond the alphabet are left out and
// cannot be selected this round.
func Assign[T any](items []T, a Alphabet) []Labeled[T] {
	n := min(len(items), len(a))
	out := make([]Labeled[T], n)
	for i := 0; i < n; i++ {
		out[i] = Labeled[T]{Item: items[i], Label: a[i]}
	}
	return out
}

// Lookup finds the entry whose label equals key exactly.
func Lookup[T any](labeled []Labeled[T], key rune) (Labeled[T], bool) {
	for _, l := range labeled {
		if l.Label == key {
			return l, true
		}
	}
	return Labeled[T]{}, false
}
