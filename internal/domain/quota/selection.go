package quota

import (
	"errors"
	"sort"
)

var ErrSelectionFull = errors.New("selection limit reached")

// Selection is the visitor's tentative pick before any reservation exists.
// It is a proposal only: the ledger decides availability at checkout.
type Selection struct {
	max     int
	numbers map[string]struct{}
}

// NewSelection creates an empty selection holding at most max numbers (0 = unbounded).
func NewSelection(max int) *Selection {
	return &Selection{max: max, numbers: make(map[string]struct{})}
}

// SelectionOf builds a selection from numbers, failing if it would exceed max.
func SelectionOf(max int, numbers ...string) (*Selection, error) {
	s := NewSelection(max)
	for _, n := range numbers {
		if err := s.Add(n); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Selection) Add(number string) error {
	if _, ok := s.numbers[number]; ok {
		return nil
	}
	if s.max > 0 && len(s.numbers) >= s.max {
		return ErrSelectionFull
	}
	s.numbers[number] = struct{}{}
	return nil
}

func (s *Selection) Remove(number string) {
	delete(s.numbers, number)
}

// Toggle flips number and reports whether it is selected afterwards.
func (s *Selection) Toggle(number string) (bool, error) {
	if s.Contains(number) {
		s.Remove(number)
		return false, nil
	}
	if err := s.Add(number); err != nil {
		return false, err
	}
	return true, nil
}

// Replace swaps the whole selection, e.g. with a random pick.
func (s *Selection) Replace(numbers []string) error {
	next, err := SelectionOf(s.max, numbers...)
	if err != nil {
		return err
	}
	s.numbers = next.numbers
	return nil
}

func (s *Selection) Clear() {
	s.numbers = make(map[string]struct{})
}

func (s *Selection) Contains(number string) bool {
	_, ok := s.numbers[number]
	return ok
}

func (s *Selection) Len() int {
	return len(s.numbers)
}

func (s *Selection) Max() int {
	return s.max
}

// Numbers returns the selected numbers ascending.
func (s *Selection) Numbers() []string {
	out := make([]string, 0, len(s.numbers))
	for n := range s.numbers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
