package cards

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// Set represents an unordered set of distinct cards.
//
// Each of the 52 Cards is assigned one bit, so a Set fits in a single
// uint64 and can be used directly as a map key (e.g. to identify a board).
type Set uint64

func NewSet() Set {
	return Set(0)
}

// NewSetFromCards creates a new Set from the given slice of Cards.
func NewSetFromCards(cards []Card) Set {
	result := Set(0)
	for _, card := range cards {
		result.Add(card)
	}

	return result
}

// ParseSet parses a run of concatenated cards into a Set.
// Duplicate cards are an error.
func ParseSet(s string) (Set, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return 0, err
	}

	result := NewSetFromCards(cards)
	if result.Len() != len(cards) {
		return 0, errors.Errorf("duplicate cards in %q", s)
	}

	return result, nil
}

// IsEmpty returns whether this Set contains any Cards.
func (s Set) IsEmpty() bool {
	return s == 0
}

// Contains returns whether the given Card is in the Set.
func (s Set) Contains(card Card) bool {
	return s&bit(card) != 0
}

// Intersects returns whether any Card is in both Sets.
func (s Set) Intersects(other Set) bool {
	return s&other != 0
}

func (s Set) Iter(cb func(card Card)) {
	for s != 0 {
		i := bits.TrailingZeros64(uint64(s))
		cb(Card(i))
		s &= s - 1
	}
}

// Len gets the total number of Cards in the Set.
func (s Set) Len() int {
	return bits.OnesCount64(uint64(s))
}

// AsSlice returns the Cards in this Set in increasing order.
func (s Set) AsSlice() []Card {
	result := make([]Card, 0, s.Len())
	s.Iter(func(card Card) {
		result = append(result, card)
	})

	return result
}

// Add includes the given Card in the Set.
func (s *Set) Add(card Card) {
	*s |= bit(card)
}

// Remove removes the given Card from the Set.
// Remove panics if the card is not present in the Set.
func (s *Set) Remove(card Card) {
	if !s.Contains(card) {
		panic(errors.Errorf("card %v not in set", card))
	}

	*s &^= bit(card)
}

// AddAll adds the given cards to the Set.
func (s *Set) AddAll(cards Set) {
	*s |= cards
}

// RemoveAll removes the given cards from the set.
// RemoveAll panics if the cards are not present to be removed.
func (s *Set) RemoveAll(cards Set) {
	if *s&cards != cards {
		panic(errors.Errorf("cannot remove %v from set %v", cards, *s))
	}

	*s &^= cards
}

// String implements Stringer.
func (s Set) String() string {
	var sb strings.Builder
	s.Iter(func(card Card) {
		sb.WriteString(card.String())
	})

	return sb.String()
}

func bit(card Card) Set {
	if int(card) >= NumCards {
		panic(errors.Errorf("invalid card %d", card))
	}

	return Set(1) << card
}
