package cards

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// FullRanks lists every rank of a standard deck.
const FullRanks = rankChars

// NewDeck returns every suit of the given ranks, e.g. "TJQKA" for a
// 20-card short deck. Cards are returned in increasing order.
func NewDeck(ranks string) ([]Card, error) {
	if ranks == "" {
		return nil, errors.New("deck must contain at least one rank")
	}

	var set Set
	for i := 0; i < len(ranks); i++ {
		rank := strings.IndexByte(rankChars, upper(ranks[i]))
		if rank < 0 {
			return nil, errors.Errorf("invalid rank %q in %q", ranks[i], ranks)
		}

		for suit := 0; suit < NumSuits; suit++ {
			card := NewCard(rank, suit)
			if set.Contains(card) {
				return nil, errors.Errorf("duplicate rank %q in %q", ranks[i], ranks)
			}
			set.Add(card)
		}
	}

	return set.AsSlice(), nil
}

// RandomBoard deals n distinct cards from the deck, skipping any in exclude.
func RandomBoard(rng *rand.Rand, deck []Card, exclude Set, n int) (Set, error) {
	available := make([]Card, 0, len(deck))
	for _, card := range deck {
		if !exclude.Contains(card) {
			available = append(available, card)
		}
	}

	if n > len(available) {
		return 0, errors.Errorf("cannot deal %d cards from %d available", n, len(available))
	}

	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	return NewSetFromCards(available[:n]), nil
}
