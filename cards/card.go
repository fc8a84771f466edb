package cards

import (
	"strings"

	"github.com/paulhankin/poker"
	"github.com/pkg/errors"
)

// Card represents one card from a standard 52-card deck.
// Cards are numbered rank*NumSuits + suit, with ranks ordered
// from deuce (0) to ace (12) and suits ordered clubs, diamonds,
// hearts, spades.
type Card uint8

const (
	NumRanks = 13
	NumSuits = 4
	// The number of distinct Cards.
	NumCards = NumRanks * NumSuits
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// NewCard returns the Card with the given rank (0 = deuce, 12 = ace) and suit.
func NewCard(rank, suit int) Card {
	if rank < 0 || rank >= NumRanks || suit < 0 || suit >= NumSuits {
		panic(errors.Errorf("invalid card rank %d suit %d", rank, suit))
	}

	return Card(rank*NumSuits + suit)
}

// ParseCard parses a two-character card such as "As" or "Td".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, errors.Errorf("invalid card %q", s)
	}

	rank := strings.IndexByte(rankChars, upper(s[0]))
	if rank < 0 {
		return 0, errors.Errorf("invalid rank in card %q", s)
	}

	suit := strings.IndexByte(suitChars, lower(s[1]))
	if suit < 0 {
		return 0, errors.Errorf("invalid suit in card %q", s)
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a run of concatenated cards such as "AsKd7c".
func ParseCards(s string) ([]Card, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return nil, errors.Errorf("odd number of characters in cards %q", s)
	}

	result := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q", s)
		}

		result = append(result, card)
	}

	return result, nil
}

func (c Card) Rank() int {
	return int(c) / NumSuits
}

func (c Card) Suit() int {
	return int(c) % NumSuits
}

// String implements Stringer.
func (c Card) String() string {
	if int(c) >= NumCards {
		return "??"
	}

	return string([]byte{rankChars[c.Rank()], suitChars[c.Suit()]})
}

// Poker converts the Card to the hand evaluator's representation.
// The evaluator numbers ranks ace-low (ace = 1, king = 13).
func (c Card) Poker() poker.Card {
	rank := c.Rank() + 2
	if rank == 14 {
		rank = 1
	}

	pc, err := poker.MakeCard(poker.Suit(c.Suit()), poker.Rank(rank))
	if err != nil {
		panic(errors.Wrapf(err, "converting card %v", c))
	}

	return pc
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}

	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}

	return b
}
