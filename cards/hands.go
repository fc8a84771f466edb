package cards

import (
	"fmt"
)

// Hand is a player's two private cards, lower card first.
type Hand [2]Card

// NewHand returns the Hand holding the two given cards.
func NewHand(a, b Card) Hand {
	if a == b {
		panic(fmt.Errorf("hand cannot hold %v twice", a))
	}

	if b < a {
		a, b = b, a
	}

	return Hand{a, b}
}

// Set returns the cards of the Hand as a Set.
func (h Hand) Set() Set {
	return NewSetFromCards(h[:])
}

func (h Hand) String() string {
	return h[0].String() + h[1].String()
}

// Hands enumerates the private hands that can be dealt from a deck.
// The position of a Hand in the enumeration is the hand index used
// by every range and counterfactual value vector.
type Hands struct {
	deck  []Card
	hands []Hand
	index map[Hand]int
}

// NewHands enumerates all two-card hands from the given deck.
func NewHands(deck []Card) *Hands {
	sorted := NewSetFromCards(deck).AsSlice()
	hands := make([]Hand, 0, len(sorted)*(len(sorted)-1)/2)
	index := make(map[Hand]int, cap(hands))
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			hand := Hand{sorted[i], sorted[j]}
			index[hand] = len(hands)
			hands = append(hands, hand)
		}
	}

	return &Hands{
		deck:  sorted,
		hands: hands,
		index: index,
	}
}

// Len returns the number of hands (H).
func (h *Hands) Len() int {
	return len(h.hands)
}

func (h *Hands) Hand(i int) Hand {
	return h.hands[i]
}

// Index returns the position of the given Hand, if it can be dealt from the deck.
func (h *Hands) Index(hand Hand) (int, bool) {
	i, ok := h.index[hand]
	return i, ok
}

func (h *Hands) Deck() []Card {
	return h.deck
}

// PossibleMask returns a vector with 1 for each hand that does
// not share a card with the board, and 0 otherwise.
func (h *Hands) PossibleMask(board Set) []float64 {
	result := make([]float64, len(h.hands))
	for i, hand := range h.hands {
		if !hand.Set().Intersects(board) {
			result[i] = 1
		}
	}

	return result
}

// UniformRange returns the uniform distribution over hands
// that are possible given the board.
func (h *Hands) UniformRange(board Set) []float64 {
	result := h.PossibleMask(board)
	n := 0.0
	for _, v := range result {
		n += v
	}

	if n == 0 {
		return result
	}

	for i := range result {
		result[i] /= n
	}

	return result
}

// NextBoards enumerates every way to deal n more cards from the deck
// onto the given board. Each returned Set includes the existing board.
func (h *Hands) NextBoards(board Set, n int) []Set {
	available := make([]Card, 0, len(h.deck))
	for _, card := range h.deck {
		if !board.Contains(card) {
			available = append(available, card)
		}
	}

	var result []Set
	enumerateBoards(available, board, n, &result)
	return result
}

func enumerateBoards(available []Card, current Set, remaining int, result *[]Set) {
	if remaining == 0 {
		*result = append(*result, current)
		return
	}

	for i := 0; i <= len(available)-remaining; i++ {
		next := current
		next.Add(available[i])
		enumerateBoards(available[i+1:], next, remaining-1, result)
	}
}
