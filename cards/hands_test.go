package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestParseCard(t *testing.T) {
	for _, tc := range []struct {
		in         string
		rank, suit int
	}{
		{"2c", 0, 0},
		{"As", 12, 3},
		{"td", 8, 1},
		{"KH", 11, 2},
	} {
		card, err := ParseCard(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.rank, card.Rank(), tc.in)
		assert.Equal(t, tc.suit, card.Suit(), tc.in)
	}

	for _, bad := range []string{"", "A", "1s", "Ax", "Asd"} {
		_, err := ParseCard(bad)
		assert.Error(t, err, bad)
	}
}

func TestCardPoker(t *testing.T) {
	as, err := ParseCard("As")
	require.NoError(t, err)
	require.True(t, as.Poker().Valid())

	deck, err := NewDeck(FullRanks)
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, card := range deck {
		seen[card.Poker().String()] = true
	}
	assert.Len(t, seen, NumCards)
}

func TestNewDeck(t *testing.T) {
	deck, err := NewDeck("TJQKA")
	require.NoError(t, err)
	assert.Len(t, deck, 20)

	full, err := NewDeck(FullRanks)
	require.NoError(t, err)
	assert.Len(t, full, NumCards)

	_, err = NewDeck("TT")
	assert.Error(t, err)
	_, err = NewDeck("T1")
	assert.Error(t, err)
	_, err = NewDeck("")
	assert.Error(t, err)
}

func TestHands(t *testing.T) {
	deck, err := NewDeck("TJQKA")
	require.NoError(t, err)
	hands := NewHands(deck)
	require.Equal(t, 190, hands.Len())

	for i := 0; i < hands.Len(); i++ {
		hand := hands.Hand(i)
		require.True(t, hand[0] < hand[1])
		idx, ok := hands.Index(hand)
		require.True(t, ok)
		require.Equal(t, i, idx)
	}

	c2, _ := ParseCard("2c")
	c3, _ := ParseCard("3c")
	_, ok := hands.Index(NewHand(c2, c3))
	assert.False(t, ok, "hand outside of the deck should not be indexed")
}

func TestPossibleMask(t *testing.T) {
	deck, err := NewDeck("TJQKA")
	require.NoError(t, err)
	hands := NewHands(deck)
	board, err := ParseSet("AsKdQh7c2d")
	require.NoError(t, err)

	mask := hands.PossibleMask(board)
	n := 0.0
	for i, v := range mask {
		if hands.Hand(i).Set().Intersects(board) {
			assert.Zero(t, v)
		} else {
			assert.Equal(t, 1.0, v)
		}
		n += v
	}
	// 3 of the 20 deck cards are on the board.
	assert.Equal(t, float64(17*16/2), n)

	uniform := hands.UniformRange(board)
	total := 0.0
	for _, v := range uniform {
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestNextBoards(t *testing.T) {
	deck, err := NewDeck("TJQKA")
	require.NoError(t, err)
	hands := NewHands(deck)
	board, err := ParseSet("AsKdQh")
	require.NoError(t, err)

	turns := hands.NextBoards(board, 1)
	require.Len(t, turns, 17)
	for _, turn := range turns {
		require.Equal(t, 4, turn.Len())
		require.Equal(t, board, turn&board)
	}

	flops := hands.NextBoards(NewSet(), 3)
	assert.Len(t, flops, 20*19*18/6)
}

func TestRandomBoard(t *testing.T) {
	deck, err := NewDeck(FullRanks)
	require.NoError(t, err)
	exclude, err := ParseSet("AsKs")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	board, err := RandomBoard(rng, deck, exclude, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, board.Len())
	assert.False(t, board.Intersects(exclude))

	_, err = RandomBoard(rng, deck[:3], 0, 5)
	assert.Error(t, err)
}
