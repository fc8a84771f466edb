package equity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/deepresolve/cards"
	"github.com/timpalpant/deepresolve/gamestate"
)

func newTestEvaluator(t *testing.T, board string) (*cards.Hands, *Evaluator) {
	deck, err := cards.NewDeck("TJQKA")
	require.NoError(t, err)
	hands := cards.NewHands(deck)
	set, err := cards.ParseSet(board)
	require.NoError(t, err)
	ev, err := NewFactory(hands).NewEvaluator(set)
	require.NoError(t, err)
	require.Equal(t, set, ev.Board())
	return hands, ev
}

func handIndex(t *testing.T, hands *cards.Hands, s string) int {
	cs, err := cards.ParseCards(s)
	require.NoError(t, err)
	i, ok := hands.Index(cards.NewHand(cs[0], cs[1]))
	require.True(t, ok)
	return i
}

func uniformRanges(hands *cards.Hands, board cards.Set) *mat.Dense {
	r := hands.UniformRange(board)
	ranges := mat.NewDense(gamestate.NumPlayers, hands.Len(), nil)
	ranges.SetRow(0, r)
	ranges.SetRow(1, r)
	return ranges
}

func TestCallMatrix(t *testing.T) {
	hands, ev := newTestEvaluator(t, "AsKdQh7c2d")
	// Broadway straight beats trips, which beat two pair.
	straight := handIndex(t, hands, "JcTc")
	trips := handIndex(t, hands, "AhAd")
	twoPair := handIndex(t, hands, "KhQd")
	blocked := handIndex(t, hands, "AsTh")

	assert.Equal(t, 1.0, ev.callMatrix.At(straight, trips))
	assert.Equal(t, -1.0, ev.callMatrix.At(trips, straight))
	assert.Equal(t, 1.0, ev.callMatrix.At(trips, twoPair))
	assert.Zero(t, ev.callMatrix.At(straight, blocked), "hand blocked by the board")
	assert.Zero(t, ev.foldMatrix.At(straight, blocked))
	assert.Zero(t, ev.foldMatrix.At(straight, handIndex(t, hands, "JcJh")), "hands sharing a card")

	n, _ := ev.callMatrix.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			require.Equal(t, ev.callMatrix.At(i, j), -ev.callMatrix.At(j, i))
			require.Equal(t, ev.foldMatrix.At(i, j), ev.foldMatrix.At(j, i))
		}
	}
}

func TestFoldValue_ZeroSum(t *testing.T) {
	hands, ev := newTestEvaluator(t, "AsKdQh7c2d")
	ranges := uniformRanges(hands, ev.Board())
	result := mat.NewDense(gamestate.NumPlayers, hands.Len(), nil)

	for _, folder := range []gamestate.Player{gamestate.Player0, gamestate.Player1} {
		ev.FoldValue(ranges, result, folder)
		for h := 0; h < hands.Len(); h++ {
			require.InDelta(t, 0, result.At(0, h)+result.At(1, h), 1e-12)
			require.True(t, result.At(int(folder), h) <= 0)
		}
	}
}

func TestFoldValue_RangeWeightedZeroSum(t *testing.T) {
	hands, ev := newTestEvaluator(t, "AsKdQh7c2d")
	ranges := uniformRanges(hands, ev.Board())
	// Skew player 1's range towards the first half of the hands.
	row := ranges.RawRowView(1)
	for i := range row[:len(row)/2] {
		row[i] *= 3
	}

	result := mat.NewDense(gamestate.NumPlayers, hands.Len(), nil)
	ev.FoldValue(ranges, result, gamestate.Player1)
	total := floats.Dot(ranges.RawRowView(0), result.RawRowView(0)) +
		floats.Dot(ranges.RawRowView(1), result.RawRowView(1))
	assert.InDelta(t, 0, total, 1e-9)
}

func TestCallValue_ZeroSum(t *testing.T) {
	hands, ev := newTestEvaluator(t, "AsKdQh7c2d")
	ranges := uniformRanges(hands, ev.Board())
	ranges.Set(0, handIndex(t, hands, "JcTc"), 0.5)

	result := mat.NewDense(gamestate.NumPlayers, hands.Len(), nil)
	ev.CallValue(ranges, result)
	total := floats.Dot(ranges.RawRowView(0), result.RawRowView(0)) +
		floats.Dot(ranges.RawRowView(1), result.RawRowView(1))
	assert.InDelta(t, 0, total, 1e-9)

	straight := handIndex(t, hands, "JcTc")
	assert.True(t, result.At(1, straight) > 0, "the nuts should win at showdown")
}

func TestCallValue_IncompleteBoard(t *testing.T) {
	hands, ev := newTestEvaluator(t, "AsKdQh")
	ranges := uniformRanges(hands, ev.Board())
	result := mat.NewDense(gamestate.NumPlayers, hands.Len(), nil)
	assert.Panics(t, func() { ev.CallValue(ranges, result) })

	ev.FoldValue(ranges, result, gamestate.Player0)
	assert.True(t, result.At(1, handIndex(t, hands, "JcTc")) > 0)
}

func TestShapeMismatch(t *testing.T) {
	_, ev := newTestEvaluator(t, "AsKdQh7c2d")
	assert.Panics(t, func() {
		ev.FoldValue(mat.NewDense(2, 3, nil), mat.NewDense(2, 3, nil), gamestate.Player0)
	})
}
