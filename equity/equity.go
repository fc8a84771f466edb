// Package equity computes terminal payoffs for a board: the value of
// each private hand when the opponent folds, or at showdown, against
// the opponent's range.
package equity

import (
	"github.com/golang/glog"
	"github.com/paulhankin/poker"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/deepresolve/cards"
	"github.com/timpalpant/deepresolve/gamestate"
)

// Factory builds Evaluators for a fixed enumeration of private hands.
type Factory struct {
	hands *cards.Hands
}

func NewFactory(hands *cards.Hands) *Factory {
	return &Factory{hands: hands}
}

// Evaluator holds the fold and showdown matrices for one board.
// It is never mutated after construction.
type Evaluator struct {
	board cards.Set
	// foldMatrix[i][j] is 1 if hands i and j can both be dealt with
	// this board, and 0 otherwise.
	foldMatrix *mat.Dense
	// callMatrix[i][j] is +1 if hand i beats hand j at showdown,
	// -1 if it loses and 0 on a tie or if the hands block each other.
	// Nil unless the board is complete.
	callMatrix *mat.Dense
}

// NewEvaluator builds the Evaluator for the given board.
func (f *Factory) NewEvaluator(board cards.Set) (*Evaluator, error) {
	if board.Len() > gamestate.River.BoardSize() {
		return nil, errors.Errorf("board %v has more than %d cards",
			board, gamestate.River.BoardSize())
	}

	n := f.hands.Len()
	glog.V(3).Infof("Building terminal equity for board %v (%d hands)", board, n)
	ev := &Evaluator{
		board:      board,
		foldMatrix: mat.NewDense(n, n, nil),
	}

	possible := f.hands.PossibleMask(board)
	for i := 0; i < n; i++ {
		if possible[i] == 0 {
			continue
		}

		hi := f.hands.Hand(i).Set()
		for j := 0; j < n; j++ {
			if possible[j] != 0 && !hi.Intersects(f.hands.Hand(j).Set()) {
				ev.foldMatrix.Set(i, j, 1)
			}
		}
	}

	if board.Len() == gamestate.River.BoardSize() {
		ev.callMatrix = f.buildCallMatrix(board, ev.foldMatrix, possible)
	}

	return ev, nil
}

func (f *Factory) buildCallMatrix(board cards.Set, foldMatrix *mat.Dense, possible []float64) *mat.Dense {
	n := f.hands.Len()
	var sevenCards [7]poker.Card
	for i, card := range board.AsSlice() {
		sevenCards[i] = card.Poker()
	}

	strength := make([]int16, n)
	for i := 0; i < n; i++ {
		if possible[i] == 0 {
			continue
		}

		hand := f.hands.Hand(i)
		sevenCards[5] = hand[0].Poker()
		sevenCards[6] = hand[1].Poker()
		strength[i] = poker.Eval7(&sevenCards)
	}

	result := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if foldMatrix.At(i, j) == 0 {
				continue
			}

			switch {
			case strength[i] > strength[j]:
				result.Set(i, j, 1)
			case strength[i] < strength[j]:
				result.Set(i, j, -1)
			}
		}
	}

	return result
}

// Board returns the board the Evaluator was built for.
func (ev *Evaluator) Board() cards.Set {
	return ev.board
}

// FoldValue computes the counterfactual values of both players when
// the given player folds, per unit of pot. ranges and result are 2×H
// matrices with one row per player. The player who did not fold wins
// against every compatible opponent hand, and the folder loses.
func (ev *Evaluator) FoldValue(ranges, result *mat.Dense, foldingPlayer gamestate.Player) {
	ev.opponentProduct(ranges, result, ev.foldMatrix)
	row := result.RawRowView(int(foldingPlayer))
	for i := range row {
		row[i] = -row[i]
	}
}

// CallValue computes the counterfactual values of both players at
// showdown, per unit of pot. It panics if the board is incomplete.
func (ev *Evaluator) CallValue(ranges, result *mat.Dense) {
	if ev.callMatrix == nil {
		panic(errors.Errorf("showdown on incomplete board %v", ev.board))
	}

	ev.opponentProduct(ranges, result, ev.callMatrix)
}

// opponentProduct sets result[p][h] = Σ_j ranges[1-p][j] * m[h][j].
func (ev *Evaluator) opponentProduct(ranges, result *mat.Dense, m *mat.Dense) {
	checkShape(ranges, m)
	checkShape(result, m)
	for p := 0; p < gamestate.NumPlayers; p++ {
		opponentRange := mat.NewVecDense(len(ranges.RawRowView(1-p)), ranges.RawRowView(1-p))
		dst := mat.NewVecDense(len(result.RawRowView(p)), result.RawRowView(p))
		dst.MulVec(m, opponentRange)
	}
}

func checkShape(a, m *mat.Dense) {
	r, c := a.Dims()
	n, _ := m.Dims()
	if r != gamestate.NumPlayers || c != n {
		panic(errors.Errorf("expected %dx%d matrix, got %dx%d", gamestate.NumPlayers, n, r, c))
	}
}
