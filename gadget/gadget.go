// Package gadget reconstructs an opponent range for re-solving from the
// counterfactual values the opponent achieved in a previous solve.
package gadget

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/timpalpant/deepresolve/cards"
)

// regretEpsilon floors the gadget's regrets so regret matching is
// always well defined.
const regretEpsilon = 1.0 / 1000000000

// CFRD is the CFR-D gadget. For each opponent hand it runs regret
// matching between entering the subgame ("play") and taking the value
// carried forward from the previous solve ("terminate"). The probability
// of playing is the opponent's range in the re-solved subgame.
type CFRD struct {
	terminateValues []float64
	possible        []float64

	playStrategy      []float64
	terminateStrategy []float64
	playRegrets       []float64
	terminateRegrets  []float64
	totalValues       []float64
}

// NewCFRD returns a gadget for the given board. opponentCFV holds one
// value per hand in hands.
func NewCFRD(board cards.Set, hands *cards.Hands, opponentCFV []float64) *CFRD {
	n := hands.Len()
	if len(opponentCFV) != n {
		panic(errors.Errorf("opponent cfvs have length %d, expected %d", len(opponentCFV), n))
	}

	terminateStrategy := make([]float64, n)
	for i := range terminateStrategy {
		terminateStrategy[i] = 1
	}

	return &CFRD{
		terminateValues:   append([]float64(nil), opponentCFV...),
		possible:          hands.PossibleMask(board),
		playStrategy:      make([]float64, n),
		terminateStrategy: terminateStrategy,
		playRegrets:       make([]float64, n),
		terminateRegrets:  make([]float64, n),
		totalValues:       make([]float64, n),
	}
}

// OpponentRange runs one gadget iteration given the opponent's current
// values for playing the subgame, and returns the resulting opponent
// range. Hands blocked by the board get zero mass.
func (g *CFRD) OpponentRange(playValues []float64) []float64 {
	if len(playValues) != len(g.terminateValues) {
		panic(errors.Errorf("play values have length %d, expected %d",
			len(playValues), len(g.terminateValues)))
	}

	// Value of the current gadget strategy.
	floats.MulTo(g.totalValues, playValues, g.playStrategy)
	for h := range g.totalValues {
		g.totalValues[h] += g.terminateValues[h] * g.terminateStrategy[h]
	}

	for h := range g.totalValues {
		g.playRegrets[h] += playValues[h] - g.totalValues[h]
		g.terminateRegrets[h] += g.terminateValues[h] - g.totalValues[h]
		if g.playRegrets[h] < regretEpsilon {
			g.playRegrets[h] = regretEpsilon
		}
		if g.terminateRegrets[h] < regretEpsilon {
			g.terminateRegrets[h] = regretEpsilon
		}
	}

	for h := range g.playStrategy {
		sum := g.playRegrets[h] + g.terminateRegrets[h]
		g.playStrategy[h] = g.playRegrets[h] / sum
		g.terminateStrategy[h] = g.terminateRegrets[h] / sum
	}

	result := make([]float64, len(g.playStrategy))
	floats.MulTo(result, g.playStrategy, g.possible)
	return result
}
