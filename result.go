package deepresolve

import (
	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/deepresolve/gamestate"
)

// Result summarizes a completed solve at the root of the lookahead.
// Values are averaged over the iterations after burn-in.
type Result struct {
	// Actions are the legal actions at the root, in child order.
	Actions []gamestate.Action
	// Strategy is the A×H average strategy of the resolving player.
	Strategy *mat.Dense
	// RootCFV is the resolving player's counterfactual value per hand.
	RootCFV []float64
	// RootCFVBothPlayers is the 2×H matrix of root values for both players.
	RootCFVBothPlayers *mat.Dense
	// ChildrenCFV is the A×H matrix of opponent values after each action.
	ChildrenCFV *mat.Dense
	// OpponentRange is the opponent's range at the root on the final
	// iteration. For Resolve it is the range built by the gadget.
	OpponentRange []float64
}
