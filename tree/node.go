// Package tree defines the public game tree that is re-solved, and
// builds depth-limited lookahead trees from a public game state.
package tree

import (
	"fmt"

	"github.com/timpalpant/go-cfr"
	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/deepresolve/cards"
	"github.com/timpalpant/deepresolve/gamestate"
)

// TerminalKind distinguishes how the hand ended at a terminal Node.
type TerminalKind uint8

const (
	_ TerminalKind = iota
	Fold
	Showdown
)

var terminalKindStr = [...]string{
	"Invalid",
	"Fold",
	"Showdown",
}

func (k TerminalKind) String() string {
	return terminalKindStr[k]
}

// Node is a public game tree node. Each Node exclusively owns its
// Children, so the tree has no shared or cyclic references.
//
// The matrices are indexed [player][hand] (2×H) or [action][hand]
// (A×H), where H is the number of private hands and actions are in
// the order of Children.
type Node struct {
	// Player is the player to act, or gamestate.Chance. At a Fold
	// terminal it is the player who did not fold.
	Player gamestate.Player
	// Terminal nodes end the hand, and have a Kind.
	Terminal bool
	Kind     TerminalKind
	// Pot is the amount at stake: the smaller commitment of the two players.
	Pot    float64
	Street gamestate.Street
	Board  cards.Set
	Bets   [gamestate.NumPlayers]float64
	// Action is the action taken by the parent to reach this Node.
	// For children of chance nodes it is the zero Action.
	Action gamestate.Action
	// Depth is the number of edges from the root.
	Depth int

	Children []Node

	// ChanceProbs[a][h] is the probability that chance deals child a
	// given that the player holds hand h. Chance nodes only.
	ChanceProbs *mat.Dense

	// Ranges are each player's reach-weighted range at this Node.
	// Overwritten on every iteration.
	Ranges *mat.Dense
	// Regrets are the accumulated regrets, floored at a small epsilon.
	// Decision nodes only.
	Regrets *mat.Dense
	// CurrentStrategy is the regret-matching strategy of the most
	// recent iteration. Decision nodes only.
	CurrentStrategy *mat.Dense
	// Strategy is the average strategy. It is nil until the first
	// iteration after burn-in.
	Strategy *mat.Dense
	// IterWeightSum is the per-hand total reach weight accumulated
	// into Strategy.
	IterWeightSum []float64
	// CFValues are each player's counterfactual values at this Node
	// from the most recent iteration.
	CFValues *mat.Dense
	// AvgCFValues is the mean of CFValues over the iterations after
	// burn-in, and AvgCFValuesIters counts them. AvgCFValues is nil
	// until the first iteration after burn-in.
	AvgCFValues      *mat.Dense
	AvgCFValuesIters int
}

// Type implements the node type classification of cfr.GameTreeNode.
func (n *Node) Type() cfr.NodeType {
	switch {
	case n.Terminal:
		return cfr.TerminalNode
	case n.Player == gamestate.Chance:
		return cfr.ChanceNode
	default:
		return cfr.PlayerNode
	}
}

func (n *Node) NumChildren() int {
	return len(n.Children)
}

// FoldingPlayer returns the player who folded to reach a Fold terminal.
func (n *Node) FoldingPlayer() gamestate.Player {
	if !n.Terminal || n.Kind != Fold {
		panic(fmt.Errorf("no folding player at %v", n))
	}

	return n.Player.Opponent()
}

// Actions returns the actions leading to each child, in child order.
func (n *Node) Actions() []gamestate.Action {
	result := make([]gamestate.Action, len(n.Children))
	for i := range n.Children {
		result[i] = n.Children[i].Action
	}

	return result
}

// Visit calls f on every Node in the subtree rooted at n, parents
// before children.
func (n *Node) Visit(f func(node *Node)) {
	f(n)
	for i := range n.Children {
		n.Children[i].Visit(f)
	}
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	switch n.Type() {
	case cfr.TerminalNode:
		return fmt.Sprintf("%v terminal on %v [%v], pot %v", n.Kind, n.Street, n.Board, n.Pot)
	case cfr.ChanceNode:
		return fmt.Sprintf("Chance to deal %v from [%v] (%d outcomes)",
			n.Street+1, n.Board, len(n.Children))
	default:
		return fmt.Sprintf("%v to act on %v [%v], bets %v/%v (%d actions)",
			n.Player, n.Street, n.Board, n.Bets[0], n.Bets[1], len(n.Children))
	}
}
