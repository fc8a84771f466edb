// Package deepresolve implements continual re-solving for heads-up
// hold'em style games: it builds a lookahead tree at a public state,
// solves it with CFR and answers queries about the solution that let a
// caller act and carry values forward to the next re-solve.
package deepresolve

import (
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/deepresolve/cards"
	"github.com/timpalpant/deepresolve/equity"
	"github.com/timpalpant/deepresolve/gadget"
	"github.com/timpalpant/deepresolve/gamestate"
	"github.com/timpalpant/deepresolve/tree"
	"github.com/timpalpant/deepresolve/treecfr"
)

// Resolver re-solves lookahead trees and answers queries about the
// most recent solve. A Resolver is not safe for concurrent use.
type Resolver struct {
	cfg        Config
	hands      *cards.Hands
	builder    *tree.Builder
	evaluators treecfr.EvaluatorFactory

	// Valid only after a successful solve.
	root   *tree.Node
	result *Result
}

// NewResolver returns a Resolver for the given private hand enumeration.
func NewResolver(cfg Config, hands *cards.Hands) *Resolver {
	factory := equity.NewFactory(hands)
	return &Resolver{
		cfg:     cfg,
		hands:   hands,
		builder: tree.NewBuilder(hands, cfg.TreeParams()),
		evaluators: treecfr.EvaluatorFactoryFunc(func(board cards.Set) (treecfr.Evaluator, error) {
			ev, err := factory.NewEvaluator(board)
			if err != nil {
				return nil, err
			}

			return ev, nil
		}),
	}
}

// ResolveFirstNode solves the lookahead at the root of the game, where
// both ranges are known. The resolving player is the player to act in
// state. Ranges need not be normalized.
func (r *Resolver) ResolveFirstNode(state gamestate.GameState, playerRange, opponentRange []float64) (*Result, error) {
	r.clear()
	if err := r.checkVector("player range", playerRange, true); err != nil {
		return nil, err
	}
	if err := r.checkVector("opponent range", opponentRange, true); err != nil {
		return nil, err
	}

	root, err := r.builder.Build(state)
	if err != nil {
		return nil, err
	}

	ranges := r.startingRanges(state.Player, playerRange, opponentRange)
	return r.solve(root, ranges, r.cfg.Iterations, r.cfg.SkipIterations, nil), nil
}

// Resolve solves the lookahead at an interior node reached during play.
// The opponent's range is reconstructed from the values they achieved at
// this node in the previous solve, using the CFR-D gadget.
func (r *Resolver) Resolve(state gamestate.GameState, playerRange, opponentCFV []float64, skipIters, iters int) (*Result, error) {
	r.clear()
	if err := r.checkVector("player range", playerRange, true); err != nil {
		return nil, err
	}
	if err := r.checkVector("opponent cfvs", opponentCFV, false); err != nil {
		return nil, err
	}

	root, err := r.builder.Build(state)
	if err != nil {
		return nil, err
	}

	// The gadget starts with no play values, then refines the opponent's
	// range after every iteration from their values at the root.
	g := gadget.NewCFRD(state.Board, r.hands, opponentCFV)
	opponentRange := g.OpponentRange(make([]float64, r.hands.Len()))
	ranges := r.startingRanges(state.Player, playerRange, opponentRange)
	opponent := int(state.Player.Opponent())
	update := func(iter int, node *tree.Node) {
		next := g.OpponentRange(node.CFValues.RawRowView(opponent))
		node.Ranges.SetRow(opponent, next)
	}

	return r.solve(root, ranges, iters, skipIters, update), nil
}

func (r *Resolver) solve(root *tree.Node, ranges *mat.Dense, iters, skipIters int, update treecfr.RangeUpdater) *Result {
	if iters <= 0 {
		panic(errors.Errorf("cannot re-solve with %d iterations", iters))
	}

	glog.V(1).Infof("Re-solving %v for %d iterations", root, iters)
	start := time.Now()
	engine := treecfr.New(r.evaluators)
	defer engine.Close()
	engine.RunWithUpdater(root, ranges, iters, skipIters, update)

	stats := engine.Stats()
	glog.V(1).Infof("Re-solved in %v: %d terminal equities built, %d cache hits",
		time.Since(start), stats.EvaluatorsBuilt, stats.EvaluatorCacheHits)

	r.root = root
	r.result = newResult(root)
	return r.result
}

func (r *Resolver) clear() {
	r.root = nil
	r.result = nil
}

func (r *Resolver) startingRanges(player gamestate.Player, playerRange, opponentRange []float64) *mat.Dense {
	ranges := mat.NewDense(gamestate.NumPlayers, r.hands.Len(), nil)
	ranges.SetRow(int(player), playerRange)
	ranges.SetRow(int(player.Opponent()), opponentRange)
	return ranges
}

func (r *Resolver) checkVector(name string, v []float64, nonNegative bool) error {
	if len(v) != r.hands.Len() {
		return errors.Errorf("%s has length %d, expected %d", name, len(v), r.hands.Len())
	}

	for h, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errors.Errorf("%s has invalid value %v for hand %v", name, x, r.hands.Hand(h))
		}
		if nonNegative && x < 0 {
			return errors.Errorf("%s has negative mass %v for hand %v", name, x, r.hands.Hand(h))
		}
	}

	return nil
}

func newResult(root *tree.Node) *Result {
	player := int(root.Player)
	opponent := int(root.Player.Opponent())
	_, nHands := root.Ranges.Dims()

	strategy := root.Strategy
	if strategy == nil {
		// Every iteration was burn-in.
		strategy = root.CurrentStrategy
	}

	childrenCFV := mat.NewDense(len(root.Children), nHands, nil)
	for a := range root.Children {
		childrenCFV.SetRow(a, averageValues(&root.Children[a]).RawRowView(opponent))
	}

	rootCFV := averageValues(root)
	return &Result{
		Actions:            root.Actions(),
		Strategy:           mat.DenseCopyOf(strategy),
		RootCFV:            append([]float64(nil), rootCFV.RawRowView(player)...),
		RootCFVBothPlayers: mat.DenseCopyOf(rootCFV),
		ChildrenCFV:        childrenCFV,
		OpponentRange:      append([]float64(nil), root.Ranges.RawRowView(opponent)...),
	}
}

// averageValues returns the node's values averaged over the iterations
// after burn-in, or the final iteration's values if all were burn-in.
func averageValues(node *tree.Node) *mat.Dense {
	if node.AvgCFValues == nil {
		return node.CFValues
	}

	return node.AvgCFValues
}

func (r *Resolver) mustBeSolved() {
	if r.result == nil {
		panic(errors.New("resolver has no solution: call Resolve or ResolveFirstNode first"))
	}
}

// PossibleActions returns the legal actions at the resolved root. Their
// order is the action order of every other query.
func (r *Resolver) PossibleActions() []gamestate.Action {
	r.mustBeSolved()
	return append([]gamestate.Action(nil), r.result.Actions...)
}

// RootCFV returns the resolving player's values at the root, averaged
// over the iterations after burn-in.
func (r *Resolver) RootCFV() []float64 {
	r.mustBeSolved()
	return append([]float64(nil), r.result.RootCFV...)
}

// RootCFVBothPlayers returns the 2×H root values of both players.
func (r *Resolver) RootCFVBothPlayers() *mat.Dense {
	r.mustBeSolved()
	return mat.DenseCopyOf(r.result.RootCFVBothPlayers)
}

// ActionCFV returns the opponent's values after the resolving player
// takes the given action. These are carried forward to the next Resolve.
func (r *Resolver) ActionCFV(action gamestate.Action) []float64 {
	id := r.actionToActionID(action)
	return append([]float64(nil), r.result.ChildrenCFV.RawRowView(id)...)
}

// ChanceActionCFV returns the opponent's values after the given action
// ends the street and the given board is dealt.
func (r *Resolver) ChanceActionCFV(action gamestate.Action, board cards.Set) []float64 {
	id := r.actionToActionID(action)
	child := &r.root.Children[id]
	if child.Player != gamestate.Chance || child.Terminal {
		panic(errors.Errorf("action %v does not lead to a chance node", action))
	}

	opponent := int(r.root.Player.Opponent())
	for i := range child.Children {
		if next := &child.Children[i]; next.Board == board {
			return append([]float64(nil), averageValues(next).RawRowView(opponent)...)
		}
	}

	panic(errors.Errorf("board %v is not dealt after action %v", board, action))
}

// ActionStrategy returns the probability of taking the given action
// with each private hand.
func (r *Resolver) ActionStrategy(action gamestate.Action) []float64 {
	id := r.actionToActionID(action)
	return append([]float64(nil), r.result.Strategy.RawRowView(id)...)
}

func (r *Resolver) actionToActionID(action gamestate.Action) int {
	r.mustBeSolved()
	for i, a := range r.result.Actions {
		if a == action {
			return i
		}
	}

	panic(errors.Errorf("action %v is not legal at the resolved root, legal actions are %v",
		action, r.result.Actions))
}
