// Package treecfr runs counterfactual regret minimization over a
// public game tree, updating the ranges, regrets, strategies and
// counterfactual values stored on each tree.Node in place.
package treecfr

import (
	"expvar"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/timpalpant/go-cfr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/deepresolve/gamestate"
	"github.com/timpalpant/deepresolve/tree"
)

// RegretEpsilon is the floor for accumulated regrets, and for the
// reach weight used in the average strategy. Keeping regrets strictly
// positive means regret matching never divides by zero.
const RegretEpsilon = 1.0 / 1000000000

var (
	nodesVisited         = expvar.NewInt("treecfr/nodes_visited")
	terminalNodesVisited = expvar.NewInt("treecfr/nodes_visited/terminal")
	playerNodesVisited   = expvar.NewInt("treecfr/nodes_visited/player")
	chanceNodesVisited   = expvar.NewInt("treecfr/nodes_visited/chance")
)

// Stats summarizes the work done by a TreeCFR.
type Stats struct {
	// Iterations is the total number of iterations run.
	Iterations int
	// EvaluatorsBuilt counts terminal equity cache misses.
	EvaluatorsBuilt int
	// EvaluatorCacheHits counts terminal equity cache hits.
	EvaluatorCacheHits int
}

// TreeCFR runs CFR iterations over a tree. It owns a cache of terminal
// equity evaluators that lives until Close. A TreeCFR is not safe for
// concurrent use.
type TreeCFR struct {
	evaluators *evaluatorCache
	skipIters  int
	iterations int
}

// New returns a TreeCFR that builds terminal equity with the given factory.
func New(factory EvaluatorFactory) *TreeCFR {
	return &TreeCFR{
		evaluators: newEvaluatorCache(factory),
	}
}

// RangeUpdater may overwrite root.Ranges before iteration iter. It is
// not called before the first iteration.
type RangeUpdater func(iter int, root *tree.Node)

// Run sets the root ranges to startingRanges (2×H) and runs iterCount
// CFR iterations over the tree. The average strategy and average
// counterfactual values are not updated during the first skipIters
// iterations.
//
// Run panics if the starting ranges are empty or iterCount < skipIters.
func (c *TreeCFR) Run(root *tree.Node, startingRanges *mat.Dense, iterCount, skipIters int) {
	c.RunWithUpdater(root, startingRanges, iterCount, skipIters, nil)
}

// RunWithUpdater is like Run, but calls update between iterations so
// the caller can adjust the root ranges from the previous iteration's
// values.
func (c *TreeCFR) RunWithUpdater(root *tree.Node, startingRanges *mat.Dense, iterCount, skipIters int, update RangeUpdater) {
	if startingRanges == nil || startingRanges.IsEmpty() {
		panic(errors.New("starting ranges must not be empty"))
	}
	if rows, _ := startingRanges.Dims(); rows != gamestate.NumPlayers {
		panic(errors.Errorf("starting ranges have %d rows, expected %d", rows, gamestate.NumPlayers))
	}
	if skipIters < 0 || iterCount < skipIters {
		panic(errors.Errorf("invalid iteration count %d with %d skip iterations", iterCount, skipIters))
	}

	glog.V(1).Infof("Running %d CFR iterations (%d skipped) from %v", iterCount, skipIters, root)
	start := time.Now()
	c.skipIters = skipIters
	root.Ranges = mat.DenseCopyOf(startingRanges)
	for iter := 0; iter < iterCount; iter++ {
		if update != nil && iter > 0 {
			update(iter, root)
			checkDims(root.Ranges, gamestate.NumPlayers, startingCols(startingRanges), "updated root ranges")
		}

		c.iterDFS(root, iter)
		c.iterations++
		if iterCount >= 10 && (iter+1)%(iterCount/10) == 0 {
			glog.V(2).Infof("Finished %d of %d iterations", iter+1, iterCount)
		}
	}

	glog.V(1).Infof("Finished %d CFR iterations in %v (%d terminal equities cached)",
		iterCount, time.Since(start), c.evaluators.len())
}

// Stats returns counters accumulated since the TreeCFR was created.
func (c *TreeCFR) Stats() Stats {
	return Stats{
		Iterations:         c.iterations,
		EvaluatorsBuilt:    c.evaluators.misses,
		EvaluatorCacheHits: c.evaluators.hits,
	}
}

// Close releases the cached terminal equity evaluators.
func (c *TreeCFR) Close() {
	c.evaluators.clear()
}

func (c *TreeCFR) iterDFS(node *tree.Node, iter int) {
	nodesVisited.Add(1)
	switch node.Type() {
	case cfr.TerminalNode:
		terminalNodesVisited.Add(1)
		c.fillTerminalValues(node)
	case cfr.ChanceNode:
		chanceNodesVisited.Add(1)
		c.fillChanceValues(node, iter)
	case cfr.PlayerNode:
		playerNodesVisited.Add(1)
		c.fillPlayerValues(node, iter)
	default:
		panic(errors.Errorf("unknown node type %v", node.Type()))
	}

	if iter >= c.skipIters {
		updateAverageValues(node)
	}
}

func (c *TreeCFR) fillTerminalValues(node *tree.Node) {
	nHands := numHands(node)
	node.CFValues = ensureDense(node.CFValues, gamestate.NumPlayers, nHands, "cf values")
	node.CFValues.Zero()

	ev := c.evaluators.get(node.Board)
	switch node.Kind {
	case tree.Fold:
		ev.FoldValue(node.Ranges, node.CFValues, node.FoldingPlayer())
	case tree.Showdown:
		ev.CallValue(node.Ranges, node.CFValues)
	default:
		panic(errors.Errorf("invalid terminal kind %v at %v", node.Kind, node))
	}

	node.CFValues.Scale(node.Pot, node.CFValues)
}

// fillChanceValues splits both ranges over the chance outcomes using
// the fixed deal probabilities, and sums the children's values.
func (c *TreeCFR) fillChanceValues(node *tree.Node, iter int) {
	nHands := numHands(node)
	nActions := numActions(node)
	checkDims(node.ChanceProbs, nActions, nHands, "chance probabilities")

	for a := range node.Children {
		child := &node.Children[a]
		child.Ranges = ensureDense(child.Ranges, gamestate.NumPlayers, nHands, "ranges")
		probs := node.ChanceProbs.RawRowView(a)
		for p := 0; p < gamestate.NumPlayers; p++ {
			floats.MulTo(child.Ranges.RawRowView(p), node.Ranges.RawRowView(p), probs)
		}

		c.iterDFS(child, iter)
	}

	node.CFValues = ensureDense(node.CFValues, gamestate.NumPlayers, nHands, "cf values")
	node.CFValues.Zero()
	for a := range node.Children {
		node.CFValues.Add(node.CFValues, node.Children[a].CFValues)
	}
}

func (c *TreeCFR) fillPlayerValues(node *tree.Node, iter int) {
	nHands := numHands(node)
	nActions := numActions(node)
	player := int(node.Player)
	opponent := int(node.Player.Opponent())

	if node.Regrets == nil {
		node.Regrets = mat.NewDense(nActions, nHands, nil)
		fill(node.Regrets, RegretEpsilon)
	}
	checkDims(node.Regrets, nActions, nHands, "regrets")
	checkRegretFloor(node)

	strategy := computeCurrentStrategy(node)
	for a := range node.Children {
		child := &node.Children[a]
		child.Ranges = ensureDense(child.Ranges, gamestate.NumPlayers, nHands, "ranges")
		floats.MulTo(child.Ranges.RawRowView(player), strategy.RawRowView(a), node.Ranges.RawRowView(player))
		copy(child.Ranges.RawRowView(opponent), node.Ranges.RawRowView(opponent))

		c.iterDFS(child, iter)
	}

	// The opponent's value sums over branches because their range does
	// not depend on this player's action. The acting player's value is
	// the expectation under their current strategy.
	node.CFValues = ensureDense(node.CFValues, gamestate.NumPlayers, nHands, "cf values")
	node.CFValues.Zero()
	playerValues := node.CFValues.RawRowView(player)
	opponentValues := node.CFValues.RawRowView(opponent)
	for a := range node.Children {
		childValues := node.Children[a].CFValues
		checkDims(childValues, gamestate.NumPlayers, nHands, "child cf values")
		floats.Add(opponentValues, childValues.RawRowView(opponent))

		probs := strategy.RawRowView(a)
		actionValues := childValues.RawRowView(player)
		for h, v := range actionValues {
			playerValues[h] += probs[h] * v
		}
	}

	updateRegrets(node, playerValues)
	if iter >= c.skipIters {
		updateAverageStrategy(node, strategy)
	}
}

// computeCurrentStrategy sets the node's CurrentStrategy by regret
// matching: each action is played in proportion to its regret.
func computeCurrentStrategy(node *tree.Node) *mat.Dense {
	nActions, nHands := node.Regrets.Dims()
	node.CurrentStrategy = ensureDense(node.CurrentStrategy, nActions, nHands, "current strategy")

	regretSum := allocFloatSlice(nHands)
	defer freeFloatSlice(regretSum)
	for a := 0; a < nActions; a++ {
		floats.Add(regretSum, node.Regrets.RawRowView(a))
	}

	for a := 0; a < nActions; a++ {
		floats.DivTo(node.CurrentStrategy.RawRowView(a), node.Regrets.RawRowView(a), regretSum)
	}

	return node.CurrentStrategy
}

// updateRegrets adds the instantaneous regret of each action (its value
// minus the value of the current strategy) and re-applies the floor.
func updateRegrets(node *tree.Node, strategyValues []float64) {
	player := int(node.Player)
	for a := range node.Children {
		regrets := node.Regrets.RawRowView(a)
		actionValues := node.Children[a].CFValues.RawRowView(player)
		for h := range regrets {
			regrets[h] += actionValues[h] - strategyValues[h]
			if regrets[h] < RegretEpsilon {
				regrets[h] = RegretEpsilon
			}
		}
	}
}

// updateAverageStrategy mixes the current strategy into the average,
// weighting each iteration by the acting player's reach probability.
func updateAverageStrategy(node *tree.Node, current *mat.Dense) {
	nActions, nHands := current.Dims()
	if node.Strategy == nil {
		node.Strategy = mat.NewDense(nActions, nHands, nil)
	}
	if node.IterWeightSum == nil {
		node.IterWeightSum = make([]float64, nHands)
	}
	checkDims(node.Strategy, nActions, nHands, "average strategy")

	reach := node.Ranges.RawRowView(int(node.Player))
	mix := allocFloatSlice(nHands)
	defer freeFloatSlice(mix)
	for h := range mix {
		w := math.Max(reach[h], RegretEpsilon)
		node.IterWeightSum[h] += w
		mix[h] = w / node.IterWeightSum[h]
	}

	for a := 0; a < nActions; a++ {
		avg := node.Strategy.RawRowView(a)
		cur := current.RawRowView(a)
		for h := range avg {
			avg[h] = avg[h]*(1-mix[h]) + cur[h]*mix[h]
		}
	}
}

// updateAverageValues folds this iteration's CFValues into the
// node's running mean.
func updateAverageValues(node *tree.Node) {
	rows, cols := node.CFValues.Dims()
	if node.AvgCFValues == nil {
		node.AvgCFValues = mat.NewDense(rows, cols, nil)
	}
	checkDims(node.AvgCFValues, rows, cols, "average cf values")

	node.AvgCFValuesIters++
	w := 1 / float64(node.AvgCFValuesIters)
	for p := 0; p < rows; p++ {
		avg := node.AvgCFValues.RawRowView(p)
		cur := node.CFValues.RawRowView(p)
		for h := range avg {
			avg[h] += w * (cur[h] - avg[h])
		}
	}
}

func startingCols(m *mat.Dense) int {
	_, cols := m.Dims()
	return cols
}

func checkRegretFloor(node *tree.Node) {
	nActions, _ := node.Regrets.Dims()
	for a := 0; a < nActions; a++ {
		for h, r := range node.Regrets.RawRowView(a) {
			if !(r >= RegretEpsilon) {
				panic(errors.Errorf("regret %v below floor for action %d hand %d at %v",
					r, a, h, node))
			}
		}
	}
}

func numHands(node *tree.Node) int {
	if node.Ranges == nil {
		panic(errors.Errorf("no ranges at %v", node))
	}

	rows, nHands := node.Ranges.Dims()
	if rows != gamestate.NumPlayers {
		panic(errors.Errorf("ranges have %d rows at %v", rows, node))
	}

	return nHands
}

func numActions(node *tree.Node) int {
	if len(node.Children) == 0 {
		panic(errors.Errorf("non-terminal node has no children: %v", node))
	}

	return len(node.Children)
}

func ensureDense(m *mat.Dense, rows, cols int, name string) *mat.Dense {
	if m == nil {
		return mat.NewDense(rows, cols, nil)
	}

	checkDims(m, rows, cols, name)
	return m
}

func checkDims(m *mat.Dense, rows, cols int, name string) {
	if m == nil {
		panic(errors.Errorf("missing %s, expected %dx%d", name, rows, cols))
	}

	if r, c := m.Dims(); r != rows || c != cols {
		panic(errors.Errorf("%s are %dx%d, expected %dx%d", name, r, c, rows, cols))
	}
}

func fill(m *mat.Dense, v float64) {
	rows, _ := m.Dims()
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		for j := range row {
			row[j] = v
		}
	}
}
