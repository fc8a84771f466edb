package treecfr

import (
	"expvar"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/deepresolve/cards"
	"github.com/timpalpant/deepresolve/gamestate"
)

var (
	evaluatorCacheHits   = expvar.NewInt("treecfr/evaluator_cache/hits")
	evaluatorCacheMisses = expvar.NewInt("treecfr/evaluator_cache/misses")
)

// Evaluator computes terminal counterfactual values for one board,
// per unit of pot. ranges and result are 2×H.
type Evaluator interface {
	FoldValue(ranges, result *mat.Dense, foldingPlayer gamestate.Player)
	CallValue(ranges, result *mat.Dense)
}

// EvaluatorFactory builds the Evaluator for a board.
type EvaluatorFactory interface {
	NewEvaluator(board cards.Set) (Evaluator, error)
}

// EvaluatorFactoryFunc adapts a function to an EvaluatorFactory.
type EvaluatorFactoryFunc func(board cards.Set) (Evaluator, error)

func (f EvaluatorFactoryFunc) NewEvaluator(board cards.Set) (Evaluator, error) {
	return f(board)
}

// evaluatorCache lazily builds one Evaluator per board and shares it
// between all nodes with that board. Entries are never invalidated.
type evaluatorCache struct {
	factory EvaluatorFactory
	entries map[cards.Set]Evaluator
	hits    int
	misses  int
}

func newEvaluatorCache(factory EvaluatorFactory) *evaluatorCache {
	return &evaluatorCache{
		factory: factory,
		entries: make(map[cards.Set]Evaluator),
	}
}

func (c *evaluatorCache) get(board cards.Set) Evaluator {
	if ev, ok := c.entries[board]; ok {
		c.hits++
		evaluatorCacheHits.Add(1)
		return ev
	}

	ev, err := c.factory.NewEvaluator(board)
	if err != nil {
		panic(errors.Wrapf(err, "building terminal equity for board %v", board))
	}

	c.misses++
	evaluatorCacheMisses.Add(1)
	c.entries[board] = ev
	return ev
}

func (c *evaluatorCache) len() int {
	return len(c.entries)
}

func (c *evaluatorCache) clear() {
	c.entries = make(map[cards.Set]Evaluator)
}
