// Script to re-solve a single public state with uniform ranges and
// print the resulting root strategy.
package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"

	"github.com/golang/glog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/timpalpant/deepresolve"
	"github.com/timpalpant/deepresolve/cards"
	"github.com/timpalpant/deepresolve/gamestate"
)

func main() {
	board := flag.String("board", "", "Board cards, e.g. AsKdQh7c2d. A random board is dealt if empty")
	randomCards := flag.Int("random_board_cards", 5, "Number of cards on a random board")
	bet := flag.Float64("bet", 100, "Amount committed by each player")
	stack := flag.Float64("stack", 1000, "Stack size of each player")
	bigBlind := flag.Float64("big_blind", 10, "Big blind, the minimum raise increment")
	iters := flag.Int("iters", 0, "CFR iterations (0 uses DEEPRESOLVE_CFR_ITERS)")
	skip := flag.Int("skip", -1, "Burn-in iterations (-1 uses DEEPRESOLVE_CFR_SKIP_ITERS)")
	seed := flag.Uint64("seed", 123, "Seed for the random board")
	debugAddr := flag.String("debug_addr", "localhost:4123", "Address to serve pprof and expvar")
	flag.Parse()

	go http.ListenAndServe(*debugAddr, nil)

	cfg, err := deepresolve.LoadConfigFromEnv()
	if err != nil {
		glog.Fatal(err)
	}
	if *iters > 0 {
		cfg.Iterations = *iters
	}
	if *skip >= 0 {
		cfg.SkipIterations = *skip
	}
	if err := cfg.Validate(); err != nil {
		glog.Fatal(err)
	}

	hands, err := cfg.Hands()
	if err != nil {
		glog.Fatal(err)
	}

	var boardCards cards.Set
	if *board == "" {
		rng := rand.New(rand.NewSource(*seed))
		boardCards, err = cards.RandomBoard(rng, hands.Deck(), 0, *randomCards)
	} else {
		boardCards, err = cards.ParseSet(*board)
	}
	if err != nil {
		glog.Fatal(err)
	}

	street, err := gamestate.StreetForBoard(boardCards.Len())
	if err != nil {
		glog.Fatal(err)
	}

	state := gamestate.GameState{
		Street:   street,
		Board:    boardCards,
		Player:   gamestate.Player1,
		Bets:     [gamestate.NumPlayers]float64{*bet, *bet},
		Stack:    *stack,
		BigBlind: *bigBlind,
	}

	glog.Infof("Re-solving %v with %d hands, %d iterations (%d burn-in)",
		state, hands.Len(), cfg.Iterations, cfg.SkipIterations)
	resolver := deepresolve.NewResolver(cfg, hands)
	uniform := hands.UniformRange(boardCards)
	result, err := resolver.ResolveFirstNode(state, uniform, uniform)
	if err != nil {
		glog.Fatal(err)
	}

	for i, action := range result.Actions {
		p := floats.Dot(result.Strategy.RawRowView(i), uniform)
		glog.Infof("%v: %.4f", action, p)
	}

	glog.Infof("Root value for %v: %.4f", state.Player, floats.Dot(result.RootCFV, uniform))
}
