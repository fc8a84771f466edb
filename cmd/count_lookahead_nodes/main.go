// Script to count the nodes in the lookahead tree for a public state.
package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/timpalpant/go-cfr"

	"github.com/timpalpant/deepresolve"
	"github.com/timpalpant/deepresolve/cards"
	"github.com/timpalpant/deepresolve/gamestate"
	"github.com/timpalpant/deepresolve/tree"
)

func main() {
	board := flag.String("board", "AsKdQh", "Board cards")
	bet := flag.Float64("bet", 100, "Amount committed by each player")
	stack := flag.Float64("stack", 1000, "Stack size of each player")
	bigBlind := flag.Float64("big_blind", 10, "Big blind, the minimum raise increment")
	flag.Parse()

	cfg, err := deepresolve.LoadConfigFromEnv()
	if err != nil {
		glog.Fatal(err)
	}

	hands, err := cfg.Hands()
	if err != nil {
		glog.Fatal(err)
	}

	boardCards, err := cards.ParseSet(*board)
	if err != nil {
		glog.Fatal(err)
	}

	street, err := gamestate.StreetForBoard(boardCards.Len())
	if err != nil {
		glog.Fatal(err)
	}

	builder := tree.NewBuilder(hands, cfg.TreeParams())
	root, err := builder.Build(gamestate.GameState{
		Street:   street,
		Board:    boardCards,
		Player:   gamestate.Player1,
		Bets:     [gamestate.NumPlayers]float64{*bet, *bet},
		Stack:    *stack,
		BigBlind: *bigBlind,
	})
	if err != nil {
		glog.Fatal(err)
	}

	counts := make(map[cfr.NodeType]int)
	maxDepth := 0
	root.Visit(func(node *tree.Node) {
		counts[node.Type()]++
		if node.Depth > maxDepth {
			maxDepth = node.Depth
		}
	})

	total := counts[cfr.PlayerNode] + counts[cfr.ChanceNode] + counts[cfr.TerminalNode]
	glog.Infof("%d nodes in lookahead (max depth %d)", total, maxDepth)
	glog.Infof("%d player nodes", counts[cfr.PlayerNode])
	glog.Infof("%d chance nodes", counts[cfr.ChanceNode])
	glog.Infof("%d terminal nodes", counts[cfr.TerminalNode])
}
