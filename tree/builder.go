package tree

import (
	"expvar"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/deepresolve/cards"
	"github.com/timpalpant/deepresolve/gamestate"
)

var (
	nodesBuilt         = expvar.NewInt("tree/nodes_built")
	terminalNodesBuilt = expvar.NewInt("tree/nodes_built/terminal")
	playerNodesBuilt   = expvar.NewInt("tree/nodes_built/player")
	chanceNodesBuilt   = expvar.NewInt("tree/nodes_built/chance")
)

// Params configure the bet abstraction of lookahead trees.
type Params struct {
	// BetSizing lists the raise sizes as fractions of the pot after calling.
	// All-in is always available in addition to these.
	BetSizing []float64
	// MaxRaises is the maximum number of raises on each street.
	MaxRaises int
}

// Builder builds lookahead trees for a fixed enumeration of private hands.
type Builder struct {
	hands  *cards.Hands
	params Params
}

func NewBuilder(hands *cards.Hands, params Params) *Builder {
	return &Builder{
		hands:  hands,
		params: params,
	}
}

// Hands returns the private hands that index every range in trees
// built by this Builder.
func (b *Builder) Hands() *cards.Hands {
	return b.hands
}

// Build returns the lookahead tree rooted at the given decision state.
// The tree runs until the end of the hand; its size is bounded by
// the bet abstraction.
func (b *Builder) Build(state gamestate.GameState) (*Node, error) {
	if err := state.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid root state")
	}
	if minDeck := gamestate.River.BoardSize() + 2*gamestate.NumPlayers; len(b.hands.Deck()) < minDeck {
		return nil, errors.Errorf("deck of %d cards is too small, need at least %d",
			len(b.hands.Deck()), minDeck)
	}
	if state.NumRaises > b.params.MaxRaises {
		return nil, errors.Errorf("root state has %d raises, more than the maximum of %d",
			state.NumRaises, b.params.MaxRaises)
	}

	root := &Node{}
	b.makePlayerNode(root, state)
	return root, nil
}

func setPublicState(node *Node, state gamestate.GameState) {
	node.Street = state.Street
	node.Board = state.Board
	node.Bets = state.Bets
	node.Pot = state.Pot()
}

func (b *Builder) makePlayerNode(node *Node, state gamestate.GameState) {
	nodesBuilt.Add(1)
	playerNodesBuilt.Add(1)
	setPublicState(node, state)
	node.Player = state.Player

	actions := state.LegalActions(b.params.BetSizing, b.params.MaxRaises)
	node.Children = make([]Node, len(actions))
	for i, action := range actions {
		child := &node.Children[i]
		child.Action = action
		child.Depth = node.Depth + 1

		next, transition := state.Apply(action)
		switch transition {
		case gamestate.Folded:
			makeTerminalNode(child, next, Fold)
		case gamestate.StreetOver:
			b.makeStreetOverNode(child, next)
		default:
			b.makePlayerNode(child, next)
		}
	}
}

// makeStreetOverNode ends betting on the current street: at showdown on
// the river, or by dealing the next street.
func (b *Builder) makeStreetOverNode(node *Node, state gamestate.GameState) {
	if state.Street == gamestate.River {
		makeTerminalNode(node, state, Showdown)
	} else {
		b.makeChanceNode(node, state)
	}
}

func makeTerminalNode(node *Node, state gamestate.GameState, kind TerminalKind) {
	nodesBuilt.Add(1)
	terminalNodesBuilt.Add(1)
	setPublicState(node, state)
	node.Player = state.Player
	node.Terminal = true
	node.Kind = kind
}

func (b *Builder) makeChanceNode(node *Node, state gamestate.GameState) {
	nodesBuilt.Add(1)
	chanceNodesBuilt.Add(1)
	setPublicState(node, state)
	node.Player = gamestate.Chance

	nextStreet := state.Street + 1
	boards := b.hands.NextBoards(state.Board, nextStreet.CardsDealt())
	node.Children = make([]Node, len(boards))
	for i, board := range boards {
		child := &node.Children[i]
		child.Depth = node.Depth + 1

		dealt := board
		dealt.RemoveAll(state.Board)
		next := state.NextStreet(dealt)
		if next.AllIn() {
			// No more betting is possible: deal out the remaining streets.
			b.makeStreetOverNode(child, next)
		} else {
			b.makePlayerNode(child, next)
		}
	}

	node.ChanceProbs = b.chanceProbabilities(state.Board, boards)
}

// chanceProbabilities returns the A×H matrix of deal probabilities
// conditioned on each hand. Deals that share a card with the hand
// have probability zero, and the remaining deals are equally likely.
func (b *Builder) chanceProbabilities(board cards.Set, boards []cards.Set) *mat.Dense {
	nHands := b.hands.Len()
	result := mat.NewDense(len(boards), nHands, nil)
	possible := b.hands.PossibleMask(board)
	for h := 0; h < nHands; h++ {
		if possible[h] == 0 {
			continue
		}

		hand := b.hands.Hand(h).Set()
		compatible := 0
		for _, next := range boards {
			if !next.Intersects(hand) {
				compatible++
			}
		}

		if compatible == 0 {
			continue
		}

		p := 1.0 / float64(compatible)
		for a, next := range boards {
			if !next.Intersects(hand) {
				result.Set(a, h, p)
			}
		}
	}

	return result
}
