package gamestate

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/timpalpant/deepresolve/cards"
)

// Transition describes what happens to the game after an Action.
type Transition uint8

const (
	// Continue means the other player is now to act on the same street.
	Continue Transition = iota
	// Folded means the acting player folded and the hand is over.
	Folded
	// StreetOver means betting on the current street is complete.
	StreetOver
)

// GameState is the public state of a heads-up hand: everything
// both players know.
type GameState struct {
	Street Street
	Board  cards.Set
	// Player is the player to act.
	Player Player
	// Bets is the total amount each player has committed to the pot.
	Bets     [NumPlayers]float64
	Stack    float64
	BigBlind float64
	// NumRaises and NumActions count betting on the current street.
	NumRaises  int
	NumActions int
}

// Validate checks that the state is consistent.
func (gs GameState) Validate() error {
	if gs.Street > River {
		return errors.Errorf("invalid street %d", gs.Street)
	}
	if gs.Player != Player0 && gs.Player != Player1 {
		return errors.Errorf("%v cannot be the player to act", gs.Player)
	}
	if gs.Board.Len() != gs.Street.BoardSize() {
		return errors.Errorf("%v requires %d board cards, got %d (%v)",
			gs.Street, gs.Street.BoardSize(), gs.Board.Len(), gs.Board)
	}
	if gs.Stack <= 0 || gs.BigBlind <= 0 {
		return errors.Errorf("stack (%v) and big blind (%v) must be positive", gs.Stack, gs.BigBlind)
	}
	for p, bet := range gs.Bets {
		if bet < 0 || bet > gs.Stack {
			return errors.Errorf("%v bet %v is outside [0, %v]", Player(p), bet, gs.Stack)
		}
	}

	return nil
}

// Pot returns the amount each player stands to win or lose: the
// smaller of the two commitments.
func (gs GameState) Pot() float64 {
	if gs.Bets[0] < gs.Bets[1] {
		return gs.Bets[0]
	}

	return gs.Bets[1]
}

func (gs GameState) maxBet() float64 {
	if gs.Bets[0] > gs.Bets[1] {
		return gs.Bets[0]
	}

	return gs.Bets[1]
}

// AllIn returns whether either player has committed their entire stack.
func (gs GameState) AllIn() bool {
	return gs.Bets[0] >= gs.Stack || gs.Bets[1] >= gs.Stack
}

// LegalActions returns the actions available to the player to act,
// in a fixed order: fold (only when facing a bet), call, then raises
// in increasing size. Raise sizes are fractions of the pot after
// calling, and an all-in is always included while raising is allowed.
func (gs GameState) LegalActions(betSizing []float64, maxRaises int) []Action {
	maxBet := gs.maxBet()
	toCall := maxBet - gs.Bets[gs.Player]

	var actions []Action
	if toCall > 0 {
		actions = append(actions, Action{Type: Fold})
	}
	actions = append(actions, Action{Type: Call})

	if maxBet >= gs.Stack || gs.NumRaises >= maxRaises {
		return actions
	}

	minRaise := toCall
	if minRaise < gs.BigBlind {
		minRaise = gs.BigBlind
	}

	potAfterCall := 2 * maxBet
	var amounts []float64
	seen := make(map[float64]bool)
	for _, fraction := range betSizing {
		raiseTo := maxBet + fraction*potAfterCall
		if raiseTo-maxBet < minRaise || raiseTo >= gs.Stack || seen[raiseTo] {
			continue
		}

		seen[raiseTo] = true
		amounts = append(amounts, raiseTo)
	}

	sort.Float64s(amounts)
	for _, amount := range amounts {
		actions = append(actions, Action{Type: Raise, Amount: amount})
	}

	return append(actions, Action{Type: Raise, Amount: gs.Stack})
}

// Apply returns the GameState after the player to act takes the given Action.
// After a fold, the returned state's Player is the player who did not fold.
func (gs GameState) Apply(action Action) (GameState, Transition) {
	result := gs
	result.NumActions++
	switch action.Type {
	case Fold:
		result.Player = gs.Player.Opponent()
		return result, Folded
	case Call:
		result.Bets[gs.Player] = gs.maxBet()
		result.Player = gs.Player.Opponent()
		if result.NumActions >= 2 {
			return result, StreetOver
		}

		return result, Continue
	case Raise:
		if action.Amount <= gs.maxBet() || action.Amount > gs.Stack {
			panic(fmt.Errorf("invalid raise to %v (max bet %v, stack %v)",
				action.Amount, gs.maxBet(), gs.Stack))
		}

		result.Bets[gs.Player] = action.Amount
		result.NumRaises++
		result.Player = gs.Player.Opponent()
		return result, Continue
	default:
		panic(fmt.Errorf("invalid action: %+v", action))
	}
}

// NextStreet returns the state at the start of the next street, after
// the given cards are dealt to the board. Player1 acts first postflop.
func (gs GameState) NextStreet(dealt cards.Set) GameState {
	if gs.Street == River {
		panic("cannot deal past the river")
	}
	if gs.Board.Intersects(dealt) {
		panic(fmt.Errorf("dealt cards %v already on board %v", dealt, gs.Board))
	}

	result := gs
	result.Street++
	result.Board.AddAll(dealt)
	result.Player = Player1
	result.NumRaises = 0
	result.NumActions = 0
	return result
}

func (gs GameState) String() string {
	return fmt.Sprintf("%v [%v] %v to act, bets %v/%v, stack %v",
		gs.Street, gs.Board, gs.Player, gs.Bets[0], gs.Bets[1], gs.Stack)
}
