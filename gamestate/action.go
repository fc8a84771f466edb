package gamestate

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// ActionType is the type of betting action a player takes.
type ActionType uint8

const (
	_ ActionType = iota
	Fold
	// Call matches the opponent's bet, or checks when bets are equal.
	Call
	// Raise bets or raises to the action's Amount.
	Raise
)

var actionTypeStr = [...]string{
	"Invalid",
	"Fold",
	"Call",
	"Raise",
}

func (t ActionType) String() string {
	return actionTypeStr[t]
}

// Action records each player choice in a betting round.
type Action struct {
	Type ActionType
	// Amount is the player's total commitment after a Raise.
	// It is zero for other action types.
	Amount float64
}

func (a Action) String() string {
	if a.Type == Raise {
		return a.Type.String() + ":" + strconv.FormatFloat(a.Amount, 'f', -1, 64)
	}

	return a.Type.String()
}

// ParseAction parses the format produced by Action.String.
func ParseAction(s string) (Action, error) {
	switch s {
	case "Fold":
		return Action{Type: Fold}, nil
	case "Call":
		return Action{Type: Call}, nil
	}

	var amount float64
	if _, err := fmt.Sscanf(s, "Raise:%g", &amount); err != nil {
		return Action{}, errors.Wrapf(err, "invalid action %q", s)
	}

	return Action{Type: Raise, Amount: amount}, nil
}
