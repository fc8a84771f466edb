package gamestate

import (
	"github.com/pkg/errors"
)

// Street is a betting round. Public cards are dealt at the start
// of each street after the preflop.
type Street uint8

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

var streetStr = [...]string{
	"Preflop",
	"Flop",
	"Turn",
	"River",
}

var boardSize = [...]int{0, 3, 4, 5}

func (s Street) String() string {
	return streetStr[s]
}

// BoardSize returns the number of board cards on the street.
func (s Street) BoardSize() int {
	return boardSize[s]
}

// CardsDealt returns the number of board cards dealt to start the street.
func (s Street) CardsDealt() int {
	if s == Preflop {
		return 0
	}

	return boardSize[s] - boardSize[s-1]
}

// StreetForBoard returns the street on which the board has n cards.
func StreetForBoard(n int) (Street, error) {
	for s, size := range boardSize {
		if size == n {
			return Street(s), nil
		}
	}

	return 0, errors.Errorf("no street has %d board cards", n)
}
