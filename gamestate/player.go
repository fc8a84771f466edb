package gamestate

import (
	"fmt"
)

// Player represents the identity of a player in the game, or the
// chance player that deals public cards.
type Player uint8

const (
	Player0 Player = iota
	Player1
	Chance
)

// The number of (non-chance) players in the game.
const NumPlayers = 2

var playerStr = [...]string{
	"Player0",
	"Player1",
	"Chance",
}

func (p Player) String() string {
	if int(p) >= len(playerStr) {
		return fmt.Sprintf("Player(%d)", p)
	}

	return playerStr[p]
}

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p != Player0 && p != Player1 {
		panic(fmt.Sprintf("cannot call Opponent with player %v", p))
	}

	return 1 - p
}
