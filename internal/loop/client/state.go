package client

import (
	"github.com/tomz197/asteroidfield/internal/input"
)

// GameState is the screen a client is on.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen over a drifting field
	GameStatePlaying                   // A session is running
	GameStateGameOver                  // Out of lives, optional name entry
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection UI state. The game itself lives in the
// client's loop.Session.
type ClientState struct {
	Input     input.Input
	GameState GameState
	Running   bool

	// Frame the ship started exploding, for the explosion ring.
	explodedAt int64

	// Game over
	finalScore  int
	enterName   bool   // Name prompt is showing
	name        []byte // Name being typed
	submitted   bool   // Score handed to the hub
	saved       bool   // Hub acknowledged the score
	savedRank   int
	saveFailed  bool
	reportedAt  int // Last score sent to the hub
	reportedRun bool

	shutdownTimer float64 // Seconds before auto-disconnect
	isInactive    bool

	// Used by drawFrame to detect transitions needing a full clear.
	prevGameState GameState
	wasInactive   bool
}

// NewClientState returns the state of a freshly connected client.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:  GameStateStart,
		Running:    true,
		reportedAt: -1,
	}
}
