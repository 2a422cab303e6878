package ipc

import (
	"encoding/json"

	"github.com/cudabot/octobot/model"
)

// Message types exchanged with the game runner.
const (
	TypeHello       = "hello"
	TypeAck         = "ack"
	TypeObservation = "observation"
	TypeActions     = "actions"
	TypeGameOver    = "game_over"
)

// HelloMessage opens a match. Side is optional; without it the agent infers
// the side from the first observation.
type HelloMessage struct {
	Player string      `json:"player"`
	Side   *model.Side `json:"side,omitempty"`
}

type AckMessage struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
}

// ObservationMessage wraps one turn's observation. Turn is optional; the
// agent counts turns itself when it is zero. Observation stays raw so it can
// be schema-checked before decoding.
type ObservationMessage struct {
	Turn        int             `json:"turn,omitempty"`
	Observation json.RawMessage `json:"observation"`
}

type GameOverMessage struct {
	Winner *model.Side `json:"winner,omitempty"`
	Turns  int         `json:"turns"`
}
