package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cudabot/octobot/ipc"
	"github.com/cudabot/octobot/model"
)

// Register wires the agent's handlers onto a connection.
func (a *Agent) Register(c *ipc.Connection) {
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeObservation, a.HandleObservation)
	c.RegisterHandler(ipc.TypeGameOver, a.HandleGameOver)
	c.OnClose(a.HandleDisconnect)
}

// HandleDisconnect closes a match the runner abandoned before game_over.
func (a *Agent) HandleDisconnect() {
	if !a.MatchOpen() {
		return
	}
	slog.Warn("connection closed mid-match", "session", a.Session(), "player", a.Player)
	if err := a.EndMatch(context.Background(), ""); err != nil {
		slog.Error("failed to close match bookkeeping", "error", err)
	}
}

// HandleHello starts a match and acknowledges it with the session id.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	a.Player = hello.Player
	if hello.Side != nil {
		a.SetSide(*hello.Side)
	} else {
		a.forgetSide()
	}
	session := uuid.NewString()
	if err := a.StartMatch(context.Background(), session); err != nil {
		slog.Error("failed to start match bookkeeping", "error", err)
	}
	slog.Info("player identified", "player", a.Player, "session", session)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Session: session})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleObservation decides one turn and replies with the action batch. A
// payload that fails the schema is still decided when it decodes.
func (a *Agent) HandleObservation(env ipc.Envelope) (*ipc.Envelope, error) {
	var msg ipc.ObservationMessage
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal observation message: %w", err)
	}
	if err := ipc.ValidateObservation(msg.Observation); err != nil {
		slog.Warn("observation does not match schema", "error", err)
	}

	var batch model.ActionBatch
	var obs model.Observation
	if err := json.Unmarshal(msg.Observation, &obs); err != nil {
		slog.Error("undecodable observation, holding all ships", "error", err)
		batch = a.HoldAll()
	} else {
		if dropped := obs.Dropped(); len(dropped) > 0 {
			slog.Warn("dropped malformed observation entries", "count", len(dropped), "entries", dropped)
		}
		batch = a.Decide(msg.Turn, obs)
	}

	reply, err := ipc.NewEnvelope(ipc.TypeActions, batch)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (a *Agent) HandleGameOver(env ipc.Envelope) (*ipc.Envelope, error) {
	var msg ipc.GameOverMessage
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal game over: %w", err)
	}
	winner := ""
	if msg.Winner != nil {
		winner = msg.Winner.String()
	}
	slog.Info("match over", "session", a.Session(), "winner", winner, "turns", msg.Turns)
	if err := a.EndMatch(context.Background(), winner); err != nil {
		slog.Error("failed to close match bookkeeping", "error", err)
	}
	return nil, nil
}
