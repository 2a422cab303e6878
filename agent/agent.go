package agent

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/cudabot/octobot/config"
	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/rules"
	"github.com/cudabot/octobot/state"
	"github.com/cudabot/octobot/stats"
	"github.com/cudabot/octobot/tasks"
	"github.com/cudabot/octobot/turnlog"
)

// Agent owns the decision-making for a single match session. Decide is
// called from one goroutine; Reconfigure may be called from another.
type Agent struct {
	Player string
	Fs     afero.Fs
	Stats  *stats.Store // optional

	mu     sync.Mutex
	cfg    *config.Config
	engine *rules.Engine

	session   string
	open      bool
	side      model.Side
	sideKnown bool
	turn      int
	prev      *state.Summary
	brain     *rules.BrainContext
	resources *tasks.ResourceCache
	rand      *rand.Rand
	recorder  *turnlog.Recorder
}

func New(cfg *config.Config) (*Agent, error) {
	set, err := cfg.RuleSet()
	if err != nil {
		return nil, err
	}
	engine, err := rules.NewEngine(set, cfg.Thresholds())
	if err != nil {
		return nil, fmt.Errorf("build rule engine: %w", err)
	}
	a := &Agent{
		Fs:     afero.NewOsFs(),
		cfg:    cfg,
		engine: engine,
	}
	a.reset(uuid.NewString())
	return a, nil
}

// Reconfigure applies a reloaded config between turns. A rule set that fails
// to compile leaves the current one in place.
func (a *Agent) Reconfigure(cfg *config.Config) error {
	set, err := cfg.RuleSet()
	if err != nil {
		return err
	}
	if err := a.engine.Swap(set); err != nil {
		return err
	}
	a.engine.SetThresholds(cfg.Thresholds())
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	return nil
}

// Session is the id of the current match.
func (a *Agent) Session() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// MatchOpen reports whether StartMatch ran without a matching EndMatch.
func (a *Agent) MatchOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open
}

// SetSide fixes the controlled side instead of inferring it.
func (a *Agent) SetSide(s model.Side) {
	a.mu.Lock()
	a.side, a.sideKnown = s, true
	a.mu.Unlock()
}

func (a *Agent) forgetSide() {
	a.mu.Lock()
	a.sideKnown = false
	a.mu.Unlock()
}

// StartMatch forgets all per-match state and opens the turn log and stats
// session when configured.
func (a *Agent) StartMatch(ctx context.Context, session string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeRecorderLocked()
	a.reset(session)
	a.open = true

	if dir := a.cfg.Record.Dir; dir != "" {
		rec, err := turnlog.Create(a.Fs, dir, session)
		if err != nil {
			return err
		}
		a.recorder = rec
		slog.Info("recording turns", "path", rec.Path())
	}
	if a.Stats != nil {
		side := "unknown"
		if a.sideKnown {
			side = a.side.String()
		}
		if err := a.Stats.StartSession(ctx, session, side); err != nil {
			return err
		}
	}
	return nil
}

// EndMatch closes the turn log and stamps the stats session. Only the first
// call after StartMatch has any effect.
func (a *Agent) EndMatch(ctx context.Context, winner string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.open {
		return nil
	}
	a.open = false
	a.closeRecorderLocked()
	if a.Stats != nil {
		return a.Stats.EndSession(ctx, a.session, a.turn, winner)
	}
	return nil
}

func (a *Agent) reset(session string) {
	a.session = session
	a.turn = 0
	a.prev = nil
	if a.brain == nil {
		a.brain = rules.NewBrainContext()
	}
	a.brain.Reset()
	if a.resources == nil {
		a.resources = tasks.NewResourceCache()
	}
	a.resources.Reset()
	a.rand = rand.New(rand.NewPCG(sessionSeed(session)))
}

func (a *Agent) closeRecorderLocked() {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Close(); err != nil {
		slog.Error("failed to close turn log", "error", err)
	}
	a.recorder = nil
}

// sessionSeed derives the combat randomness seed from the session id so a
// recorded match replays identically.
func sessionSeed(session string) (uint64, uint64) {
	id, err := uuid.Parse(session)
	if err != nil {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(session))
	}
	return binary.LittleEndian.Uint64(id[:8]), binary.LittleEndian.Uint64(id[8:])
}
