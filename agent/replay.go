package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/cudabot/octobot/config"
	"github.com/cudabot/octobot/turnlog"
)

// Divergence is a recorded turn whose actions differ from a fresh decision.
type Divergence struct {
	Turn     int
	Recorded int // recorded action count
	Replayed int
}

type ReplayReport struct {
	Session     string
	Turns       int
	Divergences []Divergence
	Events      []Event
	Truncated   bool // the log ended before the match closed
}

func (r ReplayReport) String() string {
	s := fmt.Sprintf("session %s: %d turns, %d diverged\n", r.Session, r.Turns, len(r.Divergences))
	if r.Truncated {
		s += "  log truncated: recording stopped before the match ended\n"
	}
	for _, d := range r.Divergences {
		s += fmt.Sprintf("  turn %d: recorded %d actions, replayed %d\n", d.Turn, d.Recorded, d.Replayed)
	}
	return s + formatEvents(r.Events)
}

// Replay feeds a recorded match through a fresh agent built from cfg and
// compares each decision against the log.
func Replay(ctx context.Context, cfg *config.Config, r *turnlog.Reader) (ReplayReport, error) {
	replayCfg := *cfg
	replayCfg.Record.Dir = ""
	a, err := New(&replayCfg)
	if err != nil {
		return ReplayReport{}, err
	}

	var report ReplayReport
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			report.Truncated = r.Truncated()
			return report, nil
		}
		if err != nil {
			return report, err
		}
		if report.Turns == 0 {
			report.Session = e.Session
			if err := a.StartMatch(ctx, e.Session); err != nil {
				return report, err
			}
			a.SetSide(e.Side)
		}
		report.Turns++

		res := a.decide(e.Turn, e.Observation)
		report.Events = append(report.Events, res.Events...)
		batch := res.Batch
		if !slices.Equal(batch.ShipsActions, e.Actions.ShipsActions) || batch.Construction != e.Actions.Construction {
			report.Divergences = append(report.Divergences, Divergence{
				Turn:     e.Turn,
				Recorded: len(e.Actions.ShipsActions),
				Replayed: len(batch.ShipsActions),
			})
		}
	}
}
