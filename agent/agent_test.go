package agent

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/spf13/afero"

	"github.com/cudabot/octobot/config"
	"github.com/cudabot/octobot/ipc"
	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/rules"
	"github.com/cudabot/octobot/turnlog"
)

func newTestAgent(t *testing.T, mutate func(*config.Config)) *Agent {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Fs = afero.NewMemMapFs()
	return a
}

func TestLoneUnitBecomesExplorer(t *testing.T) {
	a := newTestAgent(t, nil)
	obs := model.Observation{
		AlliedShips: []model.Unit{{ID: 0, X: 10, Y: 10, HP: 100}},
		EnemyShips:  []model.Unit{{ID: 0, X: 50, Y: 50, HP: 100}},
		Planets: []model.Planet{
			{X: 9, Y: 9, Occupation: model.OccupiedA},
			{X: 30, Y: 30, Occupation: model.Unoccupied},
		},
	}
	res := a.decide(1, obs)
	if got := res.Assignment.Roles[0]; got != rules.Explore {
		t.Fatalf("role = %v, want explore", got)
	}
	if len(res.Batch.ShipsActions) != 1 {
		t.Fatalf("got %d actions, want 1", len(res.Batch.ShipsActions))
	}
	act := res.Batch.ShipsActions[0]
	if act.Kind != model.ActionMove || act.IsHold() {
		t.Errorf("action = %v, want a move toward the planet", act)
	}
	if act.Direction != model.Right && act.Direction != model.Down {
		t.Errorf("direction = %v, want right or down", act.Direction)
	}
	if id, ok := a.brain.Explorer(); !ok || id != 0 {
		t.Errorf("Explorer() = %d, %v; want 0, true", id, ok)
	}
}

func TestFireDownScenario(t *testing.T) {
	a := newTestAgent(t, func(c *config.Config) { c.Tactics.CombatDist = 8 })
	obs := model.Observation{
		AlliedShips: []model.Unit{{ID: 4, X: 10, Y: 10, HP: 100}},
		EnemyShips:  []model.Unit{{ID: 1, X: 10, Y: 18, HP: 100}},
		Planets:     []model.Planet{{X: 9, Y: 9, Occupation: model.OccupiedA}},
	}
	batch := a.Decide(0, obs)
	want := []model.Action{model.Fire(4, model.Down)}
	if len(batch.ShipsActions) != 1 || batch.ShipsActions[0] != want[0] {
		t.Errorf("actions = %v, want %v", batch.ShipsActions, want)
	}
}

func TestSideDetection(t *testing.T) {
	a := newTestAgent(t, nil)
	a.Decide(0, model.Observation{Planets: []model.Planet{{X: 90, Y: 90, Occupation: model.OccupiedB}}})
	if !a.sideKnown || a.side != model.SideB {
		t.Errorf("side = %v (known %v), want B", a.side, a.sideKnown)
	}

	// An explicit side is never overridden.
	b := newTestAgent(t, nil)
	b.SetSide(model.SideB)
	b.Decide(0, model.Observation{Planets: []model.Planet{{X: 9, Y: 9}}})
	if b.side != model.SideB {
		t.Errorf("explicit side overridden: %v", b.side)
	}
}

func TestTurnCounting(t *testing.T) {
	a := newTestAgent(t, nil)
	a.Decide(0, model.Observation{})
	a.Decide(0, model.Observation{})
	if a.turn != 2 {
		t.Errorf("turn = %d, want 2", a.turn)
	}
	a.Decide(40, model.Observation{})
	if a.turn != 40 {
		t.Errorf("turn = %d, want 40", a.turn)
	}
}

func TestConstruction(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		cost      float64
		resources model.Resources
		want      int
	}{
		{"fixed count", 10, 0, nil, 10},
		{"capped by budget", 10, 100, model.Resources{250, 400}, 2},
		{"budget exceeds count", 3, 10, model.Resources{1000}, 3},
		{"no budget", 5, 50, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Construction = config.Construction{Count: tt.count, ShipCost: tt.cost}
			if got := constructionFor(cfg, tt.resources); got != tt.want {
				t.Errorf("constructionFor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	alive := map[int]bool{1: true, 2: true}
	in := []model.Action{
		model.Move(1, model.Up, 3),
		model.Fire(1, model.Left),
		model.Move(9, model.Up, 3),
		model.Hold(2),
	}
	got := sanitize(in, alive)
	want := []model.Action{model.Move(1, model.Up, 3), model.Hold(2)}
	if len(got) != len(want) {
		t.Fatalf("sanitize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sanitize[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecideRecoversFromPanic(t *testing.T) {
	a := newTestAgent(t, nil)
	a.resources = nil // explore will dereference it
	batch := a.Decide(0, model.Observation{
		AlliedShips: []model.Unit{{ID: 0, X: 50, Y: 50, HP: 100}},
		Planets:     []model.Planet{{X: 9, Y: 9, Occupation: model.OccupiedA}},
	})
	if batch.ShipsActions == nil || len(batch.ShipsActions) != 0 {
		t.Errorf("ShipsActions = %#v, want empty non-nil", batch.ShipsActions)
	}
	if batch.Construction != 10 {
		t.Errorf("Construction = %d, want 10", batch.Construction)
	}
}

func TestEmptyObservation(t *testing.T) {
	a := newTestAgent(t, nil)
	batch := a.Decide(0, model.Observation{})
	if batch.ShipsActions == nil || len(batch.ShipsActions) != 0 {
		t.Errorf("ShipsActions = %#v, want empty non-nil", batch.ShipsActions)
	}
	raw, err := json.Marshal(batch)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"ships_actions":[],"construction":10}` {
		t.Errorf("batch JSON = %s", raw)
	}
}

func TestReconfigure(t *testing.T) {
	a := newTestAgent(t, nil)
	cfg := config.Default()
	cfg.Tactics.Doomsday = 1
	cfg.Construction.Count = 3
	if err := a.Reconfigure(cfg); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	obs := model.Observation{
		AlliedShips: []model.Unit{{ID: 0, X: 10, Y: 10, HP: 100}, {ID: 1, X: 11, Y: 10, HP: 100}},
		Planets:     []model.Planet{{X: 9, Y: 9, Occupation: model.OccupiedA}},
	}
	res := a.decide(5, obs)
	if res.Assignment.Roles[1] != rules.Conquer {
		t.Errorf("role = %v, want conquer after doomsday lowered", res.Assignment.Roles[1])
	}
	if res.Batch.Construction != 3 {
		t.Errorf("Construction = %d, want 3", res.Batch.Construction)
	}

	bad := config.Default()
	bad.Rules = []rules.Spec{{Name: "broken", Role: "defend", When: "Nope("}}
	if err := a.Reconfigure(bad); err == nil {
		t.Error("Reconfigure with broken rule should fail")
	}
}

func TestHandlersRecordAndReplay(t *testing.T) {
	a := newTestAgent(t, func(c *config.Config) { c.Record.Dir = "turns" })

	hello, _ := ipc.NewEnvelope(ipc.TypeHello, ipc.HelloMessage{Player: "octo"})
	resp, err := a.HandleHello(hello)
	if err != nil {
		t.Fatalf("HandleHello: %v", err)
	}
	var ack ipc.AckMessage
	if err := json.Unmarshal(resp.Data, &ack); err != nil || ack.Session == "" {
		t.Fatalf("ack = %+v, %v", ack, err)
	}

	frames := []string{
		`{"observation": {"map": [], "allied_ships": [[0, 10, 10, 100, 0, 0], [1, 20, 20, 100, 0, 0]],
		  "enemy_ships": [], "planets_occupation": [[9, 9, 0], [40, 40, -1]], "resources": 500}}`,
		`{"observation": {"map": [], "allied_ships": [[0, 11, 10, 100, 0, 0], [1, 20, 21, 100, 0, 0]],
		  "enemy_ships": [[0, 24, 22, 100, 0, 0]], "planets_occupation": [[9, 9, 20], [40, 40, -1]], "resources": 500}}`,
		`{"observation": {"map": [], "allied_ships": [[1, 20, 22, 90, 3, 0]],
		  "enemy_ships": [[0, 23, 22, 100, 0, 0]], "planets_occupation": [[9, 9, 20], [40, 40, -1]], "resources": 500}}`,
	}
	for i, frame := range frames {
		resp, err := a.HandleObservation(ipc.Envelope{Type: ipc.TypeObservation, Data: json.RawMessage(frame)})
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if resp.Type != ipc.TypeActions {
			t.Fatalf("frame %d: reply type %q", i, resp.Type)
		}
		var batch model.ActionBatch
		if err := json.Unmarshal(resp.Data, &batch); err != nil {
			t.Fatalf("frame %d: decode batch: %v", i, err)
		}
	}

	over, _ := ipc.NewEnvelope(ipc.TypeGameOver, ipc.GameOverMessage{Turns: 3})
	if _, err := a.HandleGameOver(over); err != nil {
		t.Fatalf("HandleGameOver: %v", err)
	}

	r, err := turnlog.Open(a.Fs, turnlog.Path("turns", ack.Session))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer r.Close()
	report, err := Replay(context.Background(), config.Default(), r)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if report.Turns != 3 {
		t.Errorf("replayed %d turns, want 3", report.Turns)
	}
	if report.Session != ack.Session {
		t.Errorf("session = %q, want %q", report.Session, ack.Session)
	}
	if len(report.Divergences) != 0 {
		t.Errorf("replay diverged: %s", report)
	}
}

func TestMalformedShipTupleIsSkipped(t *testing.T) {
	a := newTestAgent(t, nil)
	frame := `{"turn": 1, "observation": {"map": [],
		"allied_ships": [[0, 12, 12, 100, 0, 0], [1, 14, 12, 100, 0, 0]],
		"enemy_ships": [[9, 60, 60, 100]],
		"planets_occupation": [[9, 9, 0], [40, 40, -1]], "resources": 500}}`
	if _, err := a.HandleObservation(ipc.Envelope{Type: ipc.TypeObservation, Data: json.RawMessage(frame)}); err != nil {
		t.Fatalf("HandleObservation: %v", err)
	}
	if a.prev == nil || len(a.prev.Planets) != 2 {
		t.Fatalf("summary planets = %+v, want both planets kept", a.prev)
	}
	if a.prev.EnemySeen {
		t.Error("EnemySeen = true, want the malformed enemy dropped")
	}
	if a.turn != 1 {
		t.Errorf("turn = %d, want 1", a.turn)
	}
}

func TestUndecodableObservationHolds(t *testing.T) {
	a := newTestAgent(t, nil)
	first := `{"turn": 1, "observation": {"allied_ships": [[0, 12, 12, 100, 0, 0]],
		"planets_occupation": [[9, 9, 0]], "resources": 500}}`
	if _, err := a.HandleObservation(ipc.Envelope{Type: ipc.TypeObservation, Data: json.RawMessage(first)}); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	prev := a.prev

	bad := `{"turn": 2, "observation": {"allied_ships": "garbage", "planets_occupation": []}}`
	resp, err := a.HandleObservation(ipc.Envelope{Type: ipc.TypeObservation, Data: json.RawMessage(bad)})
	if err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	if string(resp.Data) != `{"ships_actions":[],"construction":10}` {
		t.Errorf("reply = %s, want hold with construction", resp.Data)
	}
	if a.prev != prev || len(a.prev.Planets) != 1 {
		t.Errorf("summary replaced by undecodable turn: %+v", a.prev)
	}
	if a.turn != 1 {
		t.Errorf("turn = %d, want 1", a.turn)
	}
}

func TestDisconnectClosesMatch(t *testing.T) {
	a := newTestAgent(t, func(c *config.Config) { c.Record.Dir = "turns" })

	server, client := net.Pipe()
	c := ipc.NewConnection(ipc.NewFrameTransport(server), nil)
	a.Register(c)
	done := make(chan struct{})
	c.OnClose(func() { close(done) })
	go c.ReadLoop()

	runner := ipc.NewFrameTransport(client)
	hello, _ := ipc.NewEnvelope(ipc.TypeHello, ipc.HelloMessage{Player: "octo"})
	if err := runner.Write(hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	ackEnv, err := runner.Read()
	if err != nil {
		t.Fatalf("read ack: %v", err)
	}
	var ack ipc.AckMessage
	if err := json.Unmarshal(ackEnv.Data, &ack); err != nil {
		t.Fatalf("ack: %v", err)
	}

	obs := ipc.Envelope{Type: ipc.TypeObservation, Data: json.RawMessage(`{"observation": {
		"allied_ships": [[0, 10, 10, 100, 0, 0]], "planets_occupation": [[9, 9, 0]], "resources": 500}}`)}
	for i := 0; i < 2; i++ {
		if err := runner.Write(obs); err != nil {
			t.Fatalf("write observation: %v", err)
		}
		if _, err := runner.Read(); err != nil {
			t.Fatalf("read actions: %v", err)
		}
	}

	// The runner goes away without game_over.
	_ = runner.Close()
	<-done

	if a.MatchOpen() {
		t.Error("match still open after disconnect")
	}
	entries, err := turnlog.ReadAll(a.Fs, turnlog.Path("turns", ack.Session))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("recorded %d turns, want 2", len(entries))
	}
}

func TestStartMatchResetsMatchState(t *testing.T) {
	a := newTestAgent(t, nil)
	brain, cache := a.brain, a.resources
	a.decide(1, model.Observation{
		AlliedShips: []model.Unit{{ID: 3, X: 10, Y: 10, HP: 100}},
		Planets:     []model.Planet{{X: 9, Y: 9, Occupation: model.OccupiedA}},
	})
	if _, ok := a.brain.Explorer(); !ok || !a.resources.Loaded() {
		t.Fatal("expected an explorer and a loaded resource cache after one turn")
	}

	if err := a.StartMatch(context.Background(), "next-match"); err != nil {
		t.Fatalf("StartMatch: %v", err)
	}
	if a.brain != brain || a.resources != cache {
		t.Error("StartMatch replaced the match state instead of resetting it")
	}
	if _, ok := a.brain.Explorer(); ok {
		t.Error("explorer survived StartMatch")
	}
	if a.resources.Loaded() {
		t.Error("resource cache survived StartMatch")
	}
	if a.turn != 0 || a.prev != nil {
		t.Errorf("turn = %d, prev = %v; want 0, nil", a.turn, a.prev)
	}
}
