package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Observation is the raw per-turn payload from the engine. The tuple fields
// are decoded into structs here; nothing past this boundary sees positional
// tuples.
type Observation struct {
	Map         [][]int   `json:"map"`
	AlliedShips []Unit    `json:"allied_ships"`
	EnemyShips  []Unit    `json:"enemy_ships"`
	Planets     []Planet  `json:"planets_occupation"`
	Resources   Resources `json:"resources"`

	dropped []string
}

type observationWire struct {
	Map         json.RawMessage   `json:"map"`
	AlliedShips []json.RawMessage `json:"allied_ships"`
	EnemyShips  []json.RawMessage `json:"enemy_ships"`
	Planets     []json.RawMessage `json:"planets_occupation"`
	Resources   json.RawMessage   `json:"resources"`
}

// UnmarshalJSON decodes the payload one tuple at a time. A malformed tuple
// or field is dropped and reported by Dropped; the rest of the observation
// survives. Only a payload whose shape is wrong fails outright.
func (o *Observation) UnmarshalJSON(data []byte) error {
	var w observationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("unmarshal observation: %w", err)
	}
	var obs Observation
	obs.AlliedShips = decodeTuples[Unit](w.AlliedShips, "allied_ships", &obs.dropped)
	obs.EnemyShips = decodeTuples[Unit](w.EnemyShips, "enemy_ships", &obs.dropped)
	obs.Planets = decodeTuples[Planet](w.Planets, "planets_occupation", &obs.dropped)
	if !isNull(w.Map) {
		if err := json.Unmarshal(w.Map, &obs.Map); err != nil {
			obs.Map = nil
			obs.dropped = append(obs.dropped, fmt.Sprintf("map: %v", err))
		}
	}
	if !isNull(w.Resources) {
		if err := json.Unmarshal(w.Resources, &obs.Resources); err != nil {
			obs.Resources = nil
			obs.dropped = append(obs.dropped, fmt.Sprintf("resources: %v", err))
		}
	}
	*o = obs
	return nil
}

// Dropped lists the tuples and fields the last decode skipped.
func (o Observation) Dropped() []string { return o.dropped }

func decodeTuples[T any](raw []json.RawMessage, field string, dropped *[]string) []T {
	if raw == nil {
		return nil
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			*dropped = append(*dropped, fmt.Sprintf("%s[%d]: %v", field, i, err))
			continue
		}
		out = append(out, v)
	}
	return out
}

func isNull(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// Resources is the construction budget. The engine sends either a single
// number or a list of numbers.
type Resources []float64

func (r *Resources) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}
	if data[0] == '[' {
		var list []float64
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("unmarshal resources list: %w", err)
		}
		*r = list
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal resources: %w", err)
	}
	*r = Resources{v}
	return nil
}

// Min returns the smallest budget entry, or 0 when nothing was reported.
func (r Resources) Min() float64 {
	if len(r) == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, v := range r {
		m = math.Min(m, v)
	}
	return m
}
