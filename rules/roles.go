package rules

import (
	"fmt"
	"strings"

	"github.com/cudabot/octobot/model"
)

// Role is the task group a unit is assigned to for one turn.
type Role int

const (
	Defend Role = iota
	Combat
	Conquer
	Explore
	Exterminate
)

// Roles lists every role in executor order.
var Roles = []Role{Defend, Combat, Conquer, Explore, Exterminate}

var roleNames = map[Role]string{
	Defend:      "defend",
	Combat:      "combat",
	Conquer:     "conquer",
	Explore:     "explore",
	Exterminate: "exterminate",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return Defend, fmt.Errorf("unknown role %q", s)
}

// Assignment is one turn's partition of the allied roster.
type Assignment struct {
	Roles  map[int]Role          // unit id → role
	Groups map[Role][]model.Unit // per-role units in roster order
	Fired  map[int]string        // unit id → name of the rule that decided it
}

func newAssignment(n int) Assignment {
	return Assignment{
		Roles:  make(map[int]Role, n),
		Groups: make(map[Role][]model.Unit),
		Fired:  make(map[int]string, n),
	}
}

func (a Assignment) add(u model.Unit, r Role, rule string) {
	a.Roles[u.ID] = r
	a.Groups[r] = append(a.Groups[r], u)
	a.Fired[u.ID] = rule
}

func (a Assignment) Group(r Role) []model.Unit { return a.Groups[r] }

// Counts returns the group size for every role, including empty ones.
func (a Assignment) Counts() map[Role]int {
	out := make(map[Role]int, len(Roles))
	for _, r := range Roles {
		out[r] = len(a.Groups[r])
	}
	return out
}
