package rules

import (
	"github.com/expr-lang/expr/vm"
)

// Rule is one step of the role cascade: a condition → role pair. The engine
// evaluates rules by priority and the first match decides the unit's role.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Role         Role        // assigned when the condition holds
	ConditionSrc string      // expr source (preserved for serialization)
	program      *vm.Program // compiled bytecode
}

// Spec is the configuration form of a rule.
type Spec struct {
	Name     string `yaml:"name" validate:"required"`
	Priority int    `yaml:"priority"`
	Role     string `yaml:"role" validate:"required,oneof=combat defend conquer explore exterminate"`
	When     string `yaml:"when" validate:"required"`
}

// FromSpecs converts configured rules. Unknown roles are rejected.
func FromSpecs(specs []Spec) ([]*Rule, error) {
	out := make([]*Rule, 0, len(specs))
	for _, s := range specs {
		role, err := ParseRole(s.Role)
		if err != nil {
			return nil, err
		}
		out = append(out, &Rule{Name: s.Name, Priority: s.Priority, Role: role, ConditionSrc: s.When})
	}
	return out, nil
}
