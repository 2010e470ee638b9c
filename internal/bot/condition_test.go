package bot

import (
	"testing"
)

func TestEvaluateConditionsFirstMatchWins(t *testing.T) {
	cfg := &ConditionConfig{
		Conditions: []Condition{
			{Operator: OpEquals, Value: "si", TargetNodeId: "first"},
			{Operator: OpContains, Value: "s", TargetNodeId: "second"},
		},
	}
	vars := map[string]interface{}{VarUserResponse: "si"}

	next, ok := evaluateConditions(cfg, "", vars)
	if !ok || next != "first" {
		t.Errorf("evaluateConditions = (%q, %v), want (%q, true)", next, ok, "first")
	}
}

func TestEvaluateConditionsOperators(t *testing.T) {
	tests := []struct {
		name    string
		cond    Condition
		vars    map[string]interface{}
		wantHit bool
	}{
		{
			name:    "equals trims and ignores case",
			cond:    Condition{Operator: OpEquals, Value: "si"},
			vars:    map[string]interface{}{VarUserResponse: "  SI "},
			wantHit: true,
		},
		{
			name:    "equals mismatch",
			cond:    Condition{Operator: OpEquals, Value: "si"},
			vars:    map[string]interface{}{VarUserResponse: "tal vez"},
			wantHit: false,
		},
		{
			name:    "contains is case sensitive",
			cond:    Condition{Operator: OpContains, Value: "Pago"},
			vars:    map[string]interface{}{VarUserResponse: "quiero un pago"},
			wantHit: false,
		},
		{
			name:    "contains_ignore_case",
			cond:    Condition{Operator: OpContainsIgnoreCase, Value: "PAGO"},
			vars:    map[string]interface{}{VarUserResponse: "quiero un pago"},
			wantHit: true,
		},
		{
			name:    "greater numeric",
			cond:    Condition{Operator: OpGreater, Variable: "saldo", Value: 100000},
			vars:    map[string]interface{}{"saldo": float64(250000)},
			wantHit: true,
		},
		{
			name:    "less numeric",
			cond:    Condition{Operator: OpLess, Variable: "saldo", Value: 100000},
			vars:    map[string]interface{}{"saldo": float64(250000)},
			wantHit: false,
		},
		{
			name:    "greater with non-numeric operand never matches",
			cond:    Condition{Operator: OpGreater, Variable: "saldo", Value: 100},
			vars:    map[string]interface{}{"saldo": "mucho"},
			wantHit: false,
		},
		{
			name:    "named variable preferred over user_response",
			cond:    Condition{Operator: OpEquals, Variable: "tipo", Value: "natural"},
			vars:    map[string]interface{}{"tipo": "natural", VarUserResponse: "otro"},
			wantHit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ConditionConfig{Conditions: []Condition{tt.cond}}
			cfg.Conditions[0].TargetNodeId = "hit"

			next, ok := evaluateConditions(cfg, "", tt.vars)
			gotHit := ok && next == "hit"
			if gotHit != tt.wantHit {
				t.Errorf("match = %v, want %v (next=%q ok=%v)", gotHit, tt.wantHit, next, ok)
			}
		})
	}
}

func TestEvaluateConditionsFallbackOrder(t *testing.T) {
	noMatch := []Condition{{Operator: OpEquals, Value: "nunca", TargetNodeId: "X"}}
	vars := map[string]interface{}{VarUserResponse: "hola"}

	tests := []struct {
		name       string
		cfg        *ConditionConfig
		nodeNextId string
		wantNext   string
		wantOk     bool
	}{
		{
			name:       "defaultNodeId first",
			cfg:        &ConditionConfig{Conditions: noMatch, DefaultNodeId: "D", ElseNodeId: "E"},
			nodeNextId: "N",
			wantNext:   "D",
			wantOk:     true,
		},
		{
			name:       "elseNodeId second",
			cfg:        &ConditionConfig{Conditions: noMatch, ElseNodeId: "E"},
			nodeNextId: "N",
			wantNext:   "E",
			wantOk:     true,
		},
		{
			name:       "node nextNodeId last",
			cfg:        &ConditionConfig{Conditions: noMatch},
			nodeNextId: "N",
			wantNext:   "N",
			wantOk:     true,
		},
		{
			name:     "no route at all",
			cfg:      &ConditionConfig{Conditions: noMatch},
			wantNext: "",
			wantOk:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := evaluateConditions(tt.cfg, tt.nodeNextId, vars)
			if next != tt.wantNext || ok != tt.wantOk {
				t.Errorf("evaluateConditions = (%q, %v), want (%q, %v)", next, ok, tt.wantNext, tt.wantOk)
			}
		})
	}
}

// Mirrors the yes/no branch every collection flow opens with: a trimmed,
// case-folded "si" routes to the affirmative branch and anything else falls
// through to the default.
func TestEvaluateConditionsYesNoBranch(t *testing.T) {
	cfg := &ConditionConfig{
		Conditions: []Condition{{Operator: OpEquals, Value: "si", TargetNodeId: "A"}},
	}

	next, ok := evaluateConditions(cfg, "B", map[string]interface{}{VarUserResponse: "SI "})
	if !ok || next != "A" {
		t.Errorf("affirmative input routed to (%q, %v), want (A, true)", next, ok)
	}

	next, ok = evaluateConditions(cfg, "B", map[string]interface{}{VarUserResponse: "tal vez"})
	if !ok || next != "B" {
		t.Errorf("fallback input routed to (%q, %v), want (B, true)", next, ok)
	}
}
