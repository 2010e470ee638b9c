package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition operators.
const (
	OpEquals             = "equals"
	OpContains           = "contains"
	OpContainsIgnoreCase = "contains_ignore_case"
	OpGreater            = "greater"
	OpLess               = "less"
)

// evaluateConditions walks the ordered condition list and returns the target
// of the first match. When no condition matches it falls back, in order, to
// the config's defaultNodeId, elseNodeId, then the node's own nextNodeId.
// ok is false when no route exists at all.
func evaluateConditions(cfg *ConditionConfig, nodeNextId string, variables map[string]interface{}) (nextId string, ok bool) {
	for _, c := range cfg.Conditions {
		if !conditionMatches(c, variables) {
			continue
		}
		if c.TargetNodeId != "" {
			return c.TargetNodeId, true
		}
		if c.NextNodeId != "" {
			return c.NextNodeId, true
		}
	}

	for _, fallback := range []string{cfg.DefaultNodeId, cfg.ElseNodeId, nodeNextId} {
		if fallback != "" {
			return fallback, true
		}
	}
	return "", false
}

func conditionMatches(c Condition, variables map[string]interface{}) bool {
	var actual interface{}
	if c.Variable != "" {
		actual = variables[c.Variable]
	} else {
		actual = variables[VarUserResponse]
	}

	actualStr := stringifyOperand(actual)
	expectedStr := stringifyOperand(c.Value)

	switch c.Operator {
	case OpEquals:
		return strings.EqualFold(strings.TrimSpace(actualStr), strings.TrimSpace(expectedStr))
	case OpContains:
		return strings.Contains(actualStr, expectedStr)
	case OpContainsIgnoreCase:
		return strings.Contains(strings.ToLower(actualStr), strings.ToLower(expectedStr))
	case OpGreater:
		a, aok := operandFloat(actual)
		b, bok := operandFloat(c.Value)
		// A non-numeric operand compares as NaN: never greater.
		return aok && bok && a > b
	case OpLess:
		a, aok := operandFloat(actual)
		b, bok := operandFloat(c.Value)
		return aok && bok && a < b
	default:
		return false
	}
}

func stringifyOperand(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return formatPlain(v)
}

// formatPlain stringifies without locale grouping, for comparisons.
func formatPlain(v interface{}) string {
	if f, ok := asFloat(v); ok {
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b)
	}
	return fmt.Sprintf("%v", v)
}

func operandFloat(v interface{}) (float64, bool) {
	if f, ok := asFloat(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}
