package engine

import (
	"fmt"
	"strings"

	"assessflow/internal/model"
)

// EvaluateAll reports whether every condition holds against the answer map.
// An empty condition list always matches. The returned error is an
// *model.EvaluationError when an operator meets an incompatible value type.
func EvaluateAll(conds []model.Condition, responses map[string]interface{}) (bool, error) {
	for _, c := range conds {
		ok, err := evaluate(c, responses)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluate(c model.Condition, responses map[string]interface{}) (bool, error) {
	answer, present := responses[c.Field]

	switch c.Operator {
	case model.OpEquals:
		return present && looseEqual(answer, c.Value), nil
	case model.OpNotEquals:
		return !present || !looseEqual(answer, c.Value), nil
	case model.OpGreaterThan, model.OpLessThan:
		if !present {
			return false, nil
		}
		a, aok := numeric(answer)
		v, vok := numeric(c.Value)
		if !aok || !vok {
			return false, &model.EvaluationError{
				Field:    c.Field,
				Operator: c.Operator,
				Reason:   "operands are not numeric",
			}
		}
		if c.Operator == model.OpGreaterThan {
			return a > v, nil
		}
		return a < v, nil
	case model.OpContains:
		return present && strings.Contains(stringify(answer), stringify(c.Value)), nil
	case model.OpNotContains:
		return !present || !strings.Contains(stringify(answer), stringify(c.Value)), nil
	default:
		return false, &model.EvaluationError{
			Field:    c.Field,
			Operator: c.Operator,
			Reason:   "unknown operator",
		}
	}
}

// looseEqual compares across the value shapes JSON decoding produces:
// numbers compare numerically regardless of Go type, everything else by
// string representation.
func looseEqual(a, b interface{}) bool {
	if af, aok := numeric(a); aok {
		bf, bok := numeric(b)
		return bok && af == bf
	}
	return stringify(a) == stringify(b)
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
