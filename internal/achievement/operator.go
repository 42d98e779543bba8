package achievement

// Operator is a numeric/parity comparison used by kill-count conditions.
type Operator string

const (
	OpEqual    Operator = "="
	OpNotEqual Operator = "!="
	OpAtLeast  Operator = ">="
	OpGreater  Operator = ">"
	OpLess     Operator = "<"
	OpAtMost   Operator = "<="
	OpIsOdd    Operator = "isOdd"
	OpIsEven   Operator = "isEven"
)

// Compare reports whether observed satisfies the operator against target.
// The parity operators ignore target. Unknown operators fail closed: this
// runs once per rule per match, and one bad rule must not abort the sweep
// over the rest of the catalog.
func (op Operator) Compare(target, observed int) bool {
	switch op {
	case OpEqual:
		return observed == target
	case OpNotEqual:
		return observed != target
	case OpAtLeast:
		return observed >= target
	case OpGreater:
		return observed > target
	case OpLess:
		return observed < target
	case OpAtMost:
		return observed <= target
	case OpIsOdd:
		return observed%2 != 0
	case OpIsEven:
		return observed%2 == 0
	}
	return false
}

// Condition pairs an operator with its target value.
type Condition struct {
	Op    Operator `json:"op"`
	Value int      `json:"value"`
}

// Met reports whether the observed value satisfies the condition.
func (c Condition) Met(observed int) bool {
	return c.Op.Compare(c.Value, observed)
}
