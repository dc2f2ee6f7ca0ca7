package sat

import "fmt"

// Literal represents a literal, which either represent a boolean variable or
// its negation. Variable v has exactly two literals: 2*v and 2*v+1.
type Literal int

// PositiveLiteral returns the literal representing the variable itself.
func PositiveLiteral(varID int) Literal {
	return Literal(varID * 2)
}

// NegativeLiteral returns the literal representing the variable's negation.
func NegativeLiteral(varID int) Literal {
	return PositiveLiteral(varID).Opposite()
}

// VarID returns the ID of the literal's variable.
func (l Literal) VarID() int {
	return int(l) / 2
}

// IsPositive returns true if and only if the literal represent the value of
// its boolean variable (i.e. not its negation)
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the opposite literal.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

func (l Literal) String() string {
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.VarID())
	} else {
		return fmt.Sprintf("!%d", l.VarID())
	}
}
