package predicate

import (
	"github.com/roach88/lisql/internal/ir"
)

// Node is a condition inside a WHERE clause.
//
// This is a sealed interface - only Comparison, SubQuery and *Group
// implement it.
type Node interface {
	predicateNode() // Marker method - seals interface to this package
}

// Operator is a comparison operator.
type Operator string

const (
	OpEQ  Operator = "="
	OpNEQ Operator = "!="
	OpGT  Operator = ">"
	OpLT  Operator = "<"
	OpGTE Operator = ">="
	OpLTE Operator = "<="
	OpIn  Operator = "in"
)

// Operators lists every valid operator.
var Operators = []Operator{OpEQ, OpNEQ, OpGT, OpLT, OpGTE, OpLTE, OpIn}

// Valid reports whether op is one of Operators.
func (op Operator) Valid() bool {
	for _, o := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Condition joins the children of a Group.
type Condition string

const (
	CondAnd Condition = "AND"
	CondOr  Condition = "OR"
)

// Comparison compares a column with a literal value.
//
// Semantics:
//
//	<key><operator><value>
//	<key> IN (<v1>, <v2>, ...)   when Value is an ir.List
type Comparison struct {
	Key      string
	Operator Operator
	Value    ir.Value
}

func (Comparison) predicateNode() {}

// SubQuery tests membership of a column in the result of a keyed lookup.
//
// Semantics:
//
//	<key> IN (SELECT <foreignKey> FROM <foreignTable> WHERE <foreignKey>=<value>)
//
// SubQuery is read-only after construction.
type SubQuery struct {
	key          string
	foreignTable string
	foreignKey   string
	value        ir.Value
}

func (SubQuery) predicateNode() {}

// NewSubQuery creates a SubQuery leaf.
func NewSubQuery(key, foreignTable, foreignKey string, value ir.Value) SubQuery {
	return SubQuery{key: key, foreignTable: foreignTable, foreignKey: foreignKey, value: value}
}

// Key returns the column tested for membership.
func (s SubQuery) Key() string { return s.key }

// ForeignTable returns the table the sub-query selects from.
func (s SubQuery) ForeignTable() string { return s.foreignTable }

// ForeignKey returns the selected and filtered column of the foreign table.
func (s SubQuery) ForeignKey() string { return s.foreignKey }

// Value returns the value the foreign key must equal.
func (s SubQuery) Value() ir.Value { return s.value }

// Group is an AND/OR composition of nodes. The zero value is an empty AND
// group.
type Group struct {
	condition Condition
	children  []Node
	// err is the first problem found while building; Render reports it.
	err error
}

func (*Group) predicateNode() {}

// And returns an empty group whose children are joined with AND.
func And() *Group {
	return &Group{condition: CondAnd}
}

// Or returns an empty group whose children are joined with OR.
func Or() *Group {
	return &Group{condition: CondOr}
}

// Condition returns the group's join condition.
func (g *Group) Condition() Condition {
	if g.condition == "" {
		return CondAnd
	}
	return g.condition
}

// Children returns a copy of the group's children in insertion order.
func (g *Group) Children() []Node {
	out := make([]Node, len(g.children))
	copy(out, g.children)
	return out
}

// Len returns the number of direct children.
func (g *Group) Len() int {
	return len(g.children)
}

// Err returns the first error recorded while building the group.
func (g *Group) Err() error {
	return g.err
}

// Where appends a comparison. value may be an ir.Value or any Go value
// accepted by ir.FromGo; slices become lists and render as IN (...).
func (g *Group) Where(key string, op Operator, value any) *Group {
	v, err := ir.FromGo(value)
	if err != nil {
		g.fail(&Error{Code: ErrCodeInvalidValue, Key: key, Message: "cannot convert value", Err: err})
		return g
	}
	g.children = append(g.children, Comparison{Key: key, Operator: op, Value: v})
	return g
}

// WhereThese appends a nested group. Nesting a group inside itself,
// directly or through its descendants, records a CYCLE error.
func (g *Group) WhereThese(other *Group) *Group {
	if other == nil {
		g.fail(&Error{Code: ErrCodeNilNode, Message: "nested group is nil"})
		return g
	}
	if other.contains(g) {
		g.fail(&Error{Code: ErrCodeCycle, Message: "group cannot contain itself"})
		return g
	}
	g.children = append(g.children, other)
	return g
}

// contains reports whether target is g or one of its descendants.
func (g *Group) contains(target *Group) bool {
	if g == target {
		return true
	}
	for _, child := range g.children {
		if nested, ok := child.(*Group); ok && nested != nil && nested.contains(target) {
			return true
		}
	}
	return false
}

// WhereKeyIsValueOfQuery appends a sub-query leaf.
func (g *Group) WhereKeyIsValueOfQuery(key, foreignTable, foreignKey string, value any) *Group {
	v, err := ir.FromGo(value)
	if err != nil {
		g.fail(&Error{Code: ErrCodeInvalidValue, Key: key, Message: "cannot convert sub-query value", Err: err})
		return g
	}
	if !ir.IsScalar(v) {
		g.fail(&Error{Code: ErrCodeInvalidValue, Key: key, Message: "sub-query value must be a scalar"})
		return g
	}
	g.children = append(g.children, NewSubQuery(key, foreignTable, foreignKey, v))
	return g
}

// Generate renders the group as a parenthesized boolean expression.
func (g *Group) Generate() (string, error) {
	return Render(g)
}

func (g *Group) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}
