// Package command builds single SQL statements as text.
//
// A Command is bound to one method at construction and accumulates table,
// orderings, limit, parameters and an optional predicate through fluent
// mutators. Generate compiles the state into one newline-free statement
// terminated by ";". Values are embedded as escaped literals; identifiers
// are emitted verbatim.
//
//	command.Select("t").Sort("a", command.Asc).Limit(5).Generate()
//	// SELECT * FROM t ORDER BY a ASC LIMIT 5;
package command

import (
	"fmt"
	"strings"

	"github.com/roach88/lisql/internal/ir"
	"github.com/roach88/lisql/internal/predicate"
)

// Method is the statement kind.
type Method string

const (
	MethodSelect Method = "SELECT"
	MethodUpdate Method = "UPDATE"
	MethodInsert Method = "INSERT"
	MethodDelete Method = "DELETE"
	MethodCount  Method = "COUNT"
)

// Methods lists every supported method.
var Methods = []Method{MethodSelect, MethodUpdate, MethodInsert, MethodDelete, MethodCount}

// ParseMethod resolves a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", &Error{Code: ErrCodeInvalidMethod, Message: fmt.Sprintf("unknown method %q", s)}
}

// Direction is a sort direction token.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "<"
	// Desc sorts descending.
	Desc Direction = ">"
)

// keyword returns the SQL keyword for d.
func (d Direction) keyword() (string, bool) {
	switch d {
	case Asc:
		return "ASC", true
	case Desc:
		return "DESC", true
	}
	return "", false
}

// Ordering is one ORDER BY term.
type Ordering struct {
	Key       string
	Direction Direction
}

// Param is one key/value pair set on a command.
type Param struct {
	Key   string
	Value ir.Value
}

// Command holds the state of one statement under construction.
//
// Commands are not safe for concurrent use; the creator owns them.
type Command struct {
	method    Method
	table     string
	orderings []Ordering
	limit     int
	hasLimit  bool
	params    []Param
	index     map[string]int
	predicate *predicate.Group

	// err is the first problem found by a mutator; Generate reports it.
	err error
}

// New creates a command for method, optionally bound to a table.
func New(method Method, table ...string) *Command {
	c := &Command{method: method, index: make(map[string]int)}
	if len(table) > 0 {
		c.table = table[0]
	}
	return c
}

// Select creates a SELECT command.
func Select(table ...string) *Command { return New(MethodSelect, table...) }

// Update creates an UPDATE command.
func Update(table ...string) *Command { return New(MethodUpdate, table...) }

// Insert creates an INSERT command.
func Insert(table ...string) *Command { return New(MethodInsert, table...) }

// Delete creates a DELETE command.
func Delete(table ...string) *Command { return New(MethodDelete, table...) }

// Count creates a SELECT COUNT(*) command.
func Count(table ...string) *Command { return New(MethodCount, table...) }

// Table binds the table.
func (c *Command) Table(table string) *Command {
	c.table = table
	return c
}

// Sort appends an ordering. Orderings render in the order added.
func (c *Command) Sort(key string, dir Direction) *Command {
	if _, ok := dir.keyword(); !ok {
		c.fail(&Error{
			Code:    ErrCodeInvalidSort,
			Method:  c.method,
			Message: fmt.Sprintf("invalid sort direction %q for key %s (want %q or %q)", dir, key, Asc, Desc),
		})
		return c
	}
	c.orderings = append(c.orderings, Ordering{Key: key, Direction: dir})
	return c
}

// Limit sets the row limit. A negative n clears it.
func (c *Command) Limit(n int) *Command {
	if n < 0 {
		c.limit, c.hasLimit = 0, false
		return c
	}
	c.limit, c.hasLimit = n, true
	return c
}

// Set assigns a parameter. Keys keep the position of their first Set;
// setting a key again replaces its value.
func (c *Command) Set(key string, value any) *Command {
	v, err := ir.FromGo(value)
	if err == nil && !ir.IsScalar(v) {
		err = fmt.Errorf("lists cannot be assigned")
	}
	if err != nil {
		c.fail(&Error{
			Code:    ErrCodeInvalidValue,
			Method:  c.method,
			Message: fmt.Sprintf("invalid value for parameter %s", key),
			Err:     err,
		})
		return c
	}
	if i, ok := c.index[key]; ok {
		c.params[i].Value = v
		return c
	}
	c.index[key] = len(c.params)
	c.params = append(c.params, Param{Key: key, Value: v})
	return c
}

// Where replaces the predicate with an AND group holding one comparison.
func (c *Command) Where(key string, op predicate.Operator, value any) *Command {
	c.predicate = predicate.And().Where(key, op, value)
	return c
}

// WhereThese replaces the predicate with group. A nil group records a
// PREDICATE error wrapping NIL_NODE, as Group.WhereThese does.
func (c *Command) WhereThese(group *predicate.Group) *Command {
	if group == nil {
		c.fail(&Error{
			Code:    ErrCodePredicate,
			Method:  c.method,
			Message: "has a nil predicate group",
			Err:     &predicate.Error{Code: predicate.ErrCodeNilNode, Message: "nested group is nil"},
		})
		return c
	}
	c.predicate = group
	return c
}

// WhereKeyIsValueOfQuery replaces the predicate with an AND group holding
// one sub-query leaf.
func (c *Command) WhereKeyIsValueOfQuery(key, foreignTable, foreignKey string, value any) *Command {
	c.predicate = predicate.And().WhereKeyIsValueOfQuery(key, foreignTable, foreignKey, value)
	return c
}

// Method returns the statement kind.
func (c *Command) Method() Method { return c.method }

// TableName returns the bound table, or "" when none is bound.
func (c *Command) TableName() string { return c.table }

// Params returns a copy of the parameters in insertion order.
func (c *Command) Params() []Param {
	out := make([]Param, len(c.params))
	copy(out, c.params)
	return out
}

// Orderings returns a copy of the orderings.
func (c *Command) Orderings() []Ordering {
	out := make([]Ordering, len(c.orderings))
	copy(out, c.orderings)
	return out
}

// LimitValue returns the limit and whether one is set.
func (c *Command) LimitValue() (int, bool) { return c.limit, c.hasLimit }

// Predicate returns the current predicate, or nil.
func (c *Command) Predicate() *predicate.Group { return c.predicate }

func (c *Command) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}
