package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/lisql/internal/literal"
	"github.com/roach88/lisql/internal/predicate"
)

// Generate compiles the command into one statement terminated by ";".
//
// Shapes:
//
//	SELECT * FROM t[ WHERE p][ ORDER BY k ASC|DESC, ...][ LIMIT n];
//	SELECT COUNT(*) FROM t[ WHERE p][ ORDER BY ...][ LIMIT n];
//	INSERT INTO t[ WHERE p] (k1, k2) VALUES (v1, v2);
//	UPDATE t SET k1=v1, k2=v2[ WHERE p];
//	DELETE FROM t[ WHERE p];
//
// Generate does not modify the command.
func (c *Command) Generate() (string, error) {
	if c.table == "" {
		return "", &Error{Code: ErrCodeMissingTable, Method: c.method, Message: "has no table"}
	}
	if c.err != nil {
		return "", c.err
	}

	where, err := c.whereClause()
	if err != nil {
		return "", err
	}

	var sql string
	switch c.method {
	case MethodSelect:
		sql = "SELECT * FROM " + c.table + where + c.tailClauses()
	case MethodCount:
		sql = "SELECT COUNT(*) FROM " + c.table + where + c.tailClauses()
	case MethodInsert:
		sql, err = c.insert(where)
	case MethodUpdate:
		sql, err = c.update(where)
	case MethodDelete:
		sql = "DELETE FROM " + c.table + where
	default:
		return "", &Error{Code: ErrCodeInvalidMethod, Method: c.method, Message: "is not a supported method"}
	}
	if err != nil {
		return "", err
	}

	return sql + ";", nil
}

// GenerateFor binds table, keeping it for later calls, then generates.
// An empty table keeps the one already bound.
func (c *Command) GenerateFor(table string) (string, error) {
	if table != "" {
		c.table = table
	}
	return c.Generate()
}

// MustGenerate is like Generate but panics on error.
// Use only in tests or when the command is known to be valid.
func (c *Command) MustGenerate() string {
	sql, err := c.Generate()
	if err != nil {
		panic(err)
	}
	return sql
}

// String returns the generated statement, or a description of the error.
func (c *Command) String() string {
	sql, err := c.Generate()
	if err != nil {
		return fmt.Sprintf("<invalid %s: %v>", c.method, err)
	}
	return sql
}

// whereClause renders " WHERE <predicate>", or "" without a predicate.
func (c *Command) whereClause() (string, error) {
	if c.predicate == nil {
		return "", nil
	}
	p, err := predicate.Render(c.predicate)
	if err != nil {
		return "", &Error{Code: ErrCodePredicate, Method: c.method, Message: "has an invalid predicate", Err: err}
	}
	return " WHERE " + p, nil
}

// tailClauses renders ORDER BY and LIMIT for SELECT and COUNT.
func (c *Command) tailClauses() string {
	var b strings.Builder
	if len(c.orderings) > 0 {
		terms := make([]string, len(c.orderings))
		for i, o := range c.orderings {
			kw, _ := o.Direction.keyword()
			terms[i] = o.Key + " " + kw
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(terms, ", "))
	}
	if c.hasLimit {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(c.limit))
	}
	return b.String()
}

func (c *Command) insert(where string) (string, error) {
	if len(c.params) == 0 {
		return "", &Error{Code: ErrCodeMissingParameters, Method: c.method, Message: "has no parameters"}
	}
	keys := make([]string, len(c.params))
	values := make([]string, len(c.params))
	for i, p := range c.params {
		v, err := literal.Escape(p.Value)
		if err != nil {
			return "", &Error{Code: ErrCodeInvalidValue, Method: c.method, Message: "cannot escape parameter " + p.Key, Err: err}
		}
		keys[i] = p.Key
		values[i] = v
	}
	return fmt.Sprintf("INSERT INTO %s%s (%s) VALUES (%s)",
		c.table, where, strings.Join(keys, ", "), strings.Join(values, ", ")), nil
}

func (c *Command) update(where string) (string, error) {
	if len(c.params) == 0 {
		return "", &Error{Code: ErrCodeMissingParameters, Method: c.method, Message: "has no parameters"}
	}
	assignments := make([]string, len(c.params))
	for i, p := range c.params {
		v, err := literal.Escape(p.Value)
		if err != nil {
			return "", &Error{Code: ErrCodeInvalidValue, Method: c.method, Message: "cannot escape parameter " + p.Key, Err: err}
		}
		assignments[i] = p.Key + "=" + v
	}
	return "UPDATE " + c.table + " SET " + strings.Join(assignments, ", ") + where, nil
}
