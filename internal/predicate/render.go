package predicate

import (
	"fmt"
	"strings"

	"github.com/roach88/lisql/internal/ir"
	"github.com/roach88/lisql/internal/literal"
)

// Render converts a node to its textual boolean expression.
func Render(n Node) (string, error) {
	switch node := n.(type) {
	case Comparison:
		return renderComparison(node)
	case *Comparison:
		if node == nil {
			return "", &Error{Code: ErrCodeNilNode, Message: "comparison is nil"}
		}
		return renderComparison(*node)
	case SubQuery:
		return renderSubQuery(node)
	case *SubQuery:
		if node == nil {
			return "", &Error{Code: ErrCodeNilNode, Message: "sub-query is nil"}
		}
		return renderSubQuery(*node)
	case *Group:
		if node == nil {
			return "", &Error{Code: ErrCodeNilNode, Message: "group is nil"}
		}
		return renderGroup(node)
	case nil:
		return "", &Error{Code: ErrCodeNilNode, Message: "node is nil"}
	default:
		return "", fmt.Errorf("unsupported predicate node: %T", n)
	}
}

// renderComparison renders key<op>value without spaces, or key IN (...)
// for list values regardless of the declared operator.
func renderComparison(c Comparison) (string, error) {
	if !c.Operator.Valid() {
		return "", &Error{
			Code:    ErrCodeInvalidOperator,
			Key:     c.Key,
			Message: fmt.Sprintf("unknown operator %q", c.Operator),
		}
	}

	if list, ok := c.Value.(ir.List); ok {
		return renderMembership(c.Key, list)
	}

	value, err := literal.Escape(c.Value)
	if err != nil {
		return "", &Error{Code: ErrCodeInvalidValue, Key: c.Key, Message: "cannot escape value", Err: err}
	}

	if c.Operator == OpIn {
		return c.Key + " IN (" + value + ")", nil
	}
	return c.Key + string(c.Operator) + value, nil
}

func renderMembership(key string, list ir.List) (string, error) {
	if len(list) == 0 {
		return "", &Error{Code: ErrCodeEmptyList, Key: key, Message: "membership list is empty"}
	}
	values, err := literal.EscapeAll(list)
	if err != nil {
		return "", &Error{Code: ErrCodeInvalidValue, Key: key, Message: "cannot escape list", Err: err}
	}
	return key + " IN (" + strings.Join(values, ", ") + ")", nil
}

func renderSubQuery(s SubQuery) (string, error) {
	value, err := literal.Escape(s.value)
	if err != nil {
		return "", &Error{Code: ErrCodeInvalidValue, Key: s.key, Message: "cannot escape sub-query value", Err: err}
	}
	return fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s=%s)",
		s.key, s.foreignKey, s.foreignTable, s.foreignKey, value), nil
}

// renderGroup renders every child and joins them with the group's
// condition inside one pair of parentheses.
func renderGroup(g *Group) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if len(g.children) == 0 {
		return "", &Error{Code: ErrCodeEmptyGroup, Message: fmt.Sprintf("%s group has no conditions", g.Condition())}
	}

	parts := make([]string, 0, len(g.children))
	for _, child := range g.children {
		part, err := Render(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}

	return "(" + strings.Join(parts, " "+string(g.Condition())+" ") + ")", nil
}
