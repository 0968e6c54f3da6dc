package predicate

import (
	"fmt"

	"github.com/roach88/lisql/internal/ir"
)

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if g, ok := n.(*Group); ok && g != nil {
		for _, child := range g.children {
			Walk(child, fn)
		}
	}
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Comparisons int
	SubQueries  int
	Groups      int
	Depth       int
}

// Collect computes Stats for n.
func Collect(n Node) Stats {
	var s Stats
	collect(n, 1, &s)
	return s
}

func collect(n Node, depth int, s *Stats) {
	if depth > s.Depth {
		s.Depth = depth
	}
	switch node := n.(type) {
	case Comparison, *Comparison:
		s.Comparisons++
	case SubQuery, *SubQuery:
		s.SubQueries++
	case *Group:
		if node == nil {
			return
		}
		s.Groups++
		for _, child := range node.children {
			collect(child, depth+1, s)
		}
	}
}

// Validate reports constructs that render but are probably unintended.
// It never fails; an empty result means nothing suspicious was found.
//
// Warnings are produced for:
//   - empty groups (Render rejects them)
//   - single-child groups nested in a group with the same condition
//   - the "in" operator applied to a scalar value
//
// Validate is a pure function with no side effects.
func Validate(n Node) []string {
	v := &validator{warnings: []string{}}
	v.validate(n, "")
	return v.warnings
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validate(n Node, parent Condition) {
	switch node := n.(type) {
	case Comparison:
		v.validateComparison(node)
	case *Comparison:
		if node != nil {
			v.validateComparison(*node)
		}
	case *Group:
		if node == nil {
			v.addWarning("nil group")
			return
		}
		if len(node.children) == 0 {
			v.addWarning("empty %s group", node.Condition())
		}
		if len(node.children) == 1 && parent == node.Condition() {
			v.addWarning("redundant single-child %s group inside %s group", node.Condition(), parent)
		}
		for _, child := range node.children {
			v.validate(child, node.Condition())
		}
	}
}

func (v *validator) validateComparison(c Comparison) {
	if c.Operator == OpIn && ir.IsScalar(c.Value) {
		v.addWarning("operator in used with scalar value for key %s", c.Key)
	}
}
