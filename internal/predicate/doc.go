// Package predicate provides the boolean expression tree used in WHERE
// clauses and its renderer.
//
// NODES:
//
// Node is a sealed interface using the marker method pattern. Only three
// variants exist:
//   - Comparison: key<op>value, or key IN (...) when the value is a list
//   - SubQuery:   key IN (SELECT fk FROM ft WHERE fk=value)
//   - *Group:     AND/OR composition of child nodes
//
// Render dispatches on the variant with a single type switch and recurses
// into groups, so there is no per-node Generate method to keep in sync.
//
// RENDERING RULES:
//
//	Comparison{Key: "age", Operator: ">=", Value: ir.Int(21)}   → age>=21
//	Comparison{Key: "k", Operator: "=", Value: ir.List{...}}   → k IN ('x', 'y')
//	And().Where("a", "=", 1).Where("b", "=", 2)                → (a=1 AND b=2)
//
// Comparisons never carry spaces around the operator. Groups are always
// wrapped in exactly one pair of parentheses. An empty group is an error
// rather than the degenerate "()".
//
// BUILDING:
//
// And() and Or() create empty groups. Where, WhereThese and
// WhereKeyIsValueOfQuery append a child and return the same group, so calls
// chain in any order. Conversion problems found while building are kept on
// the group and reported by Render.
package predicate
