package cmdspec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/roach88/lisql/internal/command"
	"github.com/roach88/lisql/internal/ir"
	"github.com/roach88/lisql/internal/predicate"
)

// Build constructs the command a spec declares. The command is not
// generated; generation errors (missing table, empty groups) surface from
// Generate.
func Build(spec Spec) (*command.Command, error) {
	method, err := command.ParseMethod(spec.Method)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidMethod, Message: fmt.Sprintf("%s: unknown method %q", spec.Name, spec.Method)}
	}

	cmd := command.New(method, spec.Table)

	if spec.Where != nil {
		group, err := BuildGroup(*spec.Where)
		if err != nil {
			return nil, err
		}
		cmd.WhereThese(group)
	}

	for i, s := range spec.Sort {
		dir, err := parseDirection(s.Dir)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidSort, Message: fmt.Sprintf("%s: sort[%d]: %v", spec.Name, i, err)}
		}
		cmd.Sort(s.Key, dir)
	}

	if spec.Limit != nil {
		cmd.Limit(*spec.Limit)
	}

	for _, a := range spec.Set {
		v, err := ToValue(a.Value)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidValue, Message: fmt.Sprintf("%s: set %s: %v", spec.Name, a.Key, err)}
		}
		cmd.Set(a.Key, v)
	}

	return cmd, nil
}

// BuildGroup constructs a predicate group. A leaf at the top level is
// wrapped in an AND group, as Command.Where does.
func BuildGroup(w Where) (*predicate.Group, error) {
	if !w.IsGroup() {
		g := predicate.And()
		if err := addLeaf(g, w); err != nil {
			return nil, err
		}
		return g, nil
	}

	g, children := predicate.And(), w.And
	if w.Or != nil {
		g, children = predicate.Or(), w.Or
	}
	for _, child := range children {
		if child.IsGroup() {
			nested, err := BuildGroup(child)
			if err != nil {
				return nil, err
			}
			g.WhereThese(nested)
			continue
		}
		if err := addLeaf(g, child); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func addLeaf(g *predicate.Group, w Where) error {
	if w.In != nil {
		v, err := ToValue(w.In.Value)
		if err != nil {
			return &LoadError{Code: ErrCodeInvalidValue, Message: fmt.Sprintf("where %s: %v", w.Key, err)}
		}
		g.WhereKeyIsValueOfQuery(w.Key, w.In.Table, w.In.Key, v)
		return nil
	}
	v, err := ToValue(w.Value)
	if err != nil {
		return &LoadError{Code: ErrCodeInvalidValue, Message: fmt.Sprintf("where %s: %v", w.Key, err)}
	}
	g.Where(w.Key, predicate.Operator(w.Op), v)
	return nil
}

func parseDirection(s string) (command.Direction, error) {
	switch strings.ToLower(s) {
	case "<", "asc":
		return command.Asc, nil
	case ">", "desc":
		return command.Desc, nil
	}
	return "", fmt.Errorf("invalid direction %q (want <, >, asc or desc)", s)
}

// ToValue converts a decoded document value into an ir.Value.
// Besides what ir.FromGo accepts, {blob: <hex>} becomes ir.Blob and lists
// may contain blobs.
func ToValue(v any) (ir.Value, error) {
	switch val := v.(type) {
	case map[string]any:
		return blobValue(val)
	case []any:
		list := make(ir.List, len(val))
		for i, elem := range val {
			if _, nested := elem.([]any); nested {
				return nil, fmt.Errorf("list[%d]: nested lists are not supported", i)
			}
			converted, err := ToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			list[i] = converted
		}
		return list, nil
	}
	return ir.FromGo(v)
}

func blobValue(m map[string]any) (ir.Value, error) {
	raw, ok := m["blob"]
	if !ok || len(m) != 1 {
		return nil, fmt.Errorf("objects must have exactly one field, blob")
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("blob must be a hex string, got %T", raw)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("blob: %w", err)
	}
	return ir.Blob(b), nil
}
