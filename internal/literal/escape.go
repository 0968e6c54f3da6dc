// Package literal renders scalar values as SQL literal text.
//
// The escaper is intentionally minimal: text values have single and double
// quotes backslash-escaped and nothing else. Identifiers are never escaped,
// so callers must not pass attacker-controlled table or column names.
package literal

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/lisql/internal/ir"
)

// NullLiteral is the unquoted literal for null and absent values.
const NullLiteral = "NULL"

// quoteReplacer escapes ' then " in one pass. Neither replacement produces
// a quote character, so the single pass equals applying both in order.
var quoteReplacer = strings.NewReplacer(`'`, `\'`, `"`, `\"`)

// EncodingError reports a value that could not be converted to literal text.
type EncodingError struct {
	Kind string
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot encode %s value: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("cannot encode %s value", e.Kind)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Escape converts a scalar value into its literal form:
//
//	nil, ir.Null  → NULL
//	ir.Text       → 'it\'s'
//	ir.Blob       → 'deadbeef'
//	ir.Bool       → true / false
//	ir.Int        → 42
//	ir.Float      → 1.5
//
// Lists are not scalars and NaN or infinite floats have no literal form;
// both fail with an EncodingError.
func Escape(v ir.Value) (string, error) {
	switch val := v.(type) {
	case nil, ir.Null:
		return NullLiteral, nil
	case ir.Text:
		return Quote(string(val)), nil
	case ir.Blob:
		return "'" + hex.EncodeToString(val) + "'", nil
	case ir.Bool:
		return strconv.FormatBool(bool(val)), nil
	case ir.Int:
		return strconv.FormatInt(int64(val), 10), nil
	case ir.Float:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", &EncodingError{Kind: "float", Err: fmt.Errorf("%v is not a finite number", f)}
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case ir.List:
		return "", &EncodingError{Kind: "list", Err: fmt.Errorf("lists are only valid in membership tests")}
	default:
		return "", &EncodingError{Kind: fmt.Sprintf("%T", v)}
	}
}

// EscapeAll escapes each value in order, stopping at the first error.
func EscapeAll(vs []ir.Value) ([]string, error) {
	out := make([]string, len(vs))
	for i, v := range vs {
		s, err := Escape(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// Quote wraps s in single quotes after backslash-escaping every ' and ".
func Quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
