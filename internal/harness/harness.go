package harness

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/lisql/internal/cmdspec"
	"github.com/roach88/lisql/internal/command"
	"github.com/roach88/lisql/internal/ir"
	"github.com/roach88/lisql/internal/predicate"
)

// Run builds and generates every command of doc and checks expectations.
// Run never returns an error: build and generation problems are recorded
// on the failing case.
func Run(doc *cmdspec.Document) *Result {
	result := &Result{
		Document: doc.Name,
		Path:     doc.Path,
		Cases:    make([]CaseResult, 0, len(doc.Commands)),
	}

	for _, spec := range doc.Commands {
		c := runCase(spec)
		slog.Debug("case finished",
			"document", doc.Name,
			"case", c.Name,
			"status", c.Status,
		)
		result.Cases = append(result.Cases, c)
	}

	hash, err := ir.DocumentHash(result.Statements())
	if err != nil {
		// Unreachable: canonical JSON accepts any []string.
		panic(fmt.Sprintf("harness: hash statements: %v", err))
	}
	result.Hash = hash

	return result
}

// RunFile loads a document and runs it.
func RunFile(path string) (*Result, error) {
	doc, err := cmdspec.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Run(doc), nil
}

func runCase(spec cmdspec.Spec) CaseResult {
	c := CaseResult{Name: spec.Name, Method: spec.Method}

	stmt, err := generate(spec)
	if err != nil {
		c.ErrorCode = ErrorCode(err)
		c.Error = err.Error()
		switch {
		case spec.ExpectError == "":
			c.Status = StatusFail
			c.Message = "unexpected error"
		case spec.ExpectError != c.ErrorCode:
			c.Status = StatusFail
			c.Message = fmt.Sprintf("expected error %s, got %s", spec.ExpectError, c.ErrorCode)
		default:
			c.Status = StatusPass
		}
		return c
	}

	c.Statement = stmt
	switch {
	case spec.ExpectError != "":
		c.Status = StatusFail
		c.Message = fmt.Sprintf("expected error %s, got a statement", spec.ExpectError)
	case spec.Expect != "" && spec.Expect != stmt:
		c.Status = StatusFail
		c.Message = "statement mismatch\n  want: " + spec.Expect + "\n  got:  " + stmt
	default:
		c.Status = StatusPass
	}
	return c
}

func generate(spec cmdspec.Spec) (string, error) {
	cmd, err := cmdspec.Build(spec)
	if err != nil {
		return "", err
	}
	return cmd.Generate()
}

// ErrorCode returns the most specific code in err's chain, or "" if none.
func ErrorCode(err error) string {
	var loadErr *cmdspec.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	if code := predicate.CodeOf(err); code != "" {
		return string(code)
	}
	if code := command.CodeOf(err); code != "" {
		return string(code)
	}
	return ""
}
