package object

import (
	"context"
	"log/slog"
	"sync"
)

// Executor runs one generated statement against a persistence backend.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, stmt string) error

// Exec calls f.
func (f ExecutorFunc) Exec(ctx context.Context, stmt string) error {
	return f(ctx, stmt)
}

// Discard drops statements after logging them at debug level.
type Discard struct{}

// Exec logs stmt and returns nil.
func (Discard) Exec(ctx context.Context, stmt string) error {
	slog.DebugContext(ctx, "statement discarded", "statement", stmt)
	return nil
}

// Recorder keeps every statement it is given, in order.
//
// Thread-safety: Recorder is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	statements []string
}

// Exec records stmt.
func (r *Recorder) Exec(_ context.Context, stmt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, stmt)
	return nil
}

// Statements returns a copy of the recorded statements.
func (r *Recorder) Statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.statements))
	copy(out, r.statements)
	return out
}

// Last returns the most recent statement, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statements) == 0 {
		return ""
	}
	return r.statements[len(r.statements)-1]
}
