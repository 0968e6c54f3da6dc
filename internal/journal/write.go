package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/lisql/internal/command"
	"github.com/roach88/lisql/internal/ir"
)

// Entry is one recorded statement.
type Entry struct {
	ID        string
	Session   string
	Seq       int64
	Method    string
	Statement string
}

// methodPrefixes maps statement heads to methods. COUNT must precede SELECT.
var methodPrefixes = []struct {
	prefix string
	method command.Method
}{
	{"SELECT COUNT(*) ", command.MethodCount},
	{"SELECT ", command.MethodSelect},
	{"INSERT ", command.MethodInsert},
	{"UPDATE ", command.MethodUpdate},
	{"DELETE ", command.MethodDelete},
}

// MethodOf classifies a generated statement by its head.
// Returns "UNKNOWN" for text no command could have produced.
func MethodOf(stmt string) string {
	for _, p := range methodPrefixes {
		if strings.HasPrefix(stmt, p.prefix) {
			return string(p.method)
		}
	}
	return "UNKNOWN"
}

// Exec records stmt under the journal's session with the next seq.
// It implements object.Executor.
func (j *Journal) Exec(ctx context.Context, stmt string) error {
	_, err := j.record(ctx, MethodOf(stmt), stmt)
	return err
}

// Record generates cmd and records the statement.
func (j *Journal) Record(ctx context.Context, cmd *command.Command) (Entry, error) {
	stmt, err := cmd.Generate()
	if err != nil {
		return Entry{}, fmt.Errorf("record: %w", err)
	}
	return j.record(ctx, string(cmd.Method()), stmt)
}

func (j *Journal) record(ctx context.Context, method, stmt string) (Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	// The clock advances only once the row is stored, so a failed
	// insert leaves no gap in the sequence.
	seq := j.clock.Current() + 1
	id, err := ir.StatementID(j.session, seq, stmt)
	if err != nil {
		return Entry{}, fmt.Errorf("record: %w", err)
	}

	entry := Entry{
		ID:        id,
		Session:   j.session,
		Seq:       seq,
		Method:    method,
		Statement: stmt,
	}
	if err := j.Append(ctx, entry); err != nil {
		return Entry{}, err
	}
	j.clock.Next()

	j.log.DebugContext(ctx, "statement recorded",
		"session", j.session,
		"seq", seq,
		"method", method,
	)
	return entry, nil
}

// Append inserts an entry as given.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO statements (id, session, seq, method, statement)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.Session,
		e.Seq,
		e.Method,
		e.Statement,
	)
	if err != nil {
		return fmt.Errorf("append statement: %w", err)
	}
	return nil
}
