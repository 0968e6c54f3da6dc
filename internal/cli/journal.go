package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/lisql/internal/journal"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Database string
	Session  string
	Method   string
}

// JournalEntry is one row of journal output.
type JournalEntry struct {
	Seq       int64  `json:"seq"`
	Session   string `json:"session"`
	Method    string `json:"method"`
	Statement string `json:"statement"`
	ID        string `json:"id"`
}

// JournalResult holds the output of the journal command.
type JournalResult struct {
	Entries  []JournalEntry `json:"entries"`
	Sessions []string       `json:"sessions"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recorded statements",
		Long: `List the statements recorded in a SQLite journal, oldest first.

Text output is a markdown table; JSON output includes the session list.

Examples:
  lisql journal --db ./journal.db
  lisql journal --db ./journal.db --method update
  lisql journal --db ./journal.db --session 0190a5c4-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "only show this session")
	cmd.Flags().StringVar(&opts.Method, "method", "", "only show this method")

	return cmd
}

func runJournal(ctx context.Context, opts *JournalOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	j, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer func() {
		if closeErr := j.Close(); closeErr != nil {
			slog.Error("error closing journal", "error", closeErr)
		}
	}()

	entries, err := j.List(ctx, journal.Filter{Session: opts.Session, Method: opts.Method})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list statements", err)
	}
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	result := JournalResult{
		Entries:  make([]JournalEntry, len(entries)),
		Sessions: sessions,
	}
	for i, e := range entries {
		result.Entries[i] = JournalEntry{
			Seq:       e.Seq,
			Session:   e.Session,
			Method:    e.Method,
			Statement: e.Statement,
			ID:        e.ID,
		}
	}

	if opts.Format == "json" {
		return out.Success(result)
	}

	if len(result.Entries) == 0 {
		fmt.Fprintln(out.Writer, "No statements recorded.")
		return nil
	}
	rows := make([][]string, len(result.Entries))
	for i, e := range result.Entries {
		rows[i] = []string{strconv.FormatInt(e.Seq, 10), e.Session, e.Method, e.Statement}
	}
	out.Table([]string{"seq", "session", "method", "statement"}, rows)
	fmt.Fprintf(out.Writer, "\n_%d statements, %d sessions_\n", len(result.Entries), len(result.Sessions))
	return nil
}
