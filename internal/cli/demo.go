package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lisql/internal/journal"
	"github.com/roach88/lisql/internal/object"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions
	Database string
	Table    string
}

// DemoResult holds the output of the demo command.
type DemoResult struct {
	Table      string   `json:"table"`
	Tracked    []string `json:"tracked"`
	Statements []string `json:"statements"`
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Show change tracking on a tracked object",
		Long: `Construct a tracked object, write one field twice and log the touched
keys after each write. The object is then created and updated, so the
statements show that only touched fields are sent.

Examples:
  lisql demo
  lisql demo --db ./journal.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to a SQLite journal to record statements in")
	cmd.Flags().StringVar(&opts.Table, "table", "people", "table the object belongs to")

	return cmd
}

func runDemo(ctx context.Context, opts *DemoOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)
	logger := slog.Default()

	rec := &object.Recorder{}
	var exec object.Executor = rec
	if opts.Database != "" {
		j, err := journal.Open(opts.Database, journal.WithLogger(logger))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()
		exec = object.ExecutorFunc(func(ctx context.Context, stmt string) error {
			if err := j.Exec(ctx, stmt); err != nil {
				return err
			}
			return rec.Exec(ctx, stmt)
		})
	}

	person := object.New(opts.Table, object.WithExecutor(exec), object.WithLogger(logger))

	for _, name := range []string{"Ada", "Grace"} {
		if err := person.Set("name", name); err != nil {
			return WrapExitError(ExitFailure, "failed to set name", err)
		}
		logger.Info("tracked props", "keys", person.TrackedProps())
	}

	if err := person.Create(ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to create object", err)
	}
	if err := person.Set("email", "grace@example.com"); err != nil {
		return WrapExitError(ExitFailure, "failed to set email", err)
	}
	if err := person.Update(ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to update object", err)
	}

	result := DemoResult{
		Table:      person.Table(),
		Tracked:    person.TrackedProps(),
		Statements: rec.Statements(),
	}
	if opts.Format == "json" {
		return out.Success(result)
	}

	fmt.Fprintf(out.Writer, "tracked: [%s]\n", strings.Join(result.Tracked, ", "))
	for _, stmt := range result.Statements {
		fmt.Fprintln(out.Writer, stmt)
	}
	return nil
}
