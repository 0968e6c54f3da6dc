package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/lisql/internal/cmdspec"
	"github.com/roach88/lisql/internal/harness"
	"github.com/roach88/lisql/internal/journal"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Table    string // overrides every command's table
	Database string // optional journal path
}

// GeneratedStatement is one entry of generate's output.
type GeneratedStatement struct {
	Name      string `json:"name"`
	Statement string `json:"statement,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
	Seq       int64  `json:"seq,omitempty"`
}

// GenerateResult holds the output of the generate command.
type GenerateResult struct {
	Document   string               `json:"document"`
	Session    string               `json:"session,omitempty"`
	Statements []GeneratedStatement `json:"statements"`
	Failed     int                  `json:"failed"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate SQL statements from a command document",
		Long: `Generate one SQL statement per command in a YAML, JSON or CUE document.

Expectations in the document are ignored; use "lisql test" to check them.
With --db every generated statement is appended to a SQLite journal.

Exit codes:
  0 - Every command generated a statement
  1 - One or more commands failed to generate
  2 - Command error (unreadable document, journal failure, etc.)

Examples:
  lisql generate ./queries/users.yaml
  lisql generate ./queries/users.cue --table users_archive
  lisql generate ./queries/users.yaml --db ./journal.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "table to use for every command")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to a SQLite journal to record statements in")

	return cmd
}

func runGenerate(ctx context.Context, opts *GenerateOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	doc, err := cmdspec.LoadFile(path)
	if err != nil {
		return loadFailure(out, err)
	}

	var j *journal.Journal
	if opts.Database != "" {
		j, err = journal.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()
	}

	result := GenerateResult{
		Document:   doc.Name,
		Statements: make([]GeneratedStatement, 0, len(doc.Commands)),
	}
	if j != nil {
		result.Session = j.Session()
	}

	for _, spec := range doc.Commands {
		gs := GeneratedStatement{Name: spec.Name}

		built, err := cmdspec.Build(spec)
		if err == nil && opts.Table != "" {
			built.Table(opts.Table)
		}
		if err == nil {
			if j != nil {
				var entry journal.Entry
				entry, err = j.Record(ctx, built)
				gs.Statement, gs.Seq = entry.Statement, entry.Seq
			} else {
				gs.Statement, err = built.Generate()
			}
		}
		if err != nil {
			gs.ErrorCode = harness.ErrorCode(err)
			gs.Error = err.Error()
			result.Failed++
		}

		out.VerboseLog("%s: %s", spec.Name, gs.Statement)
		result.Statements = append(result.Statements, gs)
	}

	if opts.Format == "json" {
		if err := out.Result(result, result.Failed, "E_GENERATE_FAILED", fmt.Sprintf("%d command(s) failed", result.Failed)); err != nil {
			return err
		}
	} else {
		for _, gs := range result.Statements {
			if gs.Error != "" {
				_ = out.Error(gs.ErrorCode, gs.Name+": "+gs.Error, nil)
				continue
			}
			fmt.Fprintln(out.Writer, gs.Statement)
		}
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d command(s) failed", result.Failed))
	}
	return nil
}

// loadFailure reports a document load error and maps it to an exit code.
func loadFailure(out *OutputFormatter, err error) error {
	code := harness.ErrorCode(err)
	if code == "" {
		code = cmdspec.ErrCodeGeneric
	}
	if out.Format == "json" {
		_ = out.Error(code, err.Error(), nil)
	}
	return WrapExitError(ExitCommandError, "failed to load document", err)
}
