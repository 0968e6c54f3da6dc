package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lisql/internal/cmdspec"
	"github.com/roach88/lisql/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // document filter (glob pattern on the file name)
}

// DocumentResult holds the result of one document.
type DocumentResult struct {
	Name   string               `json:"name"`
	Path   string               `json:"path"`
	Pass   bool                 `json:"pass"`
	Hash   string               `json:"hash,omitempty"`
	Cases  []harness.CaseResult `json:"cases,omitempty"`
	Errors []string             `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Documents []DocumentResult `json:"documents"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <file|dir>",
		Short: "Check command documents against their expectations",
		Long: `Run command documents through the harness.

Each command's statement is compared with its "expect" entry, or its error
code with "expect_error". When a golden transcript exists next to the
document (golden/<name>.golden) it must match too.

Exit codes:
  0 - All documents passed
  1 - One or more documents failed
  2 - Command error (invalid paths, etc.)

Examples:
  lisql test ./queries
  lisql test ./queries/users.yaml
  lisql test ./queries --filter "user*"
  lisql test ./queries --update
  lisql test ./queries --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter documents by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, path string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	files, err := documentFiles(path, opts.Filter)
	if err != nil {
		return err
	}

	result := TestResult{
		Documents: make([]DocumentResult, 0, len(files)),
		Total:     len(files),
	}
	if len(files) == 0 {
		if opts.Format == "json" {
			return out.Success(result)
		}
		fmt.Fprintln(out.Writer, "No documents found.")
		return nil
	}

	for _, file := range files {
		doc := runDocument(file, opts, out)
		result.Documents = append(result.Documents, doc)
		if doc.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	summary := fmt.Sprintf("%d document(s) failed", result.Failed)
	if opts.Format == "json" {
		if err := out.Result(result, result.Failed, "E_TEST_FAILED", summary); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out.Writer)
		fmt.Fprintf(out.Writer, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
		if result.Failed == 0 {
			out.Pass("All documents passed")
		}
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, summary)
	}
	return nil
}

// documentFiles resolves path to the document files to run.
func documentFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("path not found: %s", path))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to access path", err)
	}

	var files []string
	if info.IsDir() {
		files, err = cmdspec.FindFiles(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to find documents", err)
		}
	} else {
		files = []string{path}
	}

	if filter == "" {
		return files, nil
	}
	var kept []string
	for _, f := range files {
		base := filepath.Base(f)
		matched, err := filepath.Match(filter, strings.TrimSuffix(base, filepath.Ext(base)))
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid filter pattern", err)
		}
		if matched {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// runDocument runs one document and prints its outcome in text mode.
func runDocument(file string, opts *TestOptions, out *OutputFormatter) DocumentResult {
	text := opts.Format != "json"
	dr := DocumentResult{Name: filepath.Base(file), Path: file}

	result, err := harness.RunFile(file)
	if err != nil {
		dr.Errors = []string{fmt.Sprintf("failed to load document: %v", err)}
		if text {
			out.Fail("%s", dr.Name)
			out.Detail("Load error: " + err.Error())
		}
		return dr
	}

	dr.Name, dr.Hash, dr.Cases = result.Document, result.Hash, result.Cases
	for _, c := range result.Cases {
		if c.Status != harness.StatusPass {
			dr.Errors = append(dr.Errors, fmt.Sprintf("%s: %s", c.Name, c.Message))
		}
	}

	transcript := harness.Transcript(result)
	goldenPath := goldenFilePath(file)
	switch {
	case opts.Update:
		if err := writeGolden(goldenPath, transcript); err != nil {
			dr.Errors = append(dr.Errors, err.Error())
		}
	default:
		want, err := os.ReadFile(goldenPath)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			dr.Errors = append(dr.Errors, fmt.Sprintf("failed to read golden file: %v", err))
		case !bytes.Equal(want, transcript):
			dr.Errors = append(dr.Errors, "transcript does not match golden file (run with --update to regenerate)")
		}
	}

	dr.Pass = len(dr.Errors) == 0
	if text {
		printDocument(out, dr, opts.Update)
	}
	return dr
}

func printDocument(out *OutputFormatter, dr DocumentResult, updated bool) {
	if dr.Pass {
		suffix := ""
		if updated {
			suffix = " (golden updated)"
		}
		out.Pass("%s (%d cases)%s", dr.Name, len(dr.Cases), suffix)
	} else {
		out.Fail("%s", dr.Name)
		for _, e := range dr.Errors {
			out.Detail(e)
		}
	}
	if out.Verbose {
		for _, c := range dr.Cases {
			out.VerboseLog("  %s [%s] %s", c.Name, c.Status, c.Statement)
		}
	}
}

// goldenFilePath returns the golden transcript path for a document.
func goldenFilePath(file string) string {
	dir := filepath.Dir(file)
	base := filepath.Base(file)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}
