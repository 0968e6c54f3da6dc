// Package harness checks command documents against their expectations.
//
// Each command of a cmdspec.Document is built and generated. A case
// passes when:
//   - expect is set and the statement matches it exactly
//   - expect_error is set and generation fails with that code
//   - neither is set and generation succeeds
//
// # Error Codes
//
// expect_error matches the most specific code found in the error chain:
// cmdspec load codes (E1xx) first, then predicate codes (EMPTY_GROUP,
// INVALID_OPERATOR, ...), then command codes (MISSING_TABLE,
// MISSING_PARAMETERS, ...).
//
// # Transcripts
//
// Transcript renders a Result as stable text: one block per case with its
// status and statement or error code, preceded by the document name and a
// hash of every generated statement. AssertGolden compares a transcript
// with testdata/golden/<name>.golden.
//
// # Usage
//
//	doc, err := cmdspec.LoadFile("testdata/users.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result := harness.Run(doc)
//	if !result.Passed() {
//	    fmt.Print(string(harness.Transcript(result)))
//	}
package harness
