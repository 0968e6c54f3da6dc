package harness

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Transcript renders r as stable text for golden comparison.
//
//	document: users
//	hash: 3f5a...
//	--- adults [pass]
//	SELECT * FROM users ...;
//	--- missing-params [pass]
//	error: MISSING_PARAMETERS
func Transcript(r *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "document: %s\n", r.Document)
	fmt.Fprintf(&buf, "hash: %s\n", r.Hash)
	for _, c := range r.Cases {
		fmt.Fprintf(&buf, "--- %s [%s]\n", c.Name, c.Status)
		if c.Statement != "" {
			buf.WriteString(c.Statement)
			buf.WriteByte('\n')
		}
		if c.ErrorCode != "" {
			fmt.Fprintf(&buf, "error: %s\n", c.ErrorCode)
		}
		if c.Message != "" {
			for _, line := range strings.Split(c.Message, "\n") {
				fmt.Fprintf(&buf, "# %s\n", line)
			}
		}
	}
	return buf.Bytes()
}

// AssertGolden compares the transcript of result with the golden file
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Transcript(result))
}
