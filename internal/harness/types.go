package harness

// Status is the outcome of one case.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// CaseResult is the outcome of one command.
type CaseResult struct {
	// Name is the command's name from the document.
	Name string `json:"name"`

	// Method is the command's method as written in the document.
	Method string `json:"method"`

	// Status is pass or fail.
	Status Status `json:"status"`

	// Statement is the generated statement, empty if generation failed.
	Statement string `json:"statement,omitempty"`

	// ErrorCode is the code of the generation error, if any.
	ErrorCode string `json:"error_code,omitempty"`

	// Error is the full generation error message, if any.
	Error string `json:"error,omitempty"`

	// Message explains a failure.
	Message string `json:"message,omitempty"`
}

// Result is the outcome of running one document.
type Result struct {
	// Document is the document name.
	Document string `json:"document"`

	// Path is the file the document came from.
	Path string `json:"path,omitempty"`

	// Cases holds one entry per command, in document order.
	Cases []CaseResult `json:"cases"`

	// Hash fingerprints every successfully generated statement in order.
	Hash string `json:"hash"`
}

// Passed reports whether every case passed.
func (r *Result) Passed() bool {
	for _, c := range r.Cases {
		if c.Status != StatusPass {
			return false
		}
	}
	return true
}

// Counts returns the number of passing and failing cases.
func (r *Result) Counts() (passed, failed int) {
	for _, c := range r.Cases {
		if c.Status == StatusPass {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Statements returns the successfully generated statements in order.
func (r *Result) Statements() []string {
	out := []string{}
	for _, c := range r.Cases {
		if c.Statement != "" {
			out = append(out, c.Statement)
		}
	}
	return out
}
