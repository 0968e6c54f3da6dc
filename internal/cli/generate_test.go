package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleDoc = `name: simple
commands:
  - name: all
    method: select
    table: users
  - name: add
    method: insert
    table: users
    set:
      - {key: name, value: ann}
`

const brokenDoc = `name: broken
commands:
  - name: ok
    method: delete
    table: t
  - name: no-params
    method: update
    table: t
`

func TestGenerateCommand_Text(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "simple.yaml", simpleDoc)

	out, err := execute(t, "generate", path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users;\nINSERT INTO users (name) VALUES ('ann');\n", out)
}

func TestGenerateCommand_TableOverride(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "simple.yaml", simpleDoc)

	out, err := execute(t, "generate", path, "--table", "archive")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM archive;\nINSERT INTO archive (name) VALUES ('ann');\n", out)
}

func TestGenerateCommand_JSON(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "simple.yaml", simpleDoc)

	out, err := execute(t, "--format", "json", "generate", path)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   GenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "simple", resp.Data.Document)
	require.Len(t, resp.Data.Statements, 2)
	assert.Equal(t, "all", resp.Data.Statements[0].Name)
	assert.Equal(t, "SELECT * FROM users;", resp.Data.Statements[0].Statement)
	assert.Zero(t, resp.Data.Failed)
}

func TestGenerateCommand_FailureExitsOne(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "broken.yaml", brokenDoc)

	out, err := execute(t, "generate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "DELETE FROM t;")
	assert.Contains(t, out, "Error [MISSING_PARAMETERS]: no-params: command: UPDATE has no parameters")
}

func TestGenerateCommand_JSONFailure(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "broken.yaml", brokenDoc)

	out, err := execute(t, "--format", "json", "generate", path)
	require.Error(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   GenerateResult `json:"data"`
		Error  *CLIError      `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, "MISSING_PARAMETERS", resp.Data.Statements[1].ErrorCode)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_GENERATE_FAILED", resp.Error.Code)
}

func TestGenerateCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "generate", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load document")
}

func TestGenerateCommand_MissingArgs(t *testing.T) {
	cmd := NewGenerateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
