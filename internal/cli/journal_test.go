package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalCommand_AfterGenerate(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "journal.db")
	doc := writeDoc(t, dir, "simple.yaml", simpleDoc)

	_, err := execute(t, "generate", doc, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "journal", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "| seq")
	assert.Contains(t, out, "SELECT * FROM users;")
	assert.Contains(t, out, "INSERT INTO users (name) VALUES ('ann');")
	assert.Contains(t, out, "_2 statements, 1 sessions_")
}

func TestJournalCommand_MethodFilterJSON(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "journal.db")
	doc := writeDoc(t, dir, "simple.yaml", simpleDoc)

	_, err := execute(t, "generate", doc, "--db", db)
	require.NoError(t, err)
	_, err = execute(t, "generate", doc, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "--format", "json", "journal", "--db", db, "--method", "insert")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   JournalResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Entries, 2)
	for _, e := range resp.Data.Entries {
		assert.Equal(t, "INSERT", e.Method)
	}
	assert.Less(t, resp.Data.Entries[0].Seq, resp.Data.Entries[1].Seq)
	assert.Len(t, resp.Data.Sessions, 2)
}

func TestJournalCommand_Empty(t *testing.T) {
	out, err := execute(t, "journal", "--db", filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No statements recorded.")
}

func TestJournalCommand_RequiresDB(t *testing.T) {
	_, err := execute(t, "journal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}
