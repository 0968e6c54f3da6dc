package command

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lisql/internal/predicate"
)

// TestGolden_Statements pins the exact text of one statement per shape.
// Regenerate with: go test ./internal/command -run TestGolden -update
func TestGolden_Statements(t *testing.T) {
	adults := predicate.And().
		Where("age", predicate.OpGTE, 21).
		WhereThese(predicate.Or().
			Where("name", predicate.OpEQ, "ann").
			WhereKeyIsValueOfQuery("id", "owners", "owner_id", 7))

	commands := []*Command{
		Select("users").WhereThese(adults).Sort("name", Asc).Limit(5),
		Count("users").Where("archived", predicate.OpEQ, false),
		Insert("users").Set("id", "u1").Set("name", "O'Brien").Set("age", 30),
		Update("users").Set("name", `say "hi"`).Set("age", 31).Where("id", predicate.OpEQ, "u1"),
		Delete("users").Where("id", predicate.OpIn, []string{"u1", "u2"}),
	}

	lines := make([]string, len(commands))
	for i, cmd := range commands {
		sql, err := cmd.Generate()
		require.NoError(t, err)
		lines[i] = sql
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "statements", []byte(strings.Join(lines, "\n")+"\n"))
}
