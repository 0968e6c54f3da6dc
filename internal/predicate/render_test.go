package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lisql/internal/ir"
	"github.com/roach88/lisql/internal/literal"
)

func TestRender_Comparison(t *testing.T) {
	testCases := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "integer",
			node: Comparison{Key: "age", Operator: OpGTE, Value: ir.Int(21)},
			want: "age>=21",
		},
		{
			name: "text",
			node: Comparison{Key: "id", Operator: OpEQ, Value: ir.Text("abc")},
			want: "id='abc'",
		},
		{
			name: "text with quotes",
			node: Comparison{Key: "name", Operator: OpNEQ, Value: ir.Text(`o'neil "jr"`)},
			want: `name!='o\'neil \"jr\"'`,
		},
		{
			name: "null",
			node: Comparison{Key: "deleted_at", Operator: OpEQ, Value: ir.Null{}},
			want: "deleted_at=NULL",
		},
		{
			name: "nil value",
			node: Comparison{Key: "deleted_at", Operator: OpEQ},
			want: "deleted_at=NULL",
		},
		{
			name: "bool",
			node: Comparison{Key: "archived", Operator: OpEQ, Value: ir.Bool(false)},
			want: "archived=false",
		},
		{
			name: "float",
			node: Comparison{Key: "score", Operator: OpLT, Value: ir.Float(1.5)},
			want: "score<1.5",
		},
		{
			name: "blob",
			node: Comparison{Key: "hash", Operator: OpEQ, Value: ir.Blob{0xde, 0xad}},
			want: "hash='dead'",
		},
		{
			name: "pointer",
			node: &Comparison{Key: "n", Operator: OpGT, Value: ir.Int(-3)},
			want: "n>-3",
		},
		{
			name: "in with scalar",
			node: Comparison{Key: "k", Operator: OpIn, Value: ir.Text("x")},
			want: "k IN ('x')",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Render(tc.node)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRender_ListIgnoresOperator(t *testing.T) {
	for _, op := range Operators {
		t.Run(string(op), func(t *testing.T) {
			got, err := Render(Comparison{Key: "k", Operator: op, Value: ir.List{ir.Text("x"), ir.Text("y")}})
			require.NoError(t, err)
			assert.Equal(t, "k IN ('x', 'y')", got)
		})
	}
}

func TestRender_ListMixedScalars(t *testing.T) {
	got, err := Render(Comparison{
		Key:      "v",
		Operator: OpIn,
		Value:    ir.List{ir.Int(1), ir.Null{}, ir.Bool(true), ir.Text("it's")},
	})
	require.NoError(t, err)
	assert.Equal(t, `v IN (1, NULL, true, 'it\'s')`, got)
}

func TestRender_SubQuery(t *testing.T) {
	got, err := Render(NewSubQuery("owner", "users", "user_id", ir.Text("u1")))
	require.NoError(t, err)
	assert.Equal(t, "owner IN (SELECT user_id FROM users WHERE user_id='u1')", got)

	sq := NewSubQuery("owner", "users", "user_id", ir.Int(7))
	got, err = Render(&sq)
	require.NoError(t, err)
	assert.Equal(t, "owner IN (SELECT user_id FROM users WHERE user_id=7)", got)
}

func TestGroup_AndTwoLeaves(t *testing.T) {
	got, err := And().Where("a", OpEQ, 1).Where("b", OpEQ, 2).Generate()
	require.NoError(t, err)
	assert.Equal(t, "(a=1 AND b=2)", got)
}

func TestGroup_OrTwoLeaves(t *testing.T) {
	got, err := Or().Where("a", OpEQ, 1).Where("b", OpEQ, 2).Generate()
	require.NoError(t, err)
	assert.Equal(t, "(a=1 OR b=2)", got)
}

func TestGroup_SingleChild(t *testing.T) {
	got, err := And().Where("id", OpEQ, "abc").Generate()
	require.NoError(t, err)
	assert.Equal(t, "(id='abc')", got)
}

func TestGroup_WhereSliceBecomesList(t *testing.T) {
	got, err := And().Where("k", OpEQ, []string{"x", "y"}).Generate()
	require.NoError(t, err)
	assert.Equal(t, "(k IN ('x', 'y'))", got)
}

func TestGroup_Nested(t *testing.T) {
	inner := Or().
		Where("name", OpEQ, "ann").
		WhereKeyIsValueOfQuery("id", "owners", "owner_id", 7)

	got, err := And().
		Where("age", OpGTE, 21).
		WhereThese(inner).
		Generate()
	require.NoError(t, err)
	assert.Equal(t, "(age>=21 AND (name='ann' OR id IN (SELECT owner_id FROM owners WHERE owner_id=7)))", got)
}

func TestGroup_DeepNesting(t *testing.T) {
	g := And().Where("a", OpEQ, 1)
	for i := 0; i < 3; i++ {
		g = Or().WhereThese(g).Where("z", OpEQ, i)
	}

	got, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "((((a=1) OR z=0) OR z=1) OR z=2)", got)
}

func TestGroup_MutatorsReturnSameGroup(t *testing.T) {
	g := And()
	assert.Same(t, g, g.Where("a", OpEQ, 1))
	assert.Same(t, g, g.WhereThese(Or().Where("b", OpEQ, 2)))
	assert.Same(t, g, g.WhereKeyIsValueOfQuery("c", "t", "k", "v"))
	assert.Equal(t, 3, g.Len())
}

func TestGroup_InsertionOrderPreserved(t *testing.T) {
	g := And().
		WhereKeyIsValueOfQuery("s", "t", "k", 1).
		Where("b", OpEQ, 2).
		WhereThese(Or().Where("c", OpEQ, 3)).
		Where("a", OpEQ, 1)

	got, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "(s IN (SELECT k FROM t WHERE k=1) AND b=2 AND (c=3) AND a=1)", got)
}

func TestGroup_ZeroValueIsAnd(t *testing.T) {
	var g Group
	g.Where("a", OpEQ, 1).Where("b", OpEQ, 2)

	assert.Equal(t, CondAnd, g.Condition())
	got, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "(a=1 AND b=2)", got)
}

func TestGroup_ChildrenIsCopy(t *testing.T) {
	g := And().Where("a", OpEQ, 1)
	children := g.Children()
	children[0] = Comparison{Key: "x", Operator: OpEQ, Value: ir.Int(9)}

	got, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "(a=1)", got)
}

func TestRender_Errors(t *testing.T) {
	testCases := []struct {
		name string
		node Node
		code ErrorCode
	}{
		{
			name: "empty and group",
			node: And(),
			code: ErrCodeEmptyGroup,
		},
		{
			name: "empty or group nested",
			node: And().Where("a", OpEQ, 1).WhereThese(Or()),
			code: ErrCodeEmptyGroup,
		},
		{
			name: "unknown operator",
			node: Comparison{Key: "a", Operator: "LIKE", Value: ir.Text("x")},
			code: ErrCodeInvalidOperator,
		},
		{
			name: "unknown operator through builder",
			node: And().Where("a", "<>", 1),
			code: ErrCodeInvalidOperator,
		},
		{
			name: "unconvertible value",
			node: And().Where("a", OpEQ, struct{}{}),
			code: ErrCodeInvalidValue,
		},
		{
			name: "nested list",
			node: And().Where("a", OpEQ, [][]int{{1}}),
			code: ErrCodeInvalidValue,
		},
		{
			name: "list sub-query value",
			node: And().WhereKeyIsValueOfQuery("a", "t", "k", []int{1, 2}),
			code: ErrCodeInvalidValue,
		},
		{
			name: "empty list",
			node: Comparison{Key: "a", Operator: OpIn, Value: ir.List{}},
			code: ErrCodeEmptyList,
		},
		{
			name: "nil nested group",
			node: And().WhereThese(nil),
			code: ErrCodeNilNode,
		},
		{
			name: "nil node",
			node: nil,
			code: ErrCodeNilNode,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Render(tc.node)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.Equal(t, tc.code, CodeOf(err))
		})
	}
}

func TestRender_ErrorIsStable(t *testing.T) {
	g := And().Where("a", OpEQ, 1).WhereThese(Or())

	_, err1 := g.Generate()
	_, err2 := g.Generate()
	require.Error(t, err1)
	assert.Equal(t, err1.Error(), err2.Error())
	assert.True(t, IsEmptyGroup(err1))
	assert.Equal(t, 2, g.Len(), "failed render must not mutate the group")
}

func TestGroup_FirstBuildErrorWins(t *testing.T) {
	g := And().Where("a", "bogus", 1).Where("b", OpEQ, struct{}{}).Where("c", OpEQ, make(chan int))

	require.Error(t, g.Err())
	assert.Equal(t, ErrCodeInvalidValue, CodeOf(g.Err()))
	assert.Equal(t, "b", g.Err().(*Error).Key)
}

func TestRender_InvalidOperatorHelper(t *testing.T) {
	_, err := Render(Comparison{Key: "a", Operator: "~", Value: ir.Int(1)})
	assert.True(t, IsInvalidOperator(err))
	assert.False(t, IsEmptyGroup(err))
	assert.Contains(t, err.Error(), "INVALID_OPERATOR")
	assert.Contains(t, err.Error(), "key=a")
}

func TestRender_InvalidListElementWrapsEncodingError(t *testing.T) {
	// A hand-built nested list bypasses FromGo's flatness check.
	_, err := Render(Comparison{Key: "a", Operator: OpIn, Value: ir.List{ir.List{ir.Int(1)}}})
	require.Error(t, err)

	var encErr *literal.EncodingError
	assert.ErrorAs(t, err, &encErr)
	assert.Equal(t, ErrCodeInvalidValue, CodeOf(err))
}

func TestOperator_Valid(t *testing.T) {
	for _, op := range Operators {
		assert.True(t, op.Valid(), op)
	}
	assert.False(t, Operator("==").Valid())
	assert.False(t, Operator("IN").Valid())
	assert.False(t, Operator("").Valid())
}

func TestGroup_SelfNestingIsRejected(t *testing.T) {
	g := And().Where("a", OpEQ, 1)
	g.WhereThese(g)

	assert.Equal(t, 1, g.Len())
	_, err := g.Generate()
	require.Error(t, err)
	assert.Equal(t, ErrCodeCycle, CodeOf(err))
}

func TestGroup_IndirectNestingIsRejected(t *testing.T) {
	outer := And().Where("a", OpEQ, 1)
	inner := Or().Where("b", OpEQ, 2)
	leaf := And().Where("c", OpEQ, 3)
	outer.WhereThese(inner)
	inner.WhereThese(leaf)

	leaf.WhereThese(outer)

	assert.Equal(t, 1, leaf.Len())
	assert.Equal(t, ErrCodeCycle, CodeOf(leaf.Err()))

	got, err := outer.Generate()
	require.Error(t, err)
	assert.Equal(t, ErrCodeCycle, CodeOf(err))
	assert.Empty(t, got)

	stats := Collect(inner)
	assert.Equal(t, 2, stats.Groups)
	assert.NotPanics(t, func() { Validate(outer) })
}

func TestGroup_SameGroupTwiceIsNotACycle(t *testing.T) {
	shared := Or().Where("x", OpEQ, 1).Where("y", OpEQ, 2)
	g := And().WhereThese(shared).WhereThese(shared)

	got, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "((x=1 OR y=2) AND (x=1 OR y=2))", got)
}
