package object

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lisql/internal/ident"
	"github.com/roach88/lisql/internal/ir"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const fixedStamp = "2024-03-01T12:00:00Z"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestObject(t *testing.T, opts ...Option) (*Object, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	base := []Option{
		WithExecutor(rec),
		WithIDGenerator(ident.NewFixed("obj-1", "obj-2")),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(discardLogger()),
	}
	return New("users", append(base, opts...)...), rec
}

type user struct {
	*Object
}

func (u user) SetName(name string) error {
	return u.Set("name", name)
}

func TestTrackedProps_SameFieldThreeTimes(t *testing.T) {
	o, _ := newTestObject(t)
	require.NoError(t, o.Set("name", "a"))
	require.NoError(t, o.Set("name", "b"))
	require.NoError(t, o.Set("name", "c"))

	assert.Equal(t, []string{"name"}, o.TrackedProps())
	v, ok := o.Get("name")
	require.True(t, ok)
	assert.Equal(t, ir.Text("c"), v)
}

func TestTrackedProps_FirstWriteOrder(t *testing.T) {
	o, _ := newTestObject(t)
	require.NoError(t, o.Set("b", 1))
	require.NoError(t, o.Set("a", 2))
	require.NoError(t, o.Set("b", 3))

	assert.Equal(t, []string{"b", "a"}, o.TrackedProps())
}

func TestTrackedProps_EmptyOnCreation(t *testing.T) {
	o, _ := newTestObject(t)
	assert.Empty(t, o.TrackedProps())
	assert.Equal(t, "users", o.Table())
	assert.Empty(t, o.ID())
	assert.False(t, o.IsArchived())
	assert.True(t, o.CreatedAt().IsZero())
	assert.True(t, o.UpdatedAt().IsZero())
}

func TestTrackedProps_WritesThroughPropsAreTracked(t *testing.T) {
	o, _ := newTestObject(t)
	require.NoError(t, o.Props().Set("direct", ir.Int(1)))
	assert.Equal(t, []string{"direct"}, o.TrackedProps())
}

func TestTrackedProps_ReturnsCopy(t *testing.T) {
	o, _ := newTestObject(t)
	require.NoError(t, o.Set("a", 1))
	keys := o.TrackedProps()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a"}, o.TrackedProps())
}

func TestEmbedding(t *testing.T) {
	u := user{New("users", WithLogger(discardLogger()))}
	require.NoError(t, u.SetName("ann"))
	require.NoError(t, u.SetName("bob"))
	assert.Equal(t, []string{"name"}, u.TrackedProps())
}

func TestSet_Errors(t *testing.T) {
	o, _ := newTestObject(t)

	err := o.Set("id", "x")
	assert.True(t, errors.Is(err, ErrReservedKey))

	assert.Error(t, o.Set("tags", []string{"a"}))
	assert.Error(t, o.Set("bad", struct{}{}))
	assert.Empty(t, o.TrackedProps(), "failed writes must not be tracked")
}

func TestProps_WritesAreCheckedLikeSet(t *testing.T) {
	o, rec := newTestObject(t)

	assert.ErrorIs(t, o.Props().Set(ColumnID, ir.Text("evil")), ErrReservedKey)
	assert.Error(t, o.Props().Set("tags", ir.List{ir.Text("a")}))
	assert.Empty(t, o.TrackedProps())

	require.NoError(t, o.Create(context.Background()))
	assert.Equal(t, "obj-1", o.ID())
	assert.Contains(t, rec.Last(), "VALUES ('obj-1',")
}

func TestSet_PointerVariantIsDereferenced(t *testing.T) {
	o, rec := newTestObject(t)
	name := ir.Text("x")
	require.NoError(t, o.Set("name", &name))
	require.NoError(t, o.Props().Set("nick", &name))

	v, ok := o.Get("name")
	require.True(t, ok)
	assert.Equal(t, ir.Text("x"), v)

	require.NoError(t, o.Create(context.Background()))
	assert.Equal(t, "INSERT INTO users (id, archived, created_at, updated_at, name, nick) VALUES ('obj-1', false, '"+fixedStamp+"', '"+fixedStamp+"', 'x', 'x');", rec.Last())
}

func TestFetch_ReplacesTouchedSet(t *testing.T) {
	o, rec := newTestObject(t)
	require.NoError(t, o.Set("a", 1))
	require.NoError(t, o.Set("b", 2))

	require.NoError(t, o.Fetch(context.Background(), "u1", "c", "a", "c"))

	assert.Equal(t, []string{"c", "a"}, o.TrackedProps())
	assert.Equal(t, "u1", o.ID())
	assert.Equal(t, "SELECT * FROM users WHERE (id='u1');", rec.Last())
}

func TestFetch_WithoutKeysKeepsTouchedSet(t *testing.T) {
	o, _ := newTestObject(t, WithID("u1"))
	require.NoError(t, o.Set("a", 1))

	require.NoError(t, o.Fetch(context.Background(), ""))
	assert.Equal(t, []string{"a"}, o.TrackedProps())
	assert.Equal(t, "u1", o.ID())
}

func TestFetch_NoID(t *testing.T) {
	o, rec := newTestObject(t)
	assert.ErrorIs(t, o.Fetch(context.Background(), ""), ErrNoID)
	assert.Empty(t, rec.Statements())
}

func TestCreate(t *testing.T) {
	o, rec := newTestObject(t)
	require.NoError(t, o.Set("name", "O'Brien"))
	require.NoError(t, o.Set("age", 30))

	require.NoError(t, o.Create(context.Background()))

	assert.Equal(t, "obj-1", o.ID())
	assert.False(t, o.IsArchived())
	assert.Equal(t, fixedNow, o.CreatedAt())
	assert.Equal(t, fixedNow, o.UpdatedAt())
	assert.Equal(t,
		"INSERT INTO users (id, archived, created_at, updated_at, name, age) VALUES ('obj-1', false, '"+fixedStamp+"', '"+fixedStamp+"', 'O\\'Brien', 30);",
		rec.Last())
}

func TestCreate_KeepsPresetID(t *testing.T) {
	o, rec := newTestObject(t, WithID("given"))
	require.NoError(t, o.Set("x", 1))
	require.NoError(t, o.Create(context.Background()))

	assert.Equal(t, "given", o.ID())
	assert.Contains(t, rec.Last(), "VALUES ('given',")
}

func TestUpdate_TouchedKeysOnly(t *testing.T) {
	o, rec := newTestObject(t, WithID("u1"))
	require.NoError(t, o.Set("b", 2))
	require.NoError(t, o.Set("a", "x"))

	require.NoError(t, o.Update(context.Background()))
	assert.Equal(t, "UPDATE users SET b=2, a='x', updated_at='"+fixedStamp+"' WHERE (id='u1');", rec.Last())
	assert.Equal(t, fixedNow, o.UpdatedAt())
}

func TestUpdate_AfterFetchUsesAuthoritativeKeys(t *testing.T) {
	o, rec := newTestObject(t)
	require.NoError(t, o.Set("a", 1))
	require.NoError(t, o.Set("b", 2))
	require.NoError(t, o.Fetch(context.Background(), "u1", "b", "missing"))

	require.NoError(t, o.Update(context.Background()))
	assert.Equal(t, "UPDATE users SET b=2, updated_at='"+fixedStamp+"' WHERE (id='u1');", rec.Last())
}

func TestUpdateProp(t *testing.T) {
	o, rec := newTestObject(t, WithID("u1"))
	require.NoError(t, o.Set("a", 1))
	require.NoError(t, o.Set("b", 2))

	require.NoError(t, o.UpdateProp(context.Background(), "b"))
	assert.Equal(t, "UPDATE users SET b=2, updated_at='"+fixedStamp+"' WHERE (id='u1');", rec.Last())

	assert.ErrorIs(t, o.UpdateProp(context.Background(), "nope"), ErrUnknownProp)
	assert.ErrorIs(t, o.UpdateProp(context.Background()), ErrNoKeys)
}

func TestArchiveRestore(t *testing.T) {
	o, rec := newTestObject(t, WithID("u1"))

	require.NoError(t, o.Archive(context.Background()))
	assert.True(t, o.IsArchived())
	assert.Equal(t, "UPDATE users SET archived=true, updated_at='"+fixedStamp+"' WHERE (id='u1');", rec.Last())

	require.NoError(t, o.Restore(context.Background()))
	assert.False(t, o.IsArchived())
	assert.Equal(t, "UPDATE users SET archived=false, updated_at='"+fixedStamp+"' WHERE (id='u1');", rec.Last())
}

func TestDestroy(t *testing.T) {
	o, rec := newTestObject(t, WithID("u1"))
	require.NoError(t, o.Destroy(context.Background()))
	assert.Equal(t, "DELETE FROM users WHERE (id='u1');", rec.Last())
}

func TestLifecycle_RequiresID(t *testing.T) {
	o, rec := newTestObject(t)
	require.NoError(t, o.Set("a", 1))
	ctx := context.Background()

	testCases := []struct {
		name string
		op   func() error
	}{
		{"update", func() error { return o.Update(ctx) }},
		{"update prop", func() error { return o.UpdateProp(ctx, "a") }},
		{"archive", func() error { return o.Archive(ctx) }},
		{"restore", func() error { return o.Restore(ctx) }},
		{"destroy", func() error { return o.Destroy(ctx) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.op(), ErrNoID)
		})
	}
	assert.Empty(t, rec.Statements())
}

func TestLifecycle_FailedExecutorLeavesState(t *testing.T) {
	boom := errors.New("boom")
	o := New("users",
		WithID("u1"),
		WithExecutor(ExecutorFunc(func(context.Context, string) error { return boom })),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(discardLogger()),
	)
	require.NoError(t, o.Set("a", 1))
	ctx := context.Background()

	assert.ErrorIs(t, o.Archive(ctx), boom)
	assert.False(t, o.IsArchived())

	assert.ErrorIs(t, o.Update(ctx), boom)
	assert.True(t, o.UpdatedAt().IsZero())

	assert.ErrorIs(t, o.Fetch(ctx, "u2", "z"), boom)
	assert.Equal(t, "u1", o.ID())
	assert.Equal(t, []string{"a"}, o.TrackedProps())

	assert.ErrorIs(t, o.Create(ctx), boom)
	assert.True(t, o.CreatedAt().IsZero())
}

func TestDefaultExecutorDiscards(t *testing.T) {
	o := New("users", WithID("u1"), WithLogger(discardLogger()))
	require.NoError(t, o.Set("a", 1))
	assert.NoError(t, o.Update(context.Background()))
	assert.NoError(t, o.Destroy(context.Background()))
}

func TestCreate_UUIDv7ByDefault(t *testing.T) {
	o := New("users", WithLogger(discardLogger()))
	require.NoError(t, o.Set("a", 1))
	require.NoError(t, o.Create(context.Background()))
	assert.Len(t, o.ID(), 36)
}
