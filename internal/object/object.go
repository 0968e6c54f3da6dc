// Package object provides a base type for data objects that remember which
// properties were written, so that persistence can send only those fields.
//
// Field writes go through Object.Set, which stores the value in the Props
// bag and appends the key to the touched-set. Lifecycle methods build
// statements with the command package and hand them to an Executor; the
// default executor discards them.
//
//	type User struct{ *object.Object }
//
//	u := User{object.New("users")}
//	_ = u.Set("name", "ann")
//	_ = u.Set("name", "bob")
//	u.TrackedProps() // ["name"]
package object

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/lisql/internal/command"
	"github.com/roach88/lisql/internal/ident"
	"github.com/roach88/lisql/internal/ir"
	"github.com/roach88/lisql/internal/predicate"
)

// Column names managed by Object itself.
const (
	ColumnID        = "id"
	ColumnArchived  = "archived"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

var (
	// ErrNoID is returned by lifecycle operations that need an id.
	ErrNoID = errors.New("object: no id")

	// ErrUnknownProp is returned by UpdateProp for keys never set.
	ErrUnknownProp = errors.New("object: unknown property")

	// ErrNoKeys is returned by UpdateProp without keys.
	ErrNoKeys = errors.New("object: no keys given")

	// ErrReservedKey is returned by Set for columns Object manages.
	ErrReservedKey = errors.New("object: reserved key")
)

func isReserved(key string) bool {
	switch key {
	case ColumnID, ColumnArchived, ColumnCreatedAt, ColumnUpdatedAt:
		return true
	}
	return false
}

// Option configures an Object.
type Option func(*Object)

// WithExecutor sets the executor lifecycle statements are sent to.
func WithExecutor(exec Executor) Option {
	return func(o *Object) {
		if exec != nil {
			o.exec = exec
		}
	}
}

// WithIDGenerator sets the generator Create uses for new ids.
func WithIDGenerator(gen ident.Generator) Option {
	return func(o *Object) {
		if gen != nil {
			o.ids = gen
		}
	}
}

// WithClock sets the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Object) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Object) {
		if logger != nil {
			o.log = logger
		}
	}
}

// WithID presets the object's id.
func WithID(id string) Option {
	return func(o *Object) {
		o.id = id
	}
}

// Object is a change-tracked record of one table.
//
// An Object is owned by its creator and is not safe for concurrent use.
type Object struct {
	table     string
	id        string
	archived  *bool
	createdAt time.Time
	updatedAt time.Time

	props   *Props
	touched touchedSet

	exec Executor
	ids  ident.Generator
	now  func() time.Time
	log  *slog.Logger
}

// New creates an empty object for table.
func New(table string, opts ...Option) *Object {
	o := &Object{
		table: table,
		exec:  Discard{},
		ids:   ident.UUIDv7{},
		now:   time.Now,
		log:   slog.Default(),
	}
	o.props = WatchChecked(checkProp, func(key string, _ ir.Value) {
		o.touched.add(key)
	})
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Set converts value with ir.FromGo and writes it to the props bag,
// recording key as touched.
func (o *Object) Set(key string, value any) error {
	if isReserved(key) {
		return fmt.Errorf("%w: %s", ErrReservedKey, key)
	}
	v, err := ir.FromGo(value)
	if err != nil {
		return fmt.Errorf("object: set %s: %w", key, err)
	}
	return o.props.Set(key, v)
}

// checkProp guards every write to an object's props, including writes made
// through Props().
func checkProp(key string, value ir.Value) (ir.Value, error) {
	if isReserved(key) {
		return nil, fmt.Errorf("%w: %s", ErrReservedKey, key)
	}
	v, err := ir.FromGo(value)
	if err != nil {
		return nil, fmt.Errorf("object: set %s: %w", key, err)
	}
	if !ir.IsScalar(v) {
		return nil, fmt.Errorf("object: set %s: lists cannot be stored", key)
	}
	return v, nil
}

// Get returns a property value.
func (o *Object) Get(key string) (ir.Value, bool) {
	return o.props.Get(key)
}

// Props returns the property bag. Writes through it are checked like Set
// and tracked.
func (o *Object) Props() *Props {
	return o.props
}

// TrackedProps returns the touched keys in first-write order.
func (o *Object) TrackedProps() []string {
	return o.touched.list()
}

// Table returns the table name.
func (o *Object) Table() string { return o.table }

// ID returns the id, or "" before Create or Fetch.
func (o *Object) ID() string { return o.id }

// IsArchived reports the archived flag; false when unknown.
func (o *Object) IsArchived() bool {
	return o.archived != nil && *o.archived
}

// CreatedAt returns the creation time; zero when unknown.
func (o *Object) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last update time; zero when unknown.
func (o *Object) UpdatedAt() time.Time { return o.updatedAt }

// Fetch issues a SELECT for the object's row. An empty id keeps the
// current one. When keys are given they replace the touched-set.
func (o *Object) Fetch(ctx context.Context, id string, keys ...string) error {
	if id == "" {
		id = o.id
	}
	if id == "" {
		return ErrNoID
	}
	cmd := command.Select(o.table).Where(ColumnID, predicate.OpEQ, id)
	if err := o.run(ctx, "fetch", cmd); err != nil {
		return err
	}
	o.id = id
	if len(keys) > 0 {
		o.touched.reset(keys)
	}
	return nil
}

// Create issues an INSERT of the managed columns followed by every
// property in first-write order. A missing id is generated.
func (o *Object) Create(ctx context.Context) error {
	id := o.id
	if id == "" {
		id = o.ids.Generate()
	}
	now := o.now().UTC()
	archived := o.IsArchived()

	cmd := command.Insert(o.table).
		Set(ColumnID, id).
		Set(ColumnArchived, archived).
		Set(ColumnCreatedAt, now).
		Set(ColumnUpdatedAt, now)
	for _, key := range o.props.Keys() {
		v, _ := o.props.Get(key)
		cmd.Set(key, v)
	}
	if err := o.run(ctx, "create", cmd); err != nil {
		return err
	}

	o.id = id
	o.archived = &archived
	o.createdAt = now
	o.updatedAt = now
	return nil
}

// Update issues an UPDATE of every touched property plus updated_at.
func (o *Object) Update(ctx context.Context) error {
	var keys []string
	for _, key := range o.touched.list() {
		if o.props.Has(key) {
			keys = append(keys, key)
		}
	}
	return o.update(ctx, "update", keys)
}

// UpdateProp issues an UPDATE of the given properties plus updated_at.
func (o *Object) UpdateProp(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return ErrNoKeys
	}
	for _, key := range keys {
		if !o.props.Has(key) {
			return fmt.Errorf("%w: %s", ErrUnknownProp, key)
		}
	}
	return o.update(ctx, "update_prop", keys)
}

func (o *Object) update(ctx context.Context, op string, keys []string) error {
	if o.id == "" {
		return ErrNoID
	}
	now := o.now().UTC()
	cmd := command.Update(o.table)
	for _, key := range keys {
		v, _ := o.props.Get(key)
		cmd.Set(key, v)
	}
	cmd.Set(ColumnUpdatedAt, now).Where(ColumnID, predicate.OpEQ, o.id)
	if err := o.run(ctx, op, cmd); err != nil {
		return err
	}
	o.updatedAt = now
	return nil
}

// Archive sets the archived flag.
func (o *Object) Archive(ctx context.Context) error {
	return o.setArchived(ctx, "archive", true)
}

// Restore clears the archived flag.
func (o *Object) Restore(ctx context.Context) error {
	return o.setArchived(ctx, "restore", false)
}

func (o *Object) setArchived(ctx context.Context, op string, archived bool) error {
	if o.id == "" {
		return ErrNoID
	}
	now := o.now().UTC()
	cmd := command.Update(o.table).
		Set(ColumnArchived, archived).
		Set(ColumnUpdatedAt, now).
		Where(ColumnID, predicate.OpEQ, o.id)
	if err := o.run(ctx, op, cmd); err != nil {
		return err
	}
	o.archived = &archived
	o.updatedAt = now
	return nil
}

// Destroy issues a DELETE of the object's row.
func (o *Object) Destroy(ctx context.Context) error {
	if o.id == "" {
		return ErrNoID
	}
	cmd := command.Delete(o.table).Where(ColumnID, predicate.OpEQ, o.id)
	return o.run(ctx, "destroy", cmd)
}

// run generates cmd and sends it to the executor.
func (o *Object) run(ctx context.Context, op string, cmd *command.Command) error {
	stmt, err := cmd.Generate()
	if err != nil {
		return fmt.Errorf("object: %s %s: %w", op, o.table, err)
	}
	if err := o.exec.Exec(ctx, stmt); err != nil {
		o.log.ErrorContext(ctx, "statement failed",
			"op", op,
			"table", o.table,
			"id", o.id,
			"error", err,
		)
		return fmt.Errorf("object: %s %s: %w", op, o.table, err)
	}
	o.log.DebugContext(ctx, "statement executed",
		"op", op,
		"table", o.table,
		"method", cmd.Method(),
	)
	return nil
}
