package cmdspec

// Document is a named list of command specs loaded from one file.
type Document struct {
	// Name identifies the document. Defaults to the file's base name.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Description explains what the document covers.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Commands are built and checked in order.
	Commands []Spec `yaml:"commands" json:"commands"`

	// Path is the file the document was loaded from.
	Path string `yaml:"-" json:"-"`
}

// Spec declares one command.
type Spec struct {
	// Name identifies the command in reports. Defaults to "command[i]".
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Method is one of select, insert, update, delete, count (any case).
	Method string `yaml:"method" json:"method"`

	// Table is optional; a missing table is reported at generation.
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	// Where is the predicate. A bare leaf is wrapped in an AND group.
	Where *Where `yaml:"where,omitempty" json:"where,omitempty"`

	// Sort lists orderings in the order they apply.
	Sort []SortSpec `yaml:"sort,omitempty" json:"sort,omitempty"`

	// Limit is the row limit; absent means no LIMIT clause.
	Limit *int `yaml:"limit,omitempty" json:"limit,omitempty"`

	// Set lists parameters in insertion order.
	Set []Assignment `yaml:"set,omitempty" json:"set,omitempty"`

	// Expect is the exact statement generation must produce.
	Expect string `yaml:"expect,omitempty" json:"expect,omitempty"`

	// ExpectError is the error code generation must fail with,
	// e.g. MISSING_TABLE or EMPTY_GROUP.
	ExpectError string `yaml:"expect_error,omitempty" json:"expect_error,omitempty"`
}

// Where is either a group (exactly one of And, Or) or a leaf.
//
// Leaf forms:
//
//	{key: age, op: ">=", value: 21}
//	{key: id, in: {table: owners, key: owner_id, value: 7}}
type Where struct {
	And []Where `yaml:"and,omitempty" json:"and,omitempty"`
	Or  []Where `yaml:"or,omitempty" json:"or,omitempty"`

	Key   string        `yaml:"key,omitempty" json:"key,omitempty"`
	Op    string        `yaml:"op,omitempty" json:"op,omitempty"`
	Value any           `yaml:"value,omitempty" json:"value,omitempty"`
	In    *SubQuerySpec `yaml:"in,omitempty" json:"in,omitempty"`
}

// IsGroup reports whether w declares an AND or OR group.
func (w Where) IsGroup() bool {
	return w.And != nil || w.Or != nil
}

// SubQuerySpec is the foreign lookup of a sub-query leaf.
type SubQuerySpec struct {
	Table string `yaml:"table" json:"table"`
	Key   string `yaml:"key" json:"key"`
	Value any    `yaml:"value" json:"value"`
}

// SortSpec is one ordering. Dir accepts "<", ">", "asc" or "desc".
type SortSpec struct {
	Key string `yaml:"key" json:"key"`
	Dir string `yaml:"dir" json:"dir"`
}

// Assignment is one parameter. Value may be a scalar or {blob: <hex>}.
type Assignment struct {
	Key   string `yaml:"key" json:"key"`
	Value any    `yaml:"value" json:"value"`
}
