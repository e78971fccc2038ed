package catalog

import "strings"

// Function is a callable in the catalog, either user-declared or one of the
// seeded built-ins. Built-ins behave exactly like user functions: they
// resolve references and can even be dropped when nothing uses them.
type Function interface {
	Name() string
	// Args returns the normalized argument type names.
	Args() []string
	// Returns is the normalized return type name, empty when undeclared.
	Returns() string
	// Language is the declared implementation language ("plpgsql", "sql",
	// "internal" for built-ins).
	Language() string
	// Body is the function body text, empty for built-ins.
	Body() string
	// Builtin reports whether the function was seeded rather than declared.
	Builtin() bool
	// Signature renders "name(type, type)".
	Signature() string
}

type function struct {
	name     string
	args     []string
	returns  string
	language string
	body     string
	builtin  bool
}

func (f *function) key() funcKey {
	return funcKey{name: f.name, args: argSignature(f.args)}
}

func (f *function) Name() string     { return f.name }
func (f *function) Args() []string   { return f.args }
func (f *function) Returns() string  { return f.returns }
func (f *function) Language() string { return f.language }
func (f *function) Body() string     { return f.body }
func (f *function) Builtin() bool    { return f.builtin }

func (f *function) Signature() string {
	return f.name + "(" + strings.Join(f.args, ", ") + ")"
}

// argSignature flattens a normalized argument type list into the comparable
// form used by function keys.
func argSignature(args []string) string {
	return strings.Join(args, ",")
}
