package catalog

import "errors"

// Statement processing fails with one of these sentinels wrapped in context
// (the entity names involved). Match with errors.Is.
var (
	// ErrUnresolvedReference means a statement named a table, column,
	// function, role or schema that does not exist at that point in the
	// statement sequence.
	ErrUnresolvedReference = errors.New("catalog: unresolved reference")

	// ErrDoesNotExist means a DROP or ALTER target is absent and the
	// statement did not say IF EXISTS.
	ErrDoesNotExist = errors.New("catalog: object does not exist")

	// ErrInUse means a DROP target is still referenced by another live
	// entity: a table by a foreign key, a function by a check constraint,
	// policy or trigger, a role by a grant.
	ErrInUse = errors.New("catalog: object is in use")

	// ErrDuplicate means a CREATE would produce a second entity with the
	// same identity.
	ErrDuplicate = errors.New("catalog: object already exists")

	// ErrRevokeMismatch means a REVOKE matched no recorded grant.
	ErrRevokeMismatch = errors.New("catalog: revoke matches no grant")

	// ErrUnsupportedStatement means a statement kind is neither handled nor
	// on the ignore list. Callers may treat it as recoverable and skip the
	// offending input.
	ErrUnsupportedStatement = errors.New("catalog: unsupported statement")

	// ErrInconsistentCatalog means an internal lookup that must succeed did
	// not, such as a foreign key pointing at a table missing from the
	// dependency graph. It indicates a construction bug or a catalog whose
	// cascaded drops left dangling references.
	ErrInconsistentCatalog = errors.New("catalog: inconsistent catalog")

	// ErrInvalidArgument means the caller asked for something the catalog
	// cannot answer unambiguously, such as dropping an overloaded function
	// without an argument list.
	ErrInvalidArgument = errors.New("catalog: invalid argument")
)
