package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

func (b *Builder) createRole(s *sqlparser.CreateRoleStmt) error {
	if s.Name == publicGrantee {
		return fmt.Errorf("%w: role name %s is reserved", ErrInvalidArgument, s.Name)
	}
	if b.c.roles.has(s.Name) {
		return fmt.Errorf("%w: role %s", ErrDuplicate, s.Name)
	}
	for _, in := range s.InRoles {
		if !b.roleExists(in) {
			return fmt.Errorf("%w: role %s is created a member of unknown role %s", ErrUnresolvedReference, s.Name, in)
		}
	}
	b.c.roles.add(&role{
		name:        s.Name,
		superuser:   s.Superuser,
		createDB:    s.CreateDB,
		createRole:  s.CreateRole,
		inherit:     s.Inherit,
		login:       s.Login,
		bypassRLS:   s.BypassRLS,
		replication: s.Replication,
		connLimit:   s.ConnLimit,
		memberOf:    slices.Clone(s.InRoles),
	})
	return nil
}

func (b *Builder) dropRoles(s *sqlparser.DropRoleStmt) error {
	for _, name := range s.Names {
		if err := b.dropRole(name, s.IfExists); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) dropRole(name string, ifExists bool) error {
	if name == publicGrantee {
		return fmt.Errorf("%w: role name %s is reserved", ErrInvalidArgument, name)
	}
	if !b.c.roles.has(name) {
		if ifExists {
			return nil
		}
		return fmt.Errorf("%w: role %s", ErrDoesNotExist, name)
	}
	if by, used := b.roleInUse(name); used {
		return fmt.Errorf("%w: role %s is named as grantee by %s", ErrInUse, name, by)
	}
	b.c.roles.removeWhere(func(r *role) bool { return r.name == name })
	return nil
}

func (b *Builder) createSchema(s *sqlparser.CreateSchemaStmt) error {
	if b.c.schemas.has(s.Name) {
		if s.IfNotExists {
			return nil
		}
		return fmt.Errorf("%w: schema %s", ErrDuplicate, s.Name)
	}
	if s.Authorization != "" && !b.roleExists(s.Authorization) {
		return fmt.Errorf("%w: schema %s authorized to unknown role %s", ErrUnresolvedReference, s.Name, s.Authorization)
	}
	b.c.schemas.add(&schemaEntry{name: s.Name, authorization: s.Authorization})
	return nil
}

func (b *Builder) dropSchemas(s *sqlparser.DropSchemaStmt) error {
	for _, name := range s.Names {
		if err := b.dropSchema(name, s.IfExists, s.Cascade); err != nil {
			return err
		}
	}
	return nil
}

// dropSchema requires the schema to hold no tables unless cascade, which
// removes the member tables the way DROP TABLE does. Foreign keys pointing
// in from tables outside the schema still block, because the schema cascade
// does not extend to them.
func (b *Builder) dropSchema(name string, ifExists, cascade bool) error {
	if !b.c.schemas.has(name) {
		if ifExists {
			return nil
		}
		return fmt.Errorf("%w: schema %s", ErrDoesNotExist, name)
	}
	members := b.c.tables.where(func(t *table) bool { return t.schema == name })
	if len(members) > 0 && !cascade {
		return fmt.Errorf("%w: schema %s contains table %s", ErrInUse, name, members[0].name)
	}
	for _, t := range members {
		for _, fk := range b.tablesReferencing(t.key()) {
			if fk.table.schema != name {
				return fmt.Errorf("%w: table %s is referenced by foreign key %s on table %s",
					ErrInUse, t.key(), fk.name, fk.table)
			}
		}
	}
	for _, t := range members {
		b.dropTableInternals(t.key())
	}
	b.c.tables.removeWhere(func(t *table) bool { return t.schema == name })
	b.removeGrantRecords(func(g *grantRecord) bool {
		return g.objectType != GrantOnTables && !g.removeSchema(name)
	})
	b.c.schemas.removeWhere(func(sc *schemaEntry) bool { return sc.name == name })
	return nil
}

func (b *Builder) grant(s *sqlparser.GrantStmt) error {
	objType, ok := grantObjectType(s.ObjectType)
	if !ok {
		return fmt.Errorf("%w: GRANT ON %s", ErrUnsupportedStatement, s.ObjectType)
	}
	for _, gr := range s.Grantees {
		if !b.roleExists(gr) {
			return fmt.Errorf("%w: grantee role %s", ErrUnresolvedReference, gr)
		}
	}
	if s.GrantedBy != "" && !b.roleExists(s.GrantedBy) {
		return fmt.Errorf("%w: granting role %s", ErrUnresolvedReference, s.GrantedBy)
	}

	rec := &grantRecord{
		objectType: objType,
		allPrivs:   s.AllPrivileges,
		grantees:   slices.Clone(s.Grantees),
		grantOpt:   s.WithGrantOption,
		grantedBy:  s.GrantedBy,
	}
	for _, p := range s.Privileges {
		rec.privileges = append(rec.privileges, GrantPrivilege{Name: p.Name, Columns: slices.Clone(p.Columns)})
	}

	switch objType {
	case GrantOnTables:
		for _, o := range s.Objects {
			k := normalizeTableKey(o.Schema, o.Name)
			t, found := b.c.tables.get(k)
			if !found {
				return fmt.Errorf("%w: grant on unknown table %s", ErrUnresolvedReference, k)
			}
			for _, p := range rec.privileges {
				for _, cn := range p.Columns {
					if t.column(cn) == nil {
						return fmt.Errorf("%w: grant of %s on unknown column %s of table %s", ErrUnresolvedReference, p.Name, cn, k)
					}
				}
			}
			rec.tables = append(rec.tables, k)
		}
	default:
		if rec.ColumnScoped() {
			return fmt.Errorf("%w: column privileges apply only to table grants", ErrInvalidArgument)
		}
		for _, o := range s.Objects {
			if !b.c.schemas.has(o.Name) {
				return fmt.Errorf("%w: grant on unknown schema %s", ErrUnresolvedReference, o.Name)
			}
			rec.schemas = append(rec.schemas, o.Name)
		}
	}

	// One record serves both views; readers filter the column view down to
	// records carrying column lists.
	b.c.tableGrants = append(b.c.tableGrants, rec)
	b.c.columnGrants = append(b.c.columnGrants, rec)
	return nil
}

// revoke removes every grant record matching the revoke: identical object
// set, at least one shared grantee, and overlapping privileges, where ALL
// on either side overlaps everything. REVOKE GRANT OPTION FOR clears the
// grant option on the matches instead of removing them. No match at all is
// a mismatch error.
func (b *Builder) revoke(s *sqlparser.RevokeStmt) error {
	objType, ok := grantObjectType(s.ObjectType)
	if !ok {
		return fmt.Errorf("%w: REVOKE ON %s", ErrUnsupportedStatement, s.ObjectType)
	}
	var keys []tableKey
	var names []string
	if objType == GrantOnTables {
		for _, o := range s.Objects {
			keys = append(keys, normalizeTableKey(o.Schema, o.Name))
		}
	} else {
		for _, o := range s.Objects {
			names = append(names, o.Name)
		}
	}

	match := func(g *grantRecord) bool {
		if g.objectType != objType {
			return false
		}
		if objType == GrantOnTables {
			if !sameKeySet(g.tables, keys) {
				return false
			}
		} else if !sameStringSet(g.schemas, names) {
			return false
		}
		return granteeOverlap(s.Grantees, g) && privilegeOverlap(s.AllPrivileges, s.Privileges, g)
	}

	if s.GrantOptionFor {
		matched := 0
		for _, g := range b.c.tableGrants {
			if match(g) {
				g.grantOpt = false
				matched++
			}
		}
		if matched == 0 {
			return fmt.Errorf("%w: no grant matches the revoke", ErrRevokeMismatch)
		}
		return nil
	}
	if b.removeGrantRecords(match) == 0 {
		return fmt.Errorf("%w: no grant matches the revoke", ErrRevokeMismatch)
	}
	return nil
}

func grantObjectType(t string) (string, bool) {
	switch t {
	case sqlparser.ObjectTable:
		return GrantOnTables, true
	case sqlparser.ObjectSchema:
		return GrantOnSchemas, true
	case sqlparser.ObjectTablesInSchema:
		return GrantOnTablesInSchema, true
	}
	return "", false
}

func sameKeySet(a, b []tableKey) bool {
	if len(a) != len(b) {
		return false
	}
	for _, k := range a {
		if !slices.Contains(b, k) {
			return false
		}
	}
	return true
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, s := range a {
		if !slices.Contains(b, s) {
			return false
		}
	}
	return true
}

func granteeOverlap(revokees []string, g *grantRecord) bool {
	for _, r := range revokees {
		if g.hasGrantee(r) {
			return true
		}
	}
	return false
}

func privilegeOverlap(revokeAll bool, revoked []sqlparser.Privilege, g *grantRecord) bool {
	if revokeAll || g.allPrivs {
		return true
	}
	for _, rp := range revoked {
		for _, gp := range g.privileges {
			if strings.EqualFold(rp.Name, gp.Name) {
				return true
			}
		}
	}
	return false
}
