package catalog

// publicGrantee is the pseudo-role meaning "everyone". It never has a role
// entity and is exempt from role existence checks.
const publicGrantee = "public"

// Role is a database role.
type Role interface {
	Name() string
	Superuser() bool
	CreateDB() bool
	CreateRole() bool
	// Inherit reports whether the role inherits privileges of roles it is
	// a member of. True unless declared NOINHERIT.
	Inherit() bool
	Login() bool
	BypassRLS() bool
	Replication() bool
	// ConnLimit is the connection limit, -1 for unlimited.
	ConnLimit() int
	// MemberOf lists the roles this role was created a member of.
	MemberOf() []string
	// Grants returns every grant record naming this role as a grantee, in
	// recorded order.
	Grants(c *Catalog) []Grant
}

type role struct {
	name        string
	superuser   bool
	createDB    bool
	createRole  bool
	inherit     bool
	login       bool
	bypassRLS   bool
	replication bool
	connLimit   int
	memberOf    []string
}

func (r *role) Name() string      { return r.name }
func (r *role) Superuser() bool   { return r.superuser }
func (r *role) CreateDB() bool    { return r.createDB }
func (r *role) CreateRole() bool  { return r.createRole }
func (r *role) Inherit() bool     { return r.inherit }
func (r *role) Login() bool       { return r.login }
func (r *role) BypassRLS() bool   { return r.bypassRLS }
func (r *role) Replication() bool { return r.replication }
func (r *role) ConnLimit() int    { return r.connLimit }
func (r *role) MemberOf() []string {
	return r.memberOf
}

func (r *role) Grants(c *Catalog) []Grant {
	var out []Grant
	for _, g := range c.tableGrants {
		if g.hasGrantee(r.name) {
			out = append(out, g)
		}
	}
	return out
}
