package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

func (b *Builder) createFunction(s *sqlparser.CreateFunctionStmt) error {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = sqlparser.NormalizeType(a.Type)
	}
	fn := &function{
		name:     s.Name,
		args:     args,
		language: s.Language,
		body:     s.Body,
	}
	if s.Returns != "" {
		fn.returns = sqlparser.NormalizeType(s.Returns)
	}
	if existing, ok := b.c.functions.get(fn.key()); ok {
		if !s.OrReplace {
			return fmt.Errorf("%w: function %s", ErrDuplicate, fn.Signature())
		}
		// Same name and argument types, so the key is unchanged and the
		// entity can be replaced in place.
		*existing = *fn
		return nil
	}
	b.c.functions.add(fn)
	return nil
}

// dropFunction resolves the victim by exact signature when argument types
// were written, and by name otherwise, which is ambiguous among overloads.
// The in-use protection is name-based because references recorded from
// expressions carry no argument types; IF EXISTS does not bypass it.
func (b *Builder) dropFunction(s *sqlparser.DropFunctionStmt) error {
	var victim *function
	if s.ArgsSpecified {
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = sqlparser.NormalizeType(a)
		}
		fn, ok := b.c.functions.get(funcKey{name: s.Name, args: argSignature(args)})
		if !ok {
			if s.IfExists {
				return nil
			}
			return fmt.Errorf("%w: function %s(%s)", ErrDoesNotExist, s.Name, strings.Join(args, ", "))
		}
		victim = fn
	} else {
		matches := b.c.functionsNamed(s.Name)
		switch len(matches) {
		case 0:
			if s.IfExists {
				return nil
			}
			return fmt.Errorf("%w: function %s", ErrDoesNotExist, s.Name)
		case 1:
			victim = matches[0]
		default:
			return fmt.Errorf("%w: function name %s is not unique, specify the argument types", ErrInvalidArgument, s.Name)
		}
	}
	if by, used := b.functionInUse(s.Name); used {
		return fmt.Errorf("%w: function %s is referenced by %s", ErrInUse, s.Name, by)
	}
	b.c.functions.removeWhere(func(fn *function) bool { return fn == victim })
	return nil
}

func (b *Builder) createTrigger(s *sqlparser.CreateTriggerStmt) error {
	k := normalizeTableKey(s.Schema, s.Table)
	if !b.c.tables.has(k) {
		return fmt.Errorf("%w: trigger %s on unknown table %s", ErrUnresolvedReference, s.Name, k)
	}
	if b.c.firstFunctionNamed(s.Function) == nil {
		return fmt.Errorf("%w: trigger %s executes unknown function %s", ErrUnresolvedReference, s.Name, s.Function)
	}
	mk := memberKey{table: k, name: s.Name}
	if b.c.triggers.has(mk) {
		return fmt.Errorf("%w: trigger %s on table %s", ErrDuplicate, s.Name, k)
	}
	b.c.triggers.add(&trigger{
		name:     s.Name,
		table:    k,
		timing:   s.Timing,
		events:   slices.Clone(s.Events),
		forEach:  s.ForEach,
		when:     s.When,
		function: s.Function,
		fnArgs:   slices.Clone(s.FunctionArgs),
	})
	return nil
}

func (b *Builder) dropTrigger(s *sqlparser.DropTriggerStmt) error {
	mk := memberKey{table: normalizeTableKey(s.Schema, s.Table), name: s.Name}
	if !b.c.triggers.has(mk) {
		if s.IfExists {
			return nil
		}
		return fmt.Errorf("%w: trigger %s on table %s", ErrDoesNotExist, s.Name, mk.table)
	}
	b.c.triggers.removeWhere(func(tr *trigger) bool { return tr.key() == mk })
	return nil
}

// createPolicy resolves the table, every named role and every function the
// predicates call. Column references inside the predicates are not checked;
// policy expressions routinely mix table columns with session state.
func (b *Builder) createPolicy(s *sqlparser.CreatePolicyStmt) error {
	k := normalizeTableKey(s.Schema, s.Table)
	if !b.c.tables.has(k) {
		return fmt.Errorf("%w: policy %s on unknown table %s", ErrUnresolvedReference, s.Name, k)
	}
	mk := memberKey{table: k, name: s.Name}
	if b.c.policies.has(mk) {
		return fmt.Errorf("%w: policy %s on table %s", ErrDuplicate, s.Name, k)
	}
	for _, r := range s.Roles {
		if !b.roleExists(r) {
			return fmt.Errorf("%w: policy %s applies to unknown role %s", ErrUnresolvedReference, s.Name, r)
		}
	}
	var fns []string
	for _, e := range []sqlparser.Expr{s.Using, s.WithCheck} {
		if e == nil {
			continue
		}
		for _, fn := range exprFunctionNames(e) {
			if b.c.firstFunctionNamed(fn) == nil {
				return fmt.Errorf("%w: policy %s calls unknown function %s", ErrUnresolvedReference, s.Name, fn)
			}
			if !slices.Contains(fns, fn) {
				fns = append(fns, fn)
			}
		}
	}
	b.c.policies.add(&policy{
		name:       s.Name,
		table:      k,
		permissive: s.Permissive,
		command:    s.Command,
		roles:      slices.Clone(s.Roles),
		using:      s.Using,
		withCheck:  s.WithCheck,
		fnNames:    fns,
	})
	return nil
}

func (b *Builder) dropPolicy(s *sqlparser.DropPolicyStmt) error {
	mk := memberKey{table: normalizeTableKey(s.Schema, s.Table), name: s.Name}
	if !b.c.policies.has(mk) {
		if s.IfExists {
			return nil
		}
		return fmt.Errorf("%w: policy %s on table %s", ErrDoesNotExist, s.Name, mk.table)
	}
	b.c.policies.removeWhere(func(p *policy) bool { return p.key() == mk })
	return nil
}
