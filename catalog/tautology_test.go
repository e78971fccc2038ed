package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_TautologyAndNegation(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (
			a INT NOT NULL,
			b INT,
			CONSTRAINT c_true CHECK (TRUE),
			CONSTRAINT c_false CHECK (FALSE),
			CONSTRAINT c_not_false CHECK (NOT FALSE),
			CONSTRAINT c_not_taut CHECK (NOT (1 = 1)),
			CONSTRAINT c_eq_same CHECK (1 = 1),
			CONSTRAINT c_eq_str CHECK ('x' = 'x'),
			CONSTRAINT c_eq_diff CHECK (1 = 2),
			CONSTRAINT c_ne_diff CHECK (1 <> 2),
			CONSTRAINT c_ne_bang CHECK ('a' != 'b'),
			CONSTRAINT c_ne_same CHECK (1 <> 1),
			CONSTRAINT c_eq_kinds CHECK (1 = '1'),
			CONSTRAINT c_eq_null CHECK (NULL = NULL),
			CONSTRAINT c_a_not_null CHECK (a IS NOT NULL),
			CONSTRAINT c_a_null CHECK (a IS NULL),
			CONSTRAINT c_b_not_null CHECK (b IS NOT NULL),
			CONSTRAINT c_b_null CHECK (b IS NULL),
			CONSTRAINT c_null_pair CHECK (b IS NULL OR b IS NOT NULL),
			CONSTRAINT c_or_taut CHECK (TRUE OR b > 0),
			CONSTRAINT c_or_negs CHECK (FALSE OR a IS NULL),
			CONSTRAINT c_or_open CHECK (FALSE OR b > 0),
			CONSTRAINT c_and_taut CHECK (TRUE AND 1 = 1),
			CONSTRAINT c_and_neg CHECK (b > 0 AND FALSE),
			CONSTRAINT c_and_open CHECK (TRUE AND b > 0),
			CONSTRAINT c_parens CHECK ((((TRUE))))
		);`)

	cases := []struct {
		name string
		taut bool
		neg  bool
	}{
		{"c_true", true, false},
		{"c_false", false, true},
		{"c_not_false", true, false},
		{"c_not_taut", false, true},
		{"c_eq_same", true, false},
		{"c_eq_str", true, false},
		{"c_eq_diff", false, false},
		{"c_ne_diff", false, true},
		{"c_ne_bang", false, true},
		{"c_ne_same", false, false},
		{"c_eq_kinds", false, false},
		{"c_eq_null", false, false},
		{"c_a_not_null", true, false},
		{"c_a_null", false, true},
		{"c_b_not_null", false, false},
		{"c_b_null", false, false},
		{"c_null_pair", true, false},
		{"c_or_taut", true, false},
		{"c_or_negs", false, true},
		{"c_or_open", false, false},
		{"c_and_taut", true, false},
		{"c_and_neg", false, true},
		{"c_and_open", false, false},
		{"c_parens", true, false},
	}
	for _, tc := range cases {
		cc := checkByName(t, c, tc.name)
		assert.Equal(t, tc.taut, cc.IsTautology(c), "tautology of %s", tc.name)
		assert.Equal(t, tc.neg, cc.IsNegation(c), "negation of %s", tc.name)
	}
}

func TestCheck_PrimaryKeyColumnIsNonNullable(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (
			id INT PRIMARY KEY,
			CONSTRAINT c_id CHECK (id IS NOT NULL)
		);`)

	assert.True(t, checkByName(t, c, "c_id").IsTautology(c))
}

func TestCheck_MutualNullability(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (
			x INT,
			y INT,
			z INT,
			CONSTRAINT m_pair CHECK ((x IS NULL AND y IS NULL) OR (x IS NOT NULL AND y IS NOT NULL)),
			CONSTRAINT m_reversed CHECK ((x IS NOT NULL AND y IS NOT NULL) OR (y IS NULL AND x IS NULL)),
			CONSTRAINT m_triple CHECK ((x IS NULL AND y IS NULL AND z IS NULL) OR (x IS NOT NULL AND y IS NOT NULL AND z IS NOT NULL))
		);`)

	names := func(cols []Column) []string {
		out := make([]string, len(cols))
		for i, col := range cols {
			out[i] = col.Name()
		}
		return out
	}

	cols, ok := checkByName(t, c, "m_pair").MutualNullability(c)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, names(cols))

	// The reported order follows the IS NULL side.
	cols, ok = checkByName(t, c, "m_reversed").MutualNullability(c)
	require.True(t, ok)
	assert.Equal(t, []string{"y", "x"}, names(cols))

	cols, ok = checkByName(t, c, "m_triple").MutualNullability(c)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, names(cols))

	// The pattern itself is neither tautology nor negation.
	mp := checkByName(t, c, "m_pair")
	assert.False(t, mp.IsTautology(c))
	assert.False(t, mp.IsNegation(c))
}

func TestCheck_MutualNullabilityRejections(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (
			x INT,
			y INT,
			z INT,
			CONSTRAINT r_single CHECK ((x IS NULL) OR (x IS NOT NULL)),
			CONSTRAINT r_sets CHECK ((x IS NULL AND y IS NULL) OR (x IS NOT NULL AND z IS NOT NULL)),
			CONSTRAINT r_polarity CHECK ((x IS NULL AND y IS NOT NULL) OR (x IS NOT NULL AND y IS NULL)),
			CONSTRAINT r_and CHECK ((x IS NULL AND y IS NULL) AND (x IS NOT NULL AND y IS NOT NULL)),
			CONSTRAINT r_extra CHECK ((x IS NULL AND y IS NULL AND x > 0) OR (x IS NOT NULL AND y IS NOT NULL))
		);`)

	for _, name := range []string{"r_single", "r_sets", "r_polarity", "r_and", "r_extra"} {
		_, ok := checkByName(t, c, name).MutualNullability(c)
		assert.False(t, ok, "constraint %s", name)
	}
}
