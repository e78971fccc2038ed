package sqlparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"INT", "integer"},
		{"int4", "integer"},
		{"serial", "integer"},
		{"BIGSERIAL", "bigint"},
		{"bool", "boolean"},
		{"varchar(255)", "character varying(255)"},
		{"VARCHAR", "character varying"},
		{"char(1)", "character(1)"},
		{"decimal(10,2)", "numeric(10,2)"},
		{"float8", "double precision"},
		{"timestamptz", "timestamp with time zone"},
		{"timestamp  with   time zone", "timestamp with time zone"},
		{"TEXT", "text"},
		{"uuid", "uuid"},
		{"integer[]", "integer[]"},
		{"varchar(64)[]", "character varying(64)[]"},
		{"double precision", "double precision"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeType(tc.in), "type: %s", tc.in)
	}
}

func TestIsSerialType(t *testing.T) {
	assert.True(t, IsSerialType("serial"))
	assert.True(t, IsSerialType("BIGSERIAL"))
	assert.True(t, IsSerialType("smallserial"))
	assert.False(t, IsSerialType("integer"))
	assert.False(t, IsSerialType("text"))
}
