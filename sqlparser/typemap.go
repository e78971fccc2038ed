package sqlparser

import "strings"

// typeAliases maps SQL type spellings to their canonical PostgreSQL names.
// Keys and values are lower case, multi-word names single-spaced.
var typeAliases = map[string]string{
	"int":               "integer",
	"int4":              "integer",
	"integer":           "integer",
	"serial":            "integer",
	"serial4":           "integer",
	"bigint":            "bigint",
	"int8":              "bigint",
	"bigserial":         "bigint",
	"serial8":           "bigint",
	"smallint":          "smallint",
	"int2":              "smallint",
	"smallserial":       "smallint",
	"serial2":           "smallint",
	"bool":              "boolean",
	"boolean":           "boolean",
	"varchar":           "character varying",
	"character varying": "character varying",
	"char":              "character",
	"character":         "character",
	"bpchar":            "character",
	"decimal":           "numeric",
	"numeric":           "numeric",
	"real":              "real",
	"float4":            "real",
	"float":             "double precision",
	"float8":            "double precision",
	"double precision":  "double precision",

	"timestamp":                   "timestamp",
	"timestamptz":                 "timestamp with time zone",
	"timestamp with time zone":    "timestamp with time zone",
	"timestamp without time zone": "timestamp",
	"timetz":                      "time with time zone",
	"time with time zone":         "time with time zone",
	"time without time zone":      "time",
}

// NormalizeType maps a declared SQL type to its canonical name, preserving
// any length/precision modifier and array suffix: VARCHAR(255) becomes
// character varying(255). Unknown type names pass through lower-cased.
func NormalizeType(typ string) string {
	s := strings.TrimSpace(strings.ToLower(typ))
	if s == "" {
		return s
	}

	array := false
	if strings.HasSuffix(s, "[]") {
		array = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "[]"))
	}

	mod := ""
	if i := strings.IndexByte(s, '('); i >= 0 {
		if j := strings.LastIndexByte(s, ')'); j > i {
			mod = s[i : j+1]
			s = strings.TrimSpace(s[:i]) + s[j+1:]
			s = strings.TrimSpace(s)
		}
	}

	base := strings.Join(strings.Fields(s), " ")
	if canonical, ok := typeAliases[base]; ok {
		base = canonical
	}

	out := base + mod
	if array {
		out += "[]"
	}
	return out
}

// IsSerialType reports whether the declared type is one of the serial
// pseudo-types, which imply a generated default.
func IsSerialType(typ string) bool {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "serial", "serial2", "serial4", "serial8", "smallserial", "bigserial":
		return true
	}
	return false
}
