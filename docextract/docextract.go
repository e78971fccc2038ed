// Package docextract pulls table documentation out of SQL source text.
//
// Comment lines sitting directly above a CREATE TABLE statement, with no
// blank line in between, become that table's documentation. Both -- line
// comments and /* */ block comments participate. Extraction is purely
// textual; the source is never parsed as SQL.
package docextract

import "strings"

// Extract returns table documentation keyed by "schema.table". Unqualified
// table names get the schema "public"; unquoted identifiers fold to lower
// case the way the SQL parser folds them.
func Extract(src string) map[string]string {
	docs := make(map[string]string)
	var pending []string
	inBlock := false

	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)

		if inBlock {
			if end := strings.Index(line, "*/"); end >= 0 {
				if txt := strings.TrimSpace(line[:end]); txt != "" {
					pending = append(pending, txt)
				}
				inBlock = false
			} else if txt := strings.TrimSpace(strings.TrimPrefix(line, "*")); txt != "" {
				pending = append(pending, txt)
			}
			continue
		}

		switch {
		case line == "":
			pending = nil
		case strings.HasPrefix(line, "--"):
			if txt := strings.TrimSpace(line[2:]); txt != "" {
				pending = append(pending, txt)
			}
		case strings.HasPrefix(line, "/*"):
			rest := line[2:]
			if end := strings.Index(rest, "*/"); end >= 0 {
				if txt := strings.TrimSpace(rest[:end]); txt != "" {
					pending = append(pending, txt)
				}
			} else {
				if txt := strings.TrimSpace(rest); txt != "" {
					pending = append(pending, txt)
				}
				inBlock = true
			}
		default:
			if key, ok := tableKey(line); ok && len(pending) > 0 {
				docs[key] = strings.Join(pending, "\n")
			}
			pending = nil
		}
	}
	return docs
}

// tableKey recognizes the first line of a CREATE TABLE statement and returns
// the qualified table name it introduces.
func tableKey(line string) (string, bool) {
	rest, ok := cutKeyword(line, "CREATE")
	if !ok {
		return "", false
	}
	for _, kw := range []string{"UNLOGGED", "TEMPORARY", "TEMP"} {
		if r, found := cutKeyword(rest, kw); found {
			rest = r
		}
	}
	rest, ok = cutKeyword(rest, "TABLE")
	if !ok {
		return "", false
	}
	if r, found := cutKeyword(rest, "IF"); found {
		r, found = cutKeyword(r, "NOT")
		if found {
			if r, found = cutKeyword(r, "EXISTS"); found {
				rest = r
			}
		}
	}
	name := readQualifiedName(rest)
	if name == "" {
		return "", false
	}
	if !strings.Contains(name, ".") {
		name = "public." + name
	}
	return name, true
}

// cutKeyword consumes one leading keyword, case-insensitively, and reports
// whether it was present.
func cutKeyword(s, kw string) (string, bool) {
	s = strings.TrimLeft(s, " \t")
	if len(s) < len(kw) || !strings.EqualFold(s[:len(kw)], kw) {
		return s, false
	}
	rest := s[len(kw):]
	if rest != "" && isIdentByte(rest[0]) {
		return s, false
	}
	return rest, true
}

func readQualifiedName(s string) string {
	first, rest := readIdent(s)
	if first == "" {
		return ""
	}
	if strings.HasPrefix(rest, ".") {
		if second, _ := readIdent(rest[1:]); second != "" {
			return first + "." + second
		}
	}
	return first
}

func readIdent(s string) (name, rest string) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", ""
	}
	if s[0] == '"' {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return "", ""
		}
		return s[1 : 1+end], s[2+end:]
	}
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", ""
	}
	return strings.ToLower(s[:i]), s[i:]
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
