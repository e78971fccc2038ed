package catalog

// builtinFunctions returns fresh entities for the functions every catalog
// starts with. Fresh values each call; builders mutate their function
// collections and must not share storage.
func builtinFunctions() []*function {
	specs := []struct {
		name    string
		args    []string
		returns string
	}{
		{"length", []string{"text"}, "integer"},
		{"char_length", []string{"text"}, "integer"},
		{"lower", []string{"text"}, "text"},
		{"upper", []string{"text"}, "text"},
		{"trim", []string{"text"}, "text"},
		{"concat", []string{"any"}, "text"},
		{"substring", []string{"any"}, "text"},
		{"abs", []string{"any"}, "numeric"},
		{"round", []string{"any"}, "numeric"},
		{"floor", []string{"numeric"}, "numeric"},
		{"ceil", []string{"numeric"}, "numeric"},
		{"count", []string{"any"}, "bigint"},
		{"sum", []string{"any"}, "numeric"},
		{"min", []string{"any"}, "any"},
		{"max", []string{"any"}, "any"},
		{"avg", []string{"any"}, "numeric"},
		{"now", nil, "timestamp with time zone"},
		{"current_timestamp", nil, "timestamp with time zone"},
		{"current_date", nil, "date"},
		{"current_user", nil, "name"},
		{"coalesce", []string{"any"}, "any"},
		{"nullif", []string{"any", "any"}, "any"},
		{"gen_random_uuid", nil, "uuid"},
	}

	out := make([]*function, len(specs))
	for i, s := range specs {
		out[i] = &function{
			name:     s.name,
			args:     s.args,
			returns:  s.returns,
			language: "internal",
			builtin:  true,
		}
	}
	return out
}
