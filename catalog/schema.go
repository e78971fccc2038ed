package catalog

// Schema is a namespace for tables. The "public" schema exists in every
// catalog without being declared.
type Schema interface {
	Name() string
	// Authorization is the owning role named by CREATE SCHEMA, if any.
	Authorization() string
	// Tables returns the tables in this schema in catalog order.
	Tables(c *Catalog) []Table
}

type schemaEntry struct {
	name          string
	authorization string
}

func (s *schemaEntry) Name() string          { return s.name }
func (s *schemaEntry) Authorization() string { return s.authorization }

func (s *schemaEntry) Tables(c *Catalog) []Table {
	rows := c.tables.where(func(t *table) bool { return t.schema == s.name })
	out := make([]Table, len(rows))
	for i, t := range rows {
		out[i] = t
	}
	return out
}
