package docextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_LineComments(t *testing.T) {
	src := `-- Registered users.
-- One row per account.
CREATE TABLE users (
    id INT PRIMARY KEY
);`

	docs := Extract(src)
	require.Len(t, docs, 1)
	assert.Equal(t, "Registered users.\nOne row per account.", docs["public.users"])
}

func TestExtract_BlankLineBreaksAdjacency(t *testing.T) {
	src := `-- Stale commentary.

CREATE TABLE users (id INT);`

	assert.Empty(t, Extract(src))
}

func TestExtract_BlockComment(t *testing.T) {
	src := `/* Orders placed by users. */
CREATE TABLE orders (id INT);

/*
 * Line items.
 * One per product.
 */
CREATE TABLE items (id INT);`

	docs := Extract(src)
	require.Len(t, docs, 2)
	assert.Equal(t, "Orders placed by users.", docs["public.orders"])
	assert.Equal(t, "Line items.\nOne per product.", docs["public.items"])
}

func TestExtract_QualifiedAndQuotedNames(t *testing.T) {
	src := `-- Audit trail.
CREATE TABLE audit.events (id INT);

-- Case preserved.
CREATE TABLE "Mixed" (id INT);

-- Folded.
CREATE TABLE IF NOT EXISTS Accounts (id INT);`

	docs := Extract(src)
	require.Len(t, docs, 3)
	assert.Equal(t, "Audit trail.", docs["audit.events"])
	assert.Equal(t, "Case preserved.", docs["public.Mixed"])
	assert.Equal(t, "Folded.", docs["public.accounts"])
}

func TestExtract_InterveningStatementClearsPending(t *testing.T) {
	src := `-- Meant for users.
CREATE INDEX idx ON t (id);
CREATE TABLE users (id INT);`

	assert.Empty(t, Extract(src))
}

func TestExtract_BareSeparatorLineKeepsAdjacency(t *testing.T) {
	src := `-- Invoices.
--
-- Issued monthly.
CREATE TABLE invoices (id INT);`

	docs := Extract(src)
	assert.Equal(t, "Invoices.\nIssued monthly.", docs["public.invoices"])
}

func TestExtract_IgnoresTrailingComments(t *testing.T) {
	src := `CREATE TABLE users (id INT);
-- This trails the statement and belongs to nothing.`

	assert.Empty(t, Extract(src))
}
