package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightSQL(t *testing.T) {
	assert.Equal(t, "SELECT 1", highlightSQL("SELECT 1", false), "no color passes through")
	assert.Equal(t, "", highlightSQL("", true))

	out := highlightSQL("SELECT 1", true)
	assert.Contains(t, out, "SELECT", "token text survives colorizing")
}
