package app

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatDBQueryForTrace(t *testing.T) {
	t.Run("collapses whitespace", func(t *testing.T) {
		got := formatDBQueryForTrace("\n  SELECT id,\n\t week  FROM games\n WHERE week = $1  ")
		assert.Equal(t, "SELECT id, week FROM games WHERE week = $1", got)
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", formatDBQueryForTrace("   \n"))
	})

	t.Run("truncates long queries", func(t *testing.T) {
		got := formatDBQueryForTrace("SELECT " + strings.Repeat("x", 600))
		assert.Len(t, got, maxTracedQueryLength+3)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("does not split multibyte runes", func(t *testing.T) {
		got := formatDBQueryForTrace("SELECT '" + strings.Repeat("é", 400) + "'")
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), maxTracedQueryLength+3)
	})
}
