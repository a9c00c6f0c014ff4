package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchOutputsAreDistinct(t *testing.T) {
	dir := "out"
	got := batchOutputs([]string{"x/a.csv", "y/a.xlsx", "a__2.csv", "z/a.tsv"}, dir, ".profile.md")
	assert.Equal(t, []string{
		filepath.Join(dir, "a.profile.md"),
		filepath.Join(dir, "a__2.profile.md"),
		filepath.Join(dir, "a__2__2.profile.md"),
		filepath.Join(dir, "a__3.profile.md"),
	}, got)

	seen := map[string]bool{}
	for _, p := range got {
		assert.False(t, seen[p], p)
		seen[p] = true
	}
}
