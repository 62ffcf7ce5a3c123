package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMaskDir_MasksEveryFile(t *testing.T) {
	withTempRulesPath(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("test@example.com"), 0o644))

	maskDirOutput = ""
	maskDirIncludeHidden = false
	maskDirMaxFileSize = 0

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	require.NoError(t, runMaskDir(cmd, []string{dir}))
	assert.Contains(t, buf.String(), "masked 1/1 files")

	got, err := os.ReadFile(filepath.Join(dir, "a.masked.txt"))
	require.NoError(t, err)
	assert.NotContains(t, string(got), "test@example.com")
}
