package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunValidation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Microsoft.Web.json"), []byte(`{
		"$schema": "http://json-schema.org/draft-04/schema#",
		"title": "Microsoft.Web",
		"resourceDefinitions": {"sites": {"type": "object"}}
	}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a schema"), 0600))

	assert.NoError(t, runValidation([]string{dir}))

	count, err := validateSchema(filepath.Join(dir, "Microsoft.Web.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunValidation_Invalid(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"type": 5}`), 0600))

	assert.Error(t, runValidation([]string{bad}))
	assert.Error(t, runValidation([]string{t.TempDir()}))
}
