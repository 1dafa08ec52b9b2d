package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, library string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--library", library, "--log-level", "off"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCommandFlow(t *testing.T) {
	library := t.TempDir()

	out, err := execute(t, library, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized library at "+library)

	out, err = execute(t, library, "template", "list", "--format", "ids")
	require.NoError(t, err)
	assert.Contains(t, strings.Fields(out), "home-visit")

	_, err = execute(t, library, "template", "create", "visit", "--name", "Visit", "--content", "Met at (---l---). Done.")
	require.NoError(t, err)

	out, err = execute(t, library, "note", "new", "visit")
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3)
	id := fields[2]

	_, err = execute(t, library, "note", "fill", id, "--value", "l=the park")
	require.NoError(t, err)

	out, err = execute(t, library, "note", "show", id)
	require.NoError(t, err)
	assert.Equal(t, "Met at the park.\nDone.\n", out)

	out, err = execute(t, library, "note", "show", id, "--focus-section", "2", "--gutter")
	require.NoError(t, err)
	assert.Equal(t, "1 │ [1]: Met at the park.\n2 │ [2]: DONE.\n", out)
}

func TestCommandErrors(t *testing.T) {
	library := t.TempDir()

	_, err := execute(t, library, "note", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = execute(t, library, "note", "fill", "missing", "zero")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ordinal must be a positive number")

	_, err = execute(t, library, "--width", "5", "kinds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrap_width")

	_, err = execute(t, library, "session")
	require.Error(t, err)
}
