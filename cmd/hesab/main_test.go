package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/hesab/hesab/internal/testing/guard"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "convert", "period", "jobs"} {
		assert.True(t, names[want], want)
	}
}

func TestConvertThroughCobra(t *testing.T) {
	root := newRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"convert", "1403-07-15", "--from", "PERSIAN", "--to", "GREGORIAN"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "= 2024-10-06 GREGORIAN")
}

func TestPeriodExitCode(t *testing.T) {
	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	stderr := new(bytes.Buffer)
	root.SetErr(stderr)
	root.SetArgs([]string{"period", "--start-day", "40"})
	err := root.Execute()
	var exit exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.code)
	assert.Contains(t, stderr.String(), "period:")
}

func TestServeSkipsInTestMode(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"serve"})
	require.NoError(t, root.Execute())
}
