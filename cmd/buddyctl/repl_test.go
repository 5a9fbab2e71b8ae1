package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplInitAllocStats(t *testing.T) {
	root := newRootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(
		"init 1048576\n" +
			"alloc 64\n" +
			"stats\n" +
			"exit\n",
	))
	root.SetArgs([]string{})

	require.NoError(t, root.Execute())

	got := out.String()
	assert.Contains(t, got, "pool initialized")
	assert.Contains(t, got, "offset=0x")
	assert.Contains(t, got, "kval_m=")
}

func TestReplUnknownCommandReportsError(t *testing.T) {
	root := newRootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(
		"init 1048576\n" +
			"bogus\n" +
			"exit\n",
	))
	root.SetArgs([]string{})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "unknown command")
}
