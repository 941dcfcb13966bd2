package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"handle=andrewbrown", "search_term=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"handle":      "andrewbrown",
		"search_term": "a=b",
		"empty":       "",
	}, params)

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=x"})
	assert.Error(t, err)
}

func TestRootCmdArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"activities"})
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())

	cmd = newRootCmd()
	require.NoError(t, cmd.Flags().Set("list", "true"))
	assert.Error(t, cmd.Args(cmd, []string{"activities"}))
	assert.NoError(t, cmd.Args(cmd, nil))
}
