package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand(t *testing.T) {
	t.Setenv("BILUOCHUN_CONFIG_JSON", "")

	for _, args := range [][]string{
		{"config", "--config", "../etc"},
		{"config", "--config", "../etc", "--json"},
	} {
		var out bytes.Buffer

		rootCmd.SetOut(&out)
		rootCmd.SetArgs(args)

		require.NoError(t, rootCmd.Execute(), args)
		assert.Contains(t, out.String(), "biluochun-api", args)
	}

	dumpJSON = false
}
