package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmap/internal/modules/dataset"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"serve", "plan", "nearby", "geocode"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "tripmap", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd  string
		flag string
		def  string
	}{
		{"serve", "addr", ""},
		{"plan", "city", ""},
		{"plan", "days", "3"},
		{"plan", "prefs", ""},
		{"nearby", "kind", "restaurants"},
		{"nearby", "limit", "0"},
		{"geocode", "city", ""},
	}
	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			c, _, err := rootCmd.Find([]string{tt.cmd})
			require.NoError(t, err)
			f := c.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNearbyCommand(t *testing.T) {
	t.Setenv("TRIPMAP_LOG_LEVEL", "error")
	out, err := execute(t, "nearby", "--dataset", "almaty", "--lat", "43.2608", "--lng", "76.9453")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "r9"))
	assert.True(t, strings.HasPrefix(lines[2], "r1"))
}

func TestPlanCommandValidatesBeforeCalling(t *testing.T) {
	t.Setenv("TRIPMAP_LOG_LEVEL", "error")
	_, err := execute(t, "plan", "--city", "Paris", "--days", "0")
	require.Error(t, err)
	assert.True(t, eris.Is(err, dataset.ErrInvalidRequest))
}

func TestGeocodeCommandRequiresKey(t *testing.T) {
	t.Setenv("TRIPMAP_LOG_LEVEL", "error")
	t.Setenv("TRIPMAP_MAPS_API_KEY", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	_, err := execute(t, "geocode", "--city", "Almaty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}
