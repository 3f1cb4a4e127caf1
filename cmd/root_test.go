package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// ===========================================================================
// Test Helpers
// ===========================================================================

// resetFlags restores every flag to its default so tests sharing rootCmd do
// not leak state into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// writeConfig writes body to a config file in a temp dir and returns its path.
// The history database, when used, lives next to it.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body = strings.ReplaceAll(body, "$DIR", dir)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(viper.Reset)

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := Execute()
	return out.String(), errOut.String(), err
}

const baseConfig = `operators:
  enabled: []
`

// ===========================================================================
// Interactive loop
// ===========================================================================

func TestRoot_InteractiveLoop(t *testing.T) {
	path := writeConfig(t, baseConfig)

	out, _, err := execute(t, "3+4\n10-3\n10%3\nabc\n5*2\n", "--config", path)

	require.NoError(t, err)
	want := strings.Join([]string{
		Prompt,
		"7",
		"7",
		"1",
		"Could not parse command.",
		"Operation Not Found!",
	}, "\n") + "\n"
	require.Equal(t, want, out)
}

func TestRoot_PromptPrintedOnce(t *testing.T) {
	path := writeConfig(t, baseConfig)

	out, _, err := execute(t, "3+4\n10-3\n10%3\n", "--config", path)

	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out, Prompt))
	require.Equal(t, Prompt+"\n7\n7\n1\n", out)
}

func TestRoot_RuntimeFailureKeepsServing(t *testing.T) {
	path := writeConfig(t, baseConfig)

	out, errOut, err := execute(t, "10%0\n3+4\n", "--config", path)

	require.NoError(t, err)
	require.Equal(t, Prompt+"\n7\n", out)
	require.Contains(t, errOut, "Error: division by zero")
}

func TestRoot_EmptyInput(t *testing.T) {
	path := writeConfig(t, baseConfig)

	out, _, err := execute(t, "", "--config", path)

	require.NoError(t, err)
	require.Equal(t, Prompt+"\n", out)
}

func TestRoot_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")

	_, _, err := execute(t, "", "--config", path)

	require.ErrorContains(t, err, "invalid configuration")
}

// ===========================================================================
// calc
// ===========================================================================

func TestCalc_MultipleCommands(t *testing.T) {
	path := writeConfig(t, baseConfig)

	out, _, err := execute(t, "", "--config", path, "calc", "3+4", "10%3", "+5")

	require.NoError(t, err)
	require.Equal(t, "7\n1\nCould not parse command.\n", out)
}

func TestCalc_RuntimeFailureExitsWithError(t *testing.T) {
	path := writeConfig(t, baseConfig)

	out, _, err := execute(t, "", "--config", path, "calc", "1+1", "10%0", "2+2")

	require.ErrorContains(t, err, "10%0: division by zero")
	require.Equal(t, "2\n", out)
}

func TestCalc_RespectsEnabledOperators(t *testing.T) {
	path := writeConfig(t, "operators:\n  enabled: [add]\n")

	out, _, err := execute(t, "", "--config", path, "calc", "3+4", "10%3")

	require.NoError(t, err)
	require.Equal(t, "7\nOperation Not Found!\n", out)
}

func TestCalc_UnknownEnabledOperatorFailsStartup(t *testing.T) {
	path := writeConfig(t, "operators:\n  enabled: [ad]\n")

	out, _, err := execute(t, "", "--config", path, "calc", "3+4")

	require.ErrorContains(t, err, `selector matches no provider: "ad"`)
	require.Empty(t, out)
}

func TestCalc_RejectDuplicatesFlag(t *testing.T) {
	path := writeConfig(t, baseConfig)

	out, _, err := execute(t, "", "--config", path, "--reject-duplicates", "calc", "3+4")

	require.NoError(t, err, "builtin providers have distinct symbols")
	require.Equal(t, "7\n", out)
}

func TestCalc_WithResultCache(t *testing.T) {
	path := writeConfig(t, baseConfig+"flags:\n  result-cache: true\n")

	out, _, err := execute(t, "", "--config", path, "calc", "3+4", "3+4")

	require.NoError(t, err)
	require.Equal(t, "7\n7\n", out)
}

// ===========================================================================
// providers:*
// ===========================================================================

type providerJSON struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Shadowed bool   `json:"shadowed"`
}

func listProviders(t *testing.T, path string) []providerJSON {
	t.Helper()
	out, _, err := execute(t, "", "--config", path, "providers:list")
	require.NoError(t, err)
	var got []providerJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	return got
}

func TestProvidersList(t *testing.T) {
	path := writeConfig(t, "operators:\n  enabled: [\"%\"]\n")

	got := listProviders(t, path)

	require.Len(t, got, 3)
	require.Equal(t, []string{"add", "subtract", "mod"}, []string{got[0].Name, got[1].Name, got[2].Name})
	require.False(t, got[0].Enabled)
	require.False(t, got[1].Enabled)
	require.True(t, got[2].Enabled)
}

func TestProvidersDisableThenEnable(t *testing.T) {
	path := writeConfig(t, baseConfig)

	out, _, err := execute(t, "", "--config", path, "providers:disable", "%")
	require.NoError(t, err)
	require.Equal(t, "enabled: [add subtract]\n", out)

	out, _, err = execute(t, "", "--config", path, "calc", "10%3")
	require.NoError(t, err)
	require.Equal(t, "Operation Not Found!\n", out)

	_, _, err = execute(t, "", "--config", path, "providers:enable", "mod")
	require.NoError(t, err)

	out, _, err = execute(t, "", "--config", path, "calc", "10%3")
	require.NoError(t, err)
	require.Equal(t, "1\n", out)
}

func TestProvidersEnable_Unknown(t *testing.T) {
	path := writeConfig(t, baseConfig)

	_, _, err := execute(t, "", "--config", path, "providers:enable", "pow")

	require.ErrorContains(t, err, `"pow"`)
}

func TestProvidersDisable_LastProvider(t *testing.T) {
	path := writeConfig(t, "operators:\n  enabled: [add]\n")

	_, _, err := execute(t, "", "--config", path, "providers:disable", "+")

	require.ErrorContains(t, err, "last enabled provider")
}

// ===========================================================================
// history
// ===========================================================================

func TestHistory_RecordsCalculations(t *testing.T) {
	path := writeConfig(t, baseConfig+`history:
  path: $DIR/history.db
flags:
  history-persistence: true
`)

	_, _, err := execute(t, "", "--config", path, "calc", "3+4", "5*2")
	require.NoError(t, err)

	out, _, err := execute(t, "", "--config", path, "history", "--limit", "10")
	require.NoError(t, err)

	var got []struct {
		Command string `json:"command"`
		Outcome string `json:"outcome"`
		Result  *int   `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	byCommand := map[string]string{got[0].Command: got[0].Outcome, got[1].Command: got[1].Outcome}
	require.Equal(t, "ok", byCommand["3+4"])
	require.Equal(t, "not_found", byCommand["5*2"])
}

func TestHistory_NotRecordedWhenFlagOff(t *testing.T) {
	path := writeConfig(t, baseConfig+"history:\n  path: $DIR/history.db\n")

	_, _, err := execute(t, "", "--config", path, "calc", "3+4")
	require.NoError(t, err)

	out, _, err := execute(t, "", "--config", path, "history")
	require.NoError(t, err)
	require.Equal(t, "[]\n", out)
}
