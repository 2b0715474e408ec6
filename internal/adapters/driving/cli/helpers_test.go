package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// resetCommands restores every flag of cmd and its children to its
// default and clears their contexts so state does not leak between tests
// sharing rootCmd. Cobra only hands the root context to a subcommand
// whose own context is nil, so a cancelled context from an earlier run
// would otherwise be reused.
func resetCommands(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	//nolint:staticcheck // a nil context lets cobra propagate the next root context
	cmd.SetContext(nil)
	for _, child := range cmd.Commands() {
		resetCommands(child)
	}
}

// executeCommand runs rootCmd with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommands(rootCmd)
	t.Setenv(OutputEnv, "")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeCorpus creates a small corpus and returns its directory.
func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"foo.md": "# Foo\n\nSee [the bar](./bar.md).\n\n## Usage\n\nRun it.\n",
		"bar.md": "# Bar\n\nBack to [[foo]].\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// readGraph decodes a JSON graph file.
func readGraph(t *testing.T, path string) domain.Graph {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var g domain.Graph
	require.NoError(t, json.Unmarshal(data, &g))
	return g
}

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
