package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

func TestStatsCmd_Use(t *testing.T) {
	assert.Equal(t, "stats [dir]", statsCmd.Use)
}

func TestStatsCmd_Text(t *testing.T) {
	dir := writeCorpus(t)

	out, err := executeCommand(t, "stats", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Nodes:")
	assert.Contains(t, out, "Links:")
	assert.Contains(t, out, "Documents:")
}

func TestStatsCmd_JSON(t *testing.T) {
	dir := writeCorpus(t)

	out, err := executeCommand(t, "stats", dir, "--json", "--no-implicit")
	require.NoError(t, err)

	var summary graphSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 3, summary.NodeCount)
	assert.Equal(t, 2, summary.Documents)
	assert.Equal(t, 2, summary.LinkCount)
	assert.Equal(t, 0, summary.DanglingLinks)
}

func TestStatsCmd_Saved(t *testing.T) {
	t.Run("requires a saved graph", func(t *testing.T) {
		dir := writeCorpus(t)

		_, err := executeCommand(t, "stats", dir, "--saved")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "run generate first")
	})

	t.Run("reads the output file", func(t *testing.T) {
		dir := writeCorpus(t)
		_, err := executeCommand(t, "generate", dir, "--no-sections", "--no-implicit")
		require.NoError(t, err)

		out, err := executeCommand(t, "stats", dir, "--saved", "--json")
		require.NoError(t, err)

		var summary graphSummary
		require.NoError(t, json.Unmarshal([]byte(out), &summary))
		assert.Equal(t, 2, summary.NodeCount)
	})
}

func TestSummarise(t *testing.T) {
	g := domain.NewGraph()
	g.Nodes["a"] = domain.Node{ID: "a"}
	g.Nodes["a#intro"] = domain.Node{ID: "a#intro"}
	g.Nodes["b"] = domain.Node{ID: "b"}
	g.Links = []domain.Link{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "missing"},
		{Source: "b", Target: "gone#part"},
	}

	summary := summarise(g)

	assert.Equal(t, domain.Stats{NodeCount: 3, LinkCount: 3}, summary.Stats)
	assert.Equal(t, 2, summary.Documents)
	assert.Equal(t, 2, summary.DanglingLinks)
}
