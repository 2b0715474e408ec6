package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.DocumentProcessed(domain.ReferenceFile)
	r.DocumentProcessed(domain.ReferenceFile)
	r.DocumentProcessed(domain.ReferenceGitHub)
	r.DocumentFailed(domain.ReferenceFile)
	r.DocumentRemoved()
	r.GraphSize(domain.Stats{NodeCount: 7, LinkCount: 11})
	r.GraphSaved(0.02)

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"processed file", testutil.ToFloat64(r.processed.WithLabelValues("file")), 2},
		{"processed github", testutil.ToFloat64(r.processed.WithLabelValues("github")), 1},
		{"failed file", testutil.ToFloat64(r.failed.WithLabelValues("file")), 1},
		{"removed", testutil.ToFloat64(r.removed), 1},
		{"nodes", testutil.ToFloat64(r.nodes), 7},
		{"links", testutil.ToFloat64(r.links), 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}

	t.Run("save histogram", func(t *testing.T) {
		count, err := testutil.GatherAndCount(reg, "markdown_graph_save_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestNewRecorder_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)

	assert.Panics(t, func() { NewRecorder(reg) })
}

func TestServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.GraphSize(domain.Stats{NodeCount: 3, LinkCount: 2})

	srv, err := Listen("127.0.0.1:0", reg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		body = string(data)
		return true
	}, 2*time.Second, 20*time.Millisecond)

	assert.Contains(t, body, "markdown_graph_nodes 3")
	assert.Contains(t, body, "markdown_graph_links 2")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListen_InvalidAddress(t *testing.T) {
	_, err := Listen("not-an-address", nil)
	assert.Error(t, err)
}
