package cli

import (
	"fmt"
	"io"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/auth"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/lexical"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/markdown"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/slug"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/storage"
	"github.com/custodia-labs/markdown-graph/internal/connectors"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/core/services"
	"github.com/custodia-labs/markdown-graph/internal/logger"
)

// components holds the adapters a command needs.
type components struct {
	settings domain.Settings
	dir      string
	repo     driven.DocumentRepository
	parser   driven.MarkdownParser
	slugger  driven.Slugger
	linker   driven.ImplicitLinker
	store    driven.GraphStore
}

// newComponents builds the repository and parsing adapters for dir.
// The graph store is opened only when withStore is set.
func newComponents(settings domain.Settings, dir string, withStore bool) (*components, error) {
	repo, err := connectors.NewRepository(settings.Repository, dir,
		connectors.WithTokenProvider(auth.NewEnvTokenProvider(auth.GitHubTokenEnv)),
	)
	if err != nil {
		return nil, err
	}
	logger.Debug("Reading %s", repo.Description())

	c := &components{
		settings: settings,
		dir:      dir,
		repo:     repo,
		parser:   markdown.New(),
		slugger:  slug.New(),
	}
	if settings.Graph.ImplicitLinks {
		c.linker = lexical.New()
	}

	if withStore {
		store, err := storage.NewGraphStore(settings.Output, dir)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		c.store = store
	}
	return c, nil
}

// graphService returns a one-shot graph service over the components.
func (c *components) graphService(opts ...services.GraphServiceOption) *services.GraphService {
	opts = append([]services.GraphServiceOption{
		services.WithAssemblerOptions(services.OptionsFromSettings(c.settings.Graph)...),
		services.WithConcurrency(c.settings.Graph.Concurrency),
	}, opts...)
	return services.NewGraphService(c.repo, c.parser, c.slugger, c.linker, c.store, opts...)
}

// graphIndex returns an incremental index over the components.
func (c *components) graphIndex(metrics driven.MetricsRecorder) *services.GraphIndex {
	return services.NewGraphIndex(c.repo, c.parser, c.slugger, c.linker, metrics,
		services.OptionsFromSettings(c.settings.Graph)...)
}

// Close releases the graph store if it holds resources.
func (c *components) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
