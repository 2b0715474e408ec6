package connectors

import (
	"fmt"
	"time"

	"github.com/custodia-labs/markdown-graph/internal/connectors/filesystem"
	"github.com/custodia-labs/markdown-graph/internal/connectors/github"
	"github.com/custodia-labs/markdown-graph/internal/connectors/memory"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Option configures NewRepository.
type Option func(*options)

type options struct {
	content       map[string]string
	tokenProvider driven.TokenProvider
	githubBaseURL string
}

// WithContent supplies the documents of a memory repository.
func WithContent(content map[string]string) Option {
	return func(o *options) {
		o.content = content
	}
}

// WithTokenProvider sets the token used for GitHub requests.
func WithTokenProvider(p driven.TokenProvider) Option {
	return func(o *options) {
		o.tokenProvider = p
	}
}

// WithGitHubBaseURL points GitHub repositories at another API endpoint.
func WithGitHubBaseURL(u string) Option {
	return func(o *options) {
		o.githubBaseURL = u
	}
}

// NewRepository builds the repository described by settings. dir is the
// corpus root for file repositories and is ignored otherwise.
//
// Returns an error wrapping domain.ErrRepositoryConfiguration when the
// kind is unknown or its input is missing or malformed.
func NewRepository(settings domain.RepositorySettings, dir string, opts ...Option) (driven.DocumentRepository, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	excludes := settings.Excludes
	if excludes == nil {
		excludes = domain.DefaultExcludes()
	}

	switch settings.Kind {
	case domain.RepositoryFile, "":
		if dir == "" {
			return nil, fmt.Errorf("%w: file repository needs a directory", domain.ErrRepositoryConfiguration)
		}
		repo, err := filesystem.New(dir,
			filesystem.WithExcludes(excludes),
			filesystem.WithHidden(settings.IncludeHidden),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRepositoryConfiguration, err)
		}
		return repo, nil

	case domain.RepositoryMemory:
		if o.content == nil {
			return nil, fmt.Errorf("%w: memory repository needs content", domain.ErrRepositoryConfiguration)
		}
		return memory.New(o.content), nil

	case domain.RepositoryGitHub:
		cfg, err := github.ParseRepoSpec(settings.GitHub)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRepositoryConfiguration, err)
		}
		cfg.Excludes = excludes
		cfg.IncludeHidden = settings.IncludeHidden

		var clientOpts []github.ClientOption
		if o.githubBaseURL != "" {
			clientOpts = append(clientOpts, github.WithBaseURL(o.githubBaseURL))
		}
		return github.New(cfg, github.NewClient(o.tokenProvider, clientOpts...)), nil

	default:
		return nil, fmt.Errorf("%w: unknown repository kind %q", domain.ErrRepositoryConfiguration, settings.Kind)
	}
}

// NewWatcher returns the change watcher for repo.
// Returns domain.ErrUnsupportedType for repositories that cannot be watched.
func NewWatcher(repo driven.DocumentRepository, debounce time.Duration) (driven.ChangeWatcher, error) {
	switch r := repo.(type) {
	case *filesystem.Repository:
		return filesystem.NewWatcher(r, debounce), nil
	case *memory.Repository:
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %s cannot be watched", domain.ErrUnsupportedType, repo.Description())
	}
}
