package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/logger"
	"github.com/custodia-labs/markdown-graph/internal/normalisers"
	"github.com/custodia-labs/markdown-graph/internal/normalisers/markdown"
)

// Ensure Repository implements the interface.
var _ driven.DocumentRepository = (*Repository)(nil)

const markdownExt = ".md"

// DefaultBlobCacheSize is the number of decoded blobs kept in memory.
const DefaultBlobCacheSize = 1024

// Option configures a Repository.
type Option func(*Repository)

// WithNormaliser sets the normaliser applied to loaded content.
func WithNormaliser(n driven.Normaliser) Option {
	return func(r *Repository) {
		r.normaliser = n
	}
}

// WithBlobCacheSize sets how many decoded blobs are kept. Zero disables the cache.
func WithBlobCacheSize(n int) Option {
	return func(r *Repository) {
		r.blobCacheSize = n
	}
}

// Repository serves the markdown blobs of a GitHub repository tree.
// Document IDs are derived from the blob path the same way as for
// files on disk, so a cloned repository and its GitHub tree produce
// the same graph.
type Repository struct {
	cfg        Config
	client     *Client
	normaliser driven.Normaliser

	// Blobs are content addressed, so a SHA never goes stale.
	blobCacheSize int
	blobs         *lru.Cache[string, []byte]

	mu   sync.RWMutex
	refs map[string]domain.DocumentReference
}

// New creates a repository for cfg using client for API calls.
func New(cfg Config, client *Client, opts ...Option) *Repository {
	if cfg.Excludes == nil {
		cfg.Excludes = domain.DefaultExcludes()
	}
	r := &Repository{
		cfg:        cfg,
		client:     client,
		normaliser: markdown.New(),
		refs:       make(map[string]domain.DocumentReference),

		blobCacheSize: DefaultBlobCacheSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.blobCacheSize > 0 {
		// Only a non-positive size fails.
		r.blobs, _ = lru.New[string, []byte](r.blobCacheSize)
	}
	return r
}

// Kind returns the reference kind this repository produces.
func (r *Repository) Kind() domain.ReferenceKind {
	return domain.ReferenceGitHub
}

// Description returns a human-readable name for log messages.
func (r *Repository) Description() string {
	if r.cfg.Ref != "" {
		return fmt.Sprintf("github repository %s@%s", r.cfg.FullName(), r.cfg.Ref)
	}
	return "github repository " + r.cfg.FullName()
}

// Enumerate lists the repository tree and emits a reference for every
// markdown blob, in path order.
//
// A repository that cannot be read is reported as
// domain.ErrRepositoryConfiguration on the error channel.
func (r *Repository) Enumerate(ctx context.Context) (<-chan domain.DocumentReference, <-chan error) {
	out := make(chan domain.DocumentReference)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		refs, err := r.list(ctx)
		if err != nil {
			select {
			case errs <- err:
			default:
			}
			return
		}

		for _, ref := range refs {
			select {
			case out <- ref:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}

// list reads the tree and refreshes the reference cache.
func (r *Repository) list(ctx context.Context) ([]domain.DocumentReference, error) {
	ref, err := r.resolveRef(ctx)
	if err != nil {
		return nil, err
	}

	tree, err := r.client.GetTree(ctx, r.cfg.Owner, r.cfg.Repo, ref)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s has no ref %q", domain.ErrRepositoryConfiguration, r.cfg.FullName(), ref)
		}
		return nil, fmt.Errorf("list %s: %w", r.Description(), err)
	}
	if tree.GetTruncated() {
		logger.Warn("Tree of %s is truncated; some documents are missing", r.cfg.FullName())
	}

	refs := make([]domain.DocumentReference, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" || !r.isCandidate(entry.GetPath()) {
			continue
		}
		refs = append(refs, r.reference(entry.GetPath(), ref, entry.GetSHA()))
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })

	cache := make(map[string]domain.DocumentReference, len(refs))
	for _, ref := range refs {
		cache[ref.ID] = ref
	}
	r.mu.Lock()
	r.refs = cache
	r.mu.Unlock()

	logger.Debug("Listed %d markdown files in %s@%s", len(refs), r.cfg.FullName(), ref)
	return refs, nil
}

// resolveRef returns the configured ref or the default branch.
func (r *Repository) resolveRef(ctx context.Context) (string, error) {
	if r.cfg.Ref != "" {
		return r.cfg.Ref, nil
	}
	repo, err := r.client.GetRepository(ctx, r.cfg.Owner, r.cfg.Repo)
	if err != nil {
		if IsNotFound(err) || IsUnauthorized(err) {
			return "", fmt.Errorf("%w: %s: %v", domain.ErrRepositoryConfiguration, ErrRepoNotFound, err)
		}
		return "", fmt.Errorf("resolve default branch: %w", err)
	}
	if branch := repo.GetDefaultBranch(); branch != "" {
		return branch, nil
	}
	return "HEAD", nil
}

func (r *Repository) reference(blobPath, ref, sha string) domain.DocumentReference {
	return domain.DocumentReference{
		Kind: domain.ReferenceGitHub,
		ID:   normalisers.DocumentID(blobPath),
		Hash: normalisers.Fingerprint(r.cfg.FullName() + "/" + blobPath),
		Path: blobPath,
		Repo: r.cfg.FullName(),
		Ref:  ref,
		SHA:  sha,
	}
}

// Load fetches and normalises the blob for ref.
// References without a blob SHA are looked up in the last listing.
func (r *Repository) Load(ctx context.Context, ref domain.DocumentReference) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ref.Kind != domain.ReferenceGitHub {
		return nil, fmt.Errorf("%w: %s reference in github repository", domain.ErrUnsupportedType, ref.Kind)
	}

	if ref.SHA == "" {
		cached, ok := r.cached(ref.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s", domain.ErrDocumentNotFound, ref.ID, r.Description())
		}
		ref = cached
	}

	content, err := r.blobContent(ctx, ref)
	if err != nil {
		return nil, err
	}
	return r.normaliser.Normalise(ref, content), nil
}

// blobContent returns the decoded blob for ref, from the cache when possible.
func (r *Repository) blobContent(ctx context.Context, ref domain.DocumentReference) ([]byte, error) {
	if r.blobs != nil {
		if content, ok := r.blobs.Get(ref.SHA); ok {
			logger.Debug("Blob cache hit for %s", ref.Path)
			return content, nil
		}
	}

	blob, err := r.client.GetBlob(ctx, r.cfg.Owner, r.cfg.Repo, ref.SHA)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s in %s", domain.ErrFileNotFound, ref.Path, r.Description())
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMarkdownParsing, ref.Path, err)
	}

	content, err := decodeBlob(blob.GetContent(), blob.GetEncoding())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMarkdownParsing, ref.Path, err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrMarkdownParsing, ref.Path)
	}

	if r.blobs != nil {
		r.blobs.Add(ref.SHA, content)
	}
	return content, nil
}

// Reference resolves a document ID or tree path from the last listing.
func (r *Repository) Reference(name string) (domain.DocumentReference, error) {
	if name == "" {
		return domain.DocumentReference{}, fmt.Errorf("%w: empty document name", domain.ErrInvalidInput)
	}

	id := strings.ToLower(name)
	if strings.EqualFold(path.Ext(name), markdownExt) {
		id = normalisers.DocumentID(strings.TrimPrefix(name, "/"))
	}
	if ref, ok := r.cached(id); ok {
		return ref, nil
	}
	return domain.DocumentReference{}, fmt.Errorf("%w: %s in %s", domain.ErrDocumentNotFound, name, r.Description())
}

func (r *Repository) cached(id string) (domain.DocumentReference, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.refs[id]
	return ref, ok
}

// isCandidate reports whether a tree path is a markdown file outside
// hidden and excluded directories.
func (r *Repository) isCandidate(blobPath string) bool {
	if !strings.EqualFold(path.Ext(blobPath), markdownExt) {
		return false
	}
	for _, part := range strings.Split(blobPath, "/") {
		if !r.cfg.IncludeHidden && strings.HasPrefix(part, ".") {
			return false
		}
		if r.isExcluded(part) {
			return false
		}
	}
	return true
}

func (r *Repository) isExcluded(name string) bool {
	for _, pattern := range r.cfg.Excludes {
		if pattern == name {
			return true
		}
		if matched, err := path.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// decodeBlob decodes blob content. GitHub wraps base64 content in lines.
func decodeBlob(content, encoding string) ([]byte, error) {
	if encoding == "base64" {
		content = strings.ReplaceAll(content, "\n", "")
		return base64.StdEncoding.DecodeString(content)
	}
	return []byte(content), nil
}
