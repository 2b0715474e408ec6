// Package filesystem reads markdown documents from a directory tree and
// watches it for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/normalisers"
	"github.com/custodia-labs/markdown-graph/internal/normalisers/markdown"
)

// Ensure Repository implements the interface.
var _ driven.DocumentRepository = (*Repository)(nil)

// markdownExt is the only file extension the repository reads.
const markdownExt = ".md"

// Option configures a Repository.
type Option func(*Repository)

// WithExcludes replaces the excluded directory names.
// Entries may be plain names or filepath.Match patterns.
func WithExcludes(excludes []string) Option {
	return func(r *Repository) {
		r.excludes = append([]string(nil), excludes...)
	}
}

// WithHidden includes hidden files and directories when enabled.
func WithHidden(include bool) Option {
	return func(r *Repository) {
		r.includeHidden = include
	}
}

// WithNormaliser sets the normaliser applied to loaded content.
func WithNormaliser(n driven.Normaliser) Option {
	return func(r *Repository) {
		r.normaliser = n
	}
}

// Repository serves the markdown files below a root directory.
// Document IDs are derived from the path relative to the root with
// normalisers.DocumentID.
type Repository struct {
	root          string
	excludes      []string
	includeHidden bool
	normaliser    driven.Normaliser
}

// New creates a repository rooted at dir.
// Returns domain.ErrDirectoryNotFound if dir is missing or not a directory.
func New(dir string, opts ...Option) (*Repository, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDirectoryNotFound, dir, err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrDirectoryNotFound, dir)
	}

	r := &Repository{
		root:       root,
		excludes:   domain.DefaultExcludes(),
		normaliser: markdown.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Root returns the absolute root directory.
func (r *Repository) Root() string {
	return r.root
}

// Kind returns the reference kind this repository produces.
func (r *Repository) Kind() domain.ReferenceKind {
	return domain.ReferenceFile
}

// Description returns a human-readable name for log messages.
func (r *Repository) Description() string {
	return "file repository at " + r.root
}

// Enumerate walks the root and emits a reference for every markdown file.
// Unreadable directories are reported on the error channel and skipped.
func (r *Repository) Enumerate(ctx context.Context) (<-chan domain.DocumentReference, <-chan error) {
	refs := make(chan domain.DocumentReference)
	errs := make(chan error, 1)

	go func() {
		defer close(refs)
		defer close(errs)

		err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				select {
				case errs <- fmt.Errorf("read %s: %w", path, walkErr):
				default:
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != r.root && r.skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !r.isCandidate(d.Name()) {
				return nil
			}

			ref, err := r.referenceForPath(path)
			if err != nil {
				return nil
			}
			select {
			case refs <- ref:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			select {
			case errs <- err:
			default:
			}
		}
	}()

	return refs, errs
}

// Load reads and normalises the referenced file.
func (r *Repository) Load(ctx context.Context, ref domain.DocumentReference) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ref.Kind != domain.ReferenceFile {
		return nil, fmt.Errorf("%w: %s reference in file repository", domain.ErrUnsupportedType, ref.Kind)
	}

	path := filepath.Join(r.root, filepath.FromSlash(ref.Path))
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMarkdownParsing, ref.Path, err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s: invalid UTF-8", domain.ErrMarkdownParsing, ref.Path)
	}

	return r.normaliser.Normalise(ref, content), nil
}

// Reference resolves a file path or document ID.
//
// Paths may be absolute or relative to the root and need not exist, so
// references to deleted files still resolve to their former ID.
func (r *Repository) Reference(name string) (domain.DocumentReference, error) {
	if name == "" {
		return domain.DocumentReference{}, fmt.Errorf("%w: empty document name", domain.ErrInvalidInput)
	}

	if filepath.IsAbs(name) || strings.EqualFold(filepath.Ext(name), markdownExt) {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.root, path)
		}
		return r.referenceForPath(path)
	}

	id := strings.ToLower(name)
	direct := filepath.Join(r.root, filepath.FromSlash(name)+markdownExt)
	if _, err := os.Stat(direct); err == nil {
		if ref, err := r.referenceForPath(direct); err == nil && ref.ID == id {
			return ref, nil
		}
	}

	refs, errs := r.Enumerate(context.Background())
	var found *domain.DocumentReference
	for ref := range refs {
		if found == nil && ref.ID == id {
			matched := ref
			found = &matched
		}
	}
	for range errs {
	}
	if found != nil {
		return *found, nil
	}
	return domain.DocumentReference{}, fmt.Errorf("%w: %s in %s", domain.ErrDocumentNotFound, name, r.Description())
}

// referenceForPath builds the reference for an absolute path below root.
func (r *Repository) referenceForPath(path string) (domain.DocumentReference, error) {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return domain.DocumentReference{}, fmt.Errorf("%w: %s is outside %s", domain.ErrInvalidInput, path, r.root)
	}
	slashed := filepath.ToSlash(rel)
	return domain.DocumentReference{
		Kind: domain.ReferenceFile,
		ID:   normalisers.DocumentID(slashed),
		Hash: normalisers.Fingerprint(slashed),
		Path: slashed,
	}, nil
}

func (r *Repository) isCandidate(name string) bool {
	if !r.includeHidden && isHiddenName(name) {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), markdownExt)
}

func (r *Repository) skipDir(name string) bool {
	if !r.includeHidden && isHiddenName(name) {
		return true
	}
	return r.isExcluded(name)
}

func (r *Repository) isExcluded(name string) bool {
	for _, pattern := range r.excludes {
		if pattern == name {
			return true
		}
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// ignored reports whether an absolute path lies in a hidden or excluded
// directory, or is itself hidden.
func (r *Repository) ignored(path string) bool {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
		if !r.includeHidden && isHiddenName(part) {
			return true
		}
		if r.isExcluded(part) {
			return true
		}
	}
	return false
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
