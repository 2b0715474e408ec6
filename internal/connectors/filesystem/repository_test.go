package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func collectIDs(t *testing.T, repo *Repository) []string {
	t.Helper()
	refs, errs := repo.Enumerate(context.Background())
	var ids []string
	for ref := range refs {
		ids = append(ids, ref.ID)
	}
	for err := range errs {
		t.Logf("enumerate error: %v", err)
	}
	sort.Strings(ids)
	return ids
}

func TestNew(t *testing.T) {
	t.Run("creates repository for existing directory", func(t *testing.T) {
		dir := t.TempDir()

		repo, err := New(dir)

		require.NoError(t, err)
		require.NotNil(t, repo)
		assert.Equal(t, domain.ReferenceFile, repo.Kind())
		assert.Contains(t, repo.Description(), "file repository at ")
	})

	t.Run("implements DocumentRepository interface", func(t *testing.T) {
		repo, err := New(t.TempDir())
		require.NoError(t, err)
		var _ driven.DocumentRepository = repo
	})

	t.Run("returns error for missing directory", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, domain.ErrDirectoryNotFound)
	})

	t.Run("returns error when path is a file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "file.md", "x")
		_, err := New(path)
		assert.ErrorIs(t, err, domain.ErrDirectoryNotFound)
	})
}

func TestRepository_Enumerate(t *testing.T) {
	t.Run("finds markdown files recursively", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "foo.md", "# Foo")
		writeFile(t, dir, "notes/Sub/Bar.md", "# Bar")
		writeFile(t, dir, "notes/readme.txt", "not markdown")

		repo, err := New(dir)
		require.NoError(t, err)

		assert.Equal(t, []string{"foo", "notes-sub-bar"}, collectIDs(t, repo))
	})

	t.Run("skips hidden and excluded directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "visible.md", "x")
		writeFile(t, dir, ".hidden.md", "x")
		writeFile(t, dir, ".obsidian/config.md", "x")
		writeFile(t, dir, "node_modules/pkg/readme.md", "x")
		writeFile(t, dir, "dist/out.md", "x")

		repo, err := New(dir)
		require.NoError(t, err)

		assert.Equal(t, []string{"visible"}, collectIDs(t, repo))
	})

	t.Run("includes hidden files when enabled", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "visible.md", "x")
		writeFile(t, dir, ".obsidian/config.md", "x")

		repo, err := New(dir, WithHidden(true))
		require.NoError(t, err)

		assert.Equal(t, []string{".obsidian-config", "visible"}, collectIDs(t, repo))
	})

	t.Run("custom excludes support patterns", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "keep/a.md", "x")
		writeFile(t, dir, "archive-2020/b.md", "x")
		writeFile(t, dir, "node_modules/c.md", "x")

		repo, err := New(dir, WithExcludes([]string{"archive-*"}))
		require.NoError(t, err)

		assert.Equal(t, []string{"keep-a", "node_modules-c"}, collectIDs(t, repo))
	})

	t.Run("empty directory", func(t *testing.T) {
		repo, err := New(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, collectIDs(t, repo))
	})

	t.Run("handles cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		for i := 0; i < 10; i++ {
			writeFile(t, dir, filepath.Join("d", string(rune('a'+i))+".md"), "x")
		}
		repo, err := New(dir)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		refs, errs := repo.Enumerate(ctx)
		for range refs {
		}
		for range errs {
		}
	})

	t.Run("references carry relative paths and hashes", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "notes/Foo.md", "x")
		repo, err := New(dir)
		require.NoError(t, err)

		refs, errs := repo.Enumerate(context.Background())
		var got []domain.DocumentReference
		for ref := range refs {
			got = append(got, ref)
		}
		for range errs {
		}

		require.Len(t, got, 1)
		assert.Equal(t, domain.ReferenceFile, got[0].Kind)
		assert.Equal(t, "notes/Foo.md", got[0].Path)
		assert.NotEmpty(t, got[0].Hash)
	})
}

func TestRepository_Load(t *testing.T) {
	t.Run("loads and normalises content", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "foo.md", "---\ntags: [a, b]\n---\n# Foo\n\nfoo content")
		repo, err := New(dir)
		require.NoError(t, err)

		ref, err := repo.Reference("foo.md")
		require.NoError(t, err)
		doc, err := repo.Load(context.Background(), ref)

		require.NoError(t, err)
		assert.Equal(t, "foo", doc.ID)
		assert.Equal(t, "# Foo\n\nfoo content", doc.Content)
		assert.Equal(t, map[string]string{"tags": "a,b"}, doc.Metadata)
	})

	t.Run("missing file", func(t *testing.T) {
		repo, err := New(t.TempDir())
		require.NoError(t, err)

		ref, err := repo.Reference("gone.md")
		require.NoError(t, err)
		_, err = repo.Load(context.Background(), ref)

		assert.ErrorIs(t, err, domain.ErrFileNotFound)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.md", string([]byte{0xff, 0xfe, 0xfd}))
		repo, err := New(dir)
		require.NoError(t, err)

		ref, err := repo.Reference("bad.md")
		require.NoError(t, err)
		_, err = repo.Load(context.Background(), ref)

		assert.ErrorIs(t, err, domain.ErrMarkdownParsing)
	})

	t.Run("rejects other reference kinds", func(t *testing.T) {
		repo, err := New(t.TempDir())
		require.NoError(t, err)

		_, err = repo.Load(context.Background(), domain.DocumentReference{Kind: domain.ReferenceMemory, ID: "x"})

		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "foo.md", "x")
		repo, err := New(dir)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ref, err := repo.Reference("foo.md")
		require.NoError(t, err)
		_, err = repo.Load(ctx, ref)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRepository_Reference(t *testing.T) {
	dir := t.TempDir()
	abs := writeFile(t, dir, "notes/Sub/Foo.md", "x")
	writeFile(t, dir, "bar.md", "x")
	repo, err := New(dir)
	require.NoError(t, err)

	tests := []struct {
		name   string
		input  string
		wantID string
	}{
		{"relative path", "notes/Sub/Foo.md", "notes-sub-foo"},
		{"absolute path", abs, "notes-sub-foo"},
		{"document id", "notes-sub-foo", "notes-sub-foo"},
		{"plain id", "bar", "bar"},
		{"id is case insensitive", "BAR", "bar"},
		{"deleted file by path", "deleted.md", "deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := repo.Reference(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, domain.ReferenceFile, ref.Kind)
		})
	}

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.Reference("missing")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := repo.Reference("")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("path outside root", func(t *testing.T) {
		_, err := repo.Reference(filepath.Join(filepath.Dir(dir), "elsewhere.md"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRepository_Ignored(t *testing.T) {
	dir := t.TempDir()
	repo, err := New(dir)
	require.NoError(t, err)

	tests := []struct {
		name     string
		rel      string
		expected bool
	}{
		{"plain file", "foo.md", false},
		{"nested file", "a/b/foo.md", false},
		{"hidden file", ".foo.md", true},
		{"hidden directory", ".git/config.md", true},
		{"excluded directory", "node_modules/x/readme.md", true},
		{"dot in name", "file.name.md", false},
		{"root", ".", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repo.ignored(filepath.Join(dir, filepath.FromSlash(tt.rel))))
		})
	}
}
