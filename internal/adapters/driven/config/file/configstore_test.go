package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, FileName), store.Path())
	assert.NoFileExists(t, store.Path(), "the file is only written on save")
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, FileName), store.Path())
}

func TestNewConfigStore_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, ok := store.Get("output.path")
	assert.False(t, ok)
	assert.NoDirExists(t, dir)
}

func TestConfigStore_ReadsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[output]
path = "graph.json"
format = "json"

[repository]
excludes = ["vendor", "dist"]
include_hidden = true

[graph]
concurrency = 4
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0644))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "graph.json", store.GetString("output.path"))
	assert.Equal(t, "json", store.GetString("output.format"))
	assert.Equal(t, []string{"vendor", "dist"}, store.GetStringSlice("repository.excludes"))
	assert.True(t, store.GetBool("repository.include_hidden"))
	assert.Equal(t, 4, store.GetInt("graph.concurrency"))
}

func TestConfigStore_Getters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("s", "hello"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("list", []string{"a", "b"}))

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"string", store.GetString("s"), "hello"},
		{"string wrong type", store.GetString("i"), ""},
		{"string missing", store.GetString("nope"), ""},
		{"int", store.GetInt("i"), 42},
		{"int wrong type", store.GetInt("s"), 0},
		{"bool", store.GetBool("b"), true},
		{"bool wrong type", store.GetBool("s"), false},
		{"slice", store.GetStringSlice("list"), []string{"a", "b"}},
		{"slice wrong type", store.GetStringSlice("s"), []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("output.path", "out.json"))
	require.NoError(t, store1.Set("graph.concurrency", 16))
	require.NoError(t, store1.Set("graph.sections", false))
	require.NoError(t, store1.Set("repository.excludes", []string{"build"}))

	// The file uses tables, not quoted dotted keys.
	data, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[output]")
	assert.Contains(t, string(data), "[graph]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "out.json", store2.GetString("output.path"))
	assert.Equal(t, 16, store2.GetInt("graph.concurrency"))
	assert.False(t, store2.GetBool("graph.sections"))
	_, ok := store2.Get("graph.sections")
	assert.True(t, ok)
	assert.Equal(t, []string{"build"}, store2.GetStringSlice("repository.excludes"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte("# Just a comment\n\n"), 0644))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
			_ = store.GetBool(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

// TestNewConfigStore_LoadCorruptedFile tests error handling when loading corrupted TOML
func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte("this is not valid TOML {{{[["), 0644))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Set_WriteError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("graph.sections", true))

	// A directory in place of the file makes every write fail.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	t.Run("new key is not kept", func(t *testing.T) {
		assert.Error(t, store.Set("output.path", "out.json"))
		_, ok := store.Get("output.path")
		assert.False(t, ok)
	})

	t.Run("existing key keeps its value", func(t *testing.T) {
		assert.Error(t, store.Set("graph.sections", false))
		assert.True(t, store.GetBool("graph.sections"))
	})
}

func TestConfigStore_Set_TableConflict(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("output.path", "out.json"))

	assert.Error(t, store.Set("output", "flat"))
	assert.Equal(t, []string{"output.path"}, store.Keys())
}

func TestConfigStore_Keys(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[watch]
debounce_ms = 150

[graph]
sections = false
link_attribution = "section"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0644))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"graph.link_attribution", "graph.sections", "watch.debounce_ms"}, store.Keys())
	assert.Equal(t, 150, store.GetInt("watch.debounce_ms"))
}

func TestConfigStore_Keys_Empty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, store.Keys())
}

// TestConfigStore_SetWithUnmarshallableValue tests error handling with values that can't be marshaled
func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	// Channels cannot be marshaled to TOML
	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestUnflattenMap(t *testing.T) {
	t.Run("nests dotted keys", func(t *testing.T) {
		got, err := unflattenMap(map[string]any{
			"output.path":   "a.json",
			"output.format": "json",
			"top":           1,
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"output": map[string]any{"path": "a.json", "format": "json"},
			"top":    1,
		}, got)
	})

	t.Run("value and table conflict", func(t *testing.T) {
		_, err := unflattenMap(map[string]any{"output": "x", "output.path": "y"})
		assert.Error(t, err)
	})

	t.Run("inverse of flatten", func(t *testing.T) {
		flat := map[string]any{"a.b.c": true, "a.d": "x"}
		nested, err := unflattenMap(flat)
		require.NoError(t, err)
		assert.Equal(t, flat, flattenMap(nested, ""))
	})
}
