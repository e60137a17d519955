package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nanaki-93/grit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWorkspaceRegistry_Initialize(t *testing.T) {
	t.Run("fresh directory", func(t *testing.T) {
		root, reg := setupWorkspace(t)

		doc, err := reg.Load()
		require.NoError(t, err)
		assert.Equal(t, root, doc.Root)
		assert.True(t, doc.IgnoreRoot)
		assert.Empty(t, doc.Repositories)
		assert.Equal(t, model.CurrentVersion, doc.Version)
	})

	t.Run("second call leaves document unchanged", func(t *testing.T) {
		root, reg := setupWorkspace(t)
		setupRepo(t, root, "lib")
		_, err := reg.AddRepository("lib", "")
		require.NoError(t, err)
		before := readRaw(t, reg)

		created, err := reg.Initialize(root)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, before, readRaw(t, reg))
	})

	t.Run("missing directory", func(t *testing.T) {
		reg := NewRegistry(t.TempDir(), &DefaultLogger{})
		_, err := reg.Initialize("/nonexistent/path")
		assert.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, err := NewRegistry(dir, &DefaultLogger{}).Initialize(file)
		assert.ErrorIs(t, err, ErrNotADirectory)
	})
}

func TestWorkspaceRegistry_Load(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "current format",
			content: "version: 1\nroot: /ws\nignore_root: true\nrepositories:\n  - name: a\n    path: a\n",
		},
		{
			name:    "missing version is read as current",
			content: "root: /ws\nignore_root: false\nrepositories: []\n",
		},
		{
			name:    "unsupported version",
			content: "version: 7\nroot: /ws\n",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "unknown key",
			content: "root: /ws\nbranches: [main]\n",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "unknown repository key",
			content: "root: /ws\nrepositories:\n  - name: a\n    url: x\n",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "not yaml",
			content: "root: [unterminated\n",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "bare document marker",
			content: "---\n",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "null document",
			content: "~\n",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "null keyword",
			content: "null\n",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "top level list",
			content: "- name: a\n  path: a\n",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "missing root",
			content: "ignore_root: false\n",
			wantErr: ErrConfigCorrupt,
		},
		{
			name:    "legacy symbol keys",
			content: "---\n:root: /Users/john/my_project\n:repositories:\n  - :name: Sproutcore\n    :path: frameworks/sproutcore\n",
			wantErr: ErrLegacyFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reg := setupWorkspace(t)
			writeRaw(t, reg, tt.content)

			doc, err := reg.Load()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "/ws", doc.Root)
			assert.NotNil(t, doc.Repositories)
		})
	}

	t.Run("missing config", func(t *testing.T) {
		reg := NewRegistry(t.TempDir(), &DefaultLogger{})
		_, err := reg.Load()
		assert.ErrorIs(t, err, ErrConfigMissing)
	})
}

func TestWorkspaceRegistry_RootPseudoEntry(t *testing.T) {
	_, reg := setupWorkspace(t)
	writeRaw(t, reg, "root: /ws\nignore_root: false\nrepositories:\n  - name: a\n    path: a\n")

	doc, err := reg.Load()
	require.NoError(t, err)

	members := doc.Members()
	require.Len(t, members, 2)
	assert.Equal(t, model.RootName, members[0].Name)
	assert.Equal(t, "/ws", members[0].Path)
	assert.True(t, members[0].IsSynthetic())
	assert.Equal(t, "a", members[1].Name)

	// handing the effective list back to Save must not persist Root
	doc.Repositories = members
	require.NoError(t, reg.Save(doc))

	reloaded, err := reg.Load()
	require.NoError(t, err)
	require.Len(t, reloaded.Repositories, 1)
	assert.Equal(t, "a", reloaded.Repositories[0].Name)
	assert.NotContains(t, string(readRaw(t, reg)), "name: Root")
}

func TestWorkspaceRegistry_SaveFileMode(t *testing.T) {
	_, reg := setupWorkspace(t)
	saveRepos(t, reg, true, model.Repository{Name: "a", Path: "a"})

	info, err := os.Stat(reg.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWorkspaceRegistry_AddRepository(t *testing.T) {
	t.Run("appends at the tail", func(t *testing.T) {
		root, reg := setupWorkspace(t)
		setupRepo(t, root, "app")
		setupRepo(t, root, filepath.Join("vendor", "lib"))

		_, err := reg.AddRepository("app", "")
		require.NoError(t, err)
		_, err = reg.AddRepository("lib", "vendor/lib")
		require.NoError(t, err)

		doc, err := reg.Load()
		require.NoError(t, err)
		require.Len(t, doc.Repositories, 2)
		assert.Equal(t, model.Repository{Name: "app", Path: "app"}, doc.Repositories[0])
		assert.Equal(t, model.Repository{Name: "lib", Path: "vendor/lib"}, doc.Repositories[1])
	})

	t.Run("duplicate names are kept", func(t *testing.T) {
		root, reg := setupWorkspace(t)
		setupRepo(t, root, "one")
		setupRepo(t, root, "two")

		_, err := reg.AddRepository("dup", "one")
		require.NoError(t, err)
		_, err = reg.AddRepository("dup", "two")
		require.NoError(t, err)

		found, err := reg.FindByName("dup")
		require.NoError(t, err)
		assert.Equal(t, "one", found.Path)
	})

	t.Run("not a git repository", func(t *testing.T) {
		root, reg := setupWorkspace(t)
		require.NoError(t, os.Mkdir(filepath.Join(root, "plain"), 0o755))
		before := readRaw(t, reg)

		_, err := reg.AddRepository("plain", "")
		assert.ErrorIs(t, err, ErrNotAGitRepo)
		assert.Equal(t, before, readRaw(t, reg))
	})

	t.Run("uninitialized workspace", func(t *testing.T) {
		root := t.TempDir()
		setupRepo(t, root, "app")

		_, err := NewRegistry(root, &DefaultLogger{}).AddRepository("app", "")
		assert.ErrorIs(t, err, ErrConfigMissing)
	})
}

func TestWorkspaceRegistry_AddAllDiscovered(t *testing.T) {
	root, reg := setupWorkspace(t)
	setupRepo(t, root, "beta")
	setupRepo(t, root, "alpha")
	require.NoError(t, os.Mkdir(filepath.Join(root, "plain"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte("x"), 0o644))

	added, err := reg.AddAllDiscovered()
	require.NoError(t, err)
	assert.Equal(t, []model.Repository{
		{Name: "alpha", Path: "alpha"},
		{Name: "beta", Path: "beta"},
	}, added)

	// a second pass does not deduplicate
	_, err = reg.AddAllDiscovered()
	require.NoError(t, err)

	doc, err := reg.Load()
	require.NoError(t, err)
	assert.Len(t, doc.Repositories, 4)
}

func TestWorkspaceRegistry_RemoveRepository(t *testing.T) {
	t.Run("removes first match", func(t *testing.T) {
		_, reg := setupWorkspace(t)
		saveRepos(t, reg, true,
			model.Repository{Name: "a", Path: "one"},
			model.Repository{Name: "b", Path: "b"},
			model.Repository{Name: "a", Path: "two"},
		)

		removed, err := reg.RemoveRepository("a")
		require.NoError(t, err)
		assert.Equal(t, "one", removed.Path)

		doc, err := reg.Load()
		require.NoError(t, err)
		assert.Equal(t, []model.Repository{
			{Name: "b", Path: "b"},
			{Name: "a", Path: "two"},
		}, doc.Repositories)
	})

	t.Run("unknown name leaves file untouched", func(t *testing.T) {
		_, reg := setupWorkspace(t)
		saveRepos(t, reg, true, model.Repository{Name: "a", Path: "a"})
		before := readRaw(t, reg)

		_, err := reg.RemoveRepository("nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, before, readRaw(t, reg))
	})
}

func TestWorkspaceRegistry_CleanMissing(t *testing.T) {
	root, reg := setupWorkspace(t)
	setupRepo(t, root, "valid")
	require.NoError(t, os.Mkdir(filepath.Join(root, "plain"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file"), []byte("x"), 0o644))
	saveRepos(t, reg, true,
		model.Repository{Name: "valid", Path: "valid"},
		model.Repository{Name: "gone", Path: "does/not/exist"},
		model.Repository{Name: "plain", Path: "plain"},
		model.Repository{Name: "file", Path: "file"},
	)

	dropped, err := reg.CleanMissing()
	require.NoError(t, err)
	assert.Len(t, dropped, 3)

	doc, err := reg.Load()
	require.NoError(t, err)
	assert.Equal(t, []model.Repository{{Name: "valid", Path: "valid"}}, doc.Repositories)
}

func TestWorkspaceRegistry_FindByName(t *testing.T) {
	_, reg := setupWorkspace(t)
	saveRepos(t, reg, true, model.Repository{Name: "a", Path: "x"})

	repo, err := reg.FindByName("a")
	require.NoError(t, err)
	assert.Equal(t, "x", repo.Path)

	_, err = reg.FindByName("b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkspaceRegistry_Resolve(t *testing.T) {
	root, reg := setupWorkspace(t)

	assert.Equal(t, filepath.Join(root, "vendor", "lib"), reg.Resolve("vendor/lib"))
	assert.Equal(t, "/abs/path", reg.Resolve("/abs/path"))
}

func TestWorkspaceRegistry_Destroy(t *testing.T) {
	root, reg := setupWorkspace(t)

	require.NoError(t, reg.Destroy())
	_, err := os.Stat(filepath.Join(root, MetaDir))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, reg.Destroy(), ErrConfigMissing)
}

func TestProperty_SaveLoadPreservesOrder(t *testing.T) {
	_, reg := setupWorkspace(t)

	rapid.Check(t, func(rt *rapid.T) {
		repos := rapid.SliceOf(rapid.Custom(func(rt *rapid.T) model.Repository {
			return model.Repository{
				Name: rapid.StringMatching(`[A-Za-z][A-Za-z0-9_-]{0,12}`).Draw(rt, "name"),
				Path: rapid.StringMatching(`[a-z0-9]{1,6}(/[a-z0-9]{1,6}){0,2}`).Draw(rt, "path"),
			}
		})).Draw(rt, "repos")
		ignoreRoot := rapid.Bool().Draw(rt, "ignoreRoot")

		doc := model.NewDocument("/ws")
		doc.IgnoreRoot = ignoreRoot
		doc.Repositories = repos
		require.NoError(rt, reg.Save(doc))

		loaded, err := reg.Load()
		require.NoError(rt, err)
		require.Equal(rt, ignoreRoot, loaded.IgnoreRoot)
		require.Len(rt, loaded.Repositories, len(repos))
		for i := range repos {
			require.Equal(rt, repos[i], loaded.Repositories[i])
		}

		members := loaded.Members()
		if ignoreRoot {
			require.Len(rt, members, len(repos))
		} else {
			require.Len(rt, members, len(repos)+1)
			require.Equal(rt, model.RootName, members[0].Name)
		}
	})
}
