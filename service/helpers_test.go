package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/nanaki-93/grit/model"
	"github.com/stretchr/testify/require"
)

// setupWorkspace creates an initialized workspace in a temp dir
func setupWorkspace(t *testing.T) (string, RegistryService) {
	t.Helper()

	root := t.TempDir()
	reg := NewRegistry(root, &DefaultLogger{})
	created, err := reg.Initialize(root)
	require.NoError(t, err)
	require.True(t, created)
	return reg.Root(), reg
}

// setupRepo creates a git working copy at root/rel
func setupRepo(t *testing.T, root, rel string) string {
	t.Helper()

	repoPath := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(repoPath, 0o755))
	_, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)
	return repoPath
}

// writeRaw replaces the workspace config with content
func writeRaw(t *testing.T, reg RegistryService, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(reg.ConfigPath()), 0o755))
	require.NoError(t, os.WriteFile(reg.ConfigPath(), []byte(content), 0o644))
}

func readRaw(t *testing.T, reg RegistryService) []byte {
	t.Helper()
	data, err := os.ReadFile(reg.ConfigPath())
	require.NoError(t, err)
	return data
}

func saveRepos(t *testing.T, reg RegistryService, ignoreRoot bool, repos ...model.Repository) {
	t.Helper()
	doc, err := reg.Load()
	require.NoError(t, err)
	doc.IgnoreRoot = ignoreRoot
	doc.Repositories = repos
	require.NoError(t, reg.Save(doc))
}
