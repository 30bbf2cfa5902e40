package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsRepository(t *testing.T) {
	dir := t.TempDir()
	require.False(t, IsRepository(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	require.True(t, IsRepository(dir))
}

func TestIsRepositoryFileNamedGit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: elsewhere"), 0644))
	require.False(t, IsRepository(dir))
}

func TestCloneOrPullRejectsNonRepositoryTarget(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "leftover.txt"), []byte("x"), 0644))

	c := NewClient()
	err := c.CloneOrPull(context.Background(), "https://example.com/some/repo.git", "", target)
	require.ErrorContains(t, err, "not a git repository")
}
