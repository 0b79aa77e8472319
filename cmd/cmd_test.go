package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vitals/internal/catalog"
)

func catalogCmd(t *testing.T, flag string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("catalog", "", "")
	c.Flags().String("db", "", "")
	if flag != "" {
		require.NoError(t, c.Flags().Set("catalog", flag))
	}
	return c
}

func TestResolveCatalog_Default(t *testing.T) {
	t.Setenv("VITALS_CATALOG", "")
	c, err := resolveCatalog(catalogCmd(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", c.Version())
}

func TestResolveCatalog_FlagBeatsEnv(t *testing.T) {
	t.Setenv("VITALS_CATALOG", filepath.Join(t.TempDir(), "env.yaml"))
	_, err := resolveCatalog(catalogCmd(t, filepath.Join(t.TempDir(), "flag.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag.yaml")
}

func TestResolveCatalog_ErrorNamesPathOnce(t *testing.T) {
	t.Setenv("VITALS_CATALOG", "")
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: E\nversion: v1.0.0\n"), 0o644))

	_, err := resolveCatalog(catalogCmd(t, path))
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrDegenerateCatalog)
	assert.Equal(t, 1, strings.Count(err.Error(), path), err.Error())
}

func TestResolveDBPath_Flag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vitals.db")
	c := catalogCmd(t, "")
	require.NoError(t, c.Flags().Set("db", path))

	got, err := resolveDBPath(c)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.DirExists(t, filepath.Dir(path))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("VITALS_DOTENV_NEW=from-file\nVITALS_DOTENV_SET=from-file\n"), 0o600))

	t.Setenv("VITALS_DOTENV_SET", "from-env")
	t.Cleanup(func() { os.Unsetenv("VITALS_DOTENV_NEW") })

	loadDotEnv(path)
	assert.Equal(t, "from-file", os.Getenv("VITALS_DOTENV_NEW"))
	assert.Equal(t, "from-env", os.Getenv("VITALS_DOTENV_SET"))

	// A missing file is silently ignored.
	loadDotEnv(filepath.Join(dir, "missing.env"))
}
