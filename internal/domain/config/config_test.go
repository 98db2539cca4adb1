package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "quill/internal/domain/errors"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Site.Title = " "
	cfg.Site.SiteURL = "not a url"
	cfg.Content.PostsDir = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerr.ErrInvalid))

	var ve domainerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Items, 3)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"site:\n  title: My Blog\n  site_url: https://blog.example\ncontent:\n  posts_dir: posts\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", cfg.Site.Title)
	assert.Equal(t, "posts", cfg.Content.PostsDir)
	// untouched fields keep their defaults
	assert.Equal(t, "content/authors", cfg.Content.AuthorsDir)
	assert.False(t, cfg.Build.Now.IsZero())
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Site.Title, cfg.Site.Title)
}

func TestLoadRejectsBadSortMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"site:\n  title: T\n  site_url: https://x.example\n  sort_mode: sticky\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort_mode")
}
