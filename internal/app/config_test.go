package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsearch/internal/github"
)

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	v := NewViper()
	v.Set("home", home)

	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Empty(t, cfg.Storage.Passphrase)
	assert.False(t, cfg.Favorites.AsyncWrites)
	assert.False(t, cfg.Favorites.RedundantWrites)
	assert.Equal(t, github.DefaultBaseURL, cfg.GitHub.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, github.DefaultReposPerProfile, cfg.GitHub.ReposPerProfile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_DefaultHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadConfig(NewViper())
	require.NoError(t, err)

	want, err := DefaultHome()
	require.NoError(t, err)
	assert.Equal(t, want, cfg.Home)
	assert.Equal(t, ".devsearch", filepath.Base(cfg.Home))
}

func TestLoadConfig_File(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
storage:
  backend: sqlite
favorites:
  async_writes: true
github:
  timeout: 3s
  repos_per_profile: 2
log:
  level: debug
`), 0o600))

	v := NewViper()
	v.Set("home", home)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.True(t, cfg.Favorites.AsyncWrites)
	assert.Equal(t, 3*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 2, cfg.GitHub.ReposPerProfile)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("github:\n  token: from-file\n"), 0o600))
	t.Setenv("DEVSEARCH_GITHUB_TOKEN", "from-env")
	t.Setenv("DEVSEARCH_STORAGE_BACKEND", "memory")

	v := NewViper()
	v.Set("home", home)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.GitHub.Token)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoadConfig_BadFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("storage: [\n"), 0o600))

	v := NewViper()
	v.Set("home", home)
	_, err := LoadConfig(v)
	assert.ErrorContains(t, err, "reading config")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"file", Config{Home: "/tmp/x", Storage: StorageConfig{Backend: BackendFile}}, ""},
		{"memory without home", Config{Storage: StorageConfig{Backend: BackendMemory}}, ""},
		{"file without home", Config{Storage: StorageConfig{Backend: BackendFile}}, "home directory required"},
		{"unknown backend", Config{Home: "/tmp/x", Storage: StorageConfig{Backend: "tape"}}, `invalid storage backend "tape"`},
		{"negative timeout", Config{Home: "/tmp/x", Storage: StorageConfig{Backend: BackendFile}, GitHub: GitHubConfig{Timeout: -time.Second}}, "invalid github timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
