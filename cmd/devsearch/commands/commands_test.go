package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"devsearch/internal/domain"
	"devsearch/internal/favorites"
	"devsearch/internal/github"
)

var (
	octocat = domain.Account{ID: 583231, Login: "octocat", AvatarURL: "https://avatars.example/u/583231", ProfileURL: "https://github.com/octocat"}
	hubot   = domain.Account{ID: 480938, Login: "hubot", AvatarURL: "https://avatars.example/u/480938", ProfileURL: "https://github.com/hubot"}
	lisa    = domain.Account{ID: 7, Login: "lisa", AvatarURL: "https://avatars.example/u/7", ProfileURL: "https://github.com/lisa"}
)

type fakeGitHub struct {
	srv      *httptest.Server
	searches atomic.Int32
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	f := &fakeGitHub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/search/users", func(w http.ResponseWriter, r *http.Request) {
		f.searches.Add(1)
		// The API matches on names and emails too; lisa never matches by login.
		items := []domain.Account{octocat, hubot, lisa}
		writeJSON(w, http.StatusOK, map[string]any{"total_count": len(items), "items": items})
	})
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.UserProfile{
			ID: octocat.ID, Login: octocat.Login, Name: "The Octocat",
			AvatarURL: octocat.AvatarURL, ProfileURL: octocat.ProfileURL,
			Location: "San Francisco", Followers: 10, Following: 1, PublicRepos: 8,
		})
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Repository{
			{ID: 1, Name: "Hello-World", URL: "https://github.com/octocat/Hello-World", Stars: 42},
			{ID: 2, Name: "Spoon-Knife", URL: "https://github.com/octocat/Spoon-Knife", Forks: 7},
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type harness struct {
	t      *testing.T
	gh     *fakeGitHub
	home   string
	stderr string // of the last run
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, gh: newFakeGitHub(t), home: t.TempDir()}
}

// run executes one CLI session and returns what it printed to stdout.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	return h.runContext(context.Background(), stdin, args...)
}

func (h *harness) runContext(ctx context.Context, stdin string, args ...string) (string, error) {
	h.t.Helper()
	s := newSession()
	s.logger = zap.NewNop()
	s.http = h.gh.srv.Client()

	root := newRootCmd(s)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--home", h.home, "--api-url", h.gh.srv.URL))

	err := root.ExecuteContext(ctx)
	h.stderr = errOut.String()
	return out.String(), errors.Join(err, s.close())
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

func TestFav_PersistsAcrossSessions(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "added octocat (583231)\n", h.mustRun("fav", "add", "octocat"))
	assert.Equal(t, "1\n", h.mustRun("fav", "count"))
	assert.Equal(t, "true\n", h.mustRun("fav", "has", "583231"))
	assert.Equal(t, "false\n", h.mustRun("fav", "has", "1"))

	var listed []domain.Account
	require.NoError(t, json.Unmarshal([]byte(h.mustRun("fav", "list", "-o", "json")), &listed))
	assert.Equal(t, []domain.Account{octocat}, listed)

	raw, err := os.ReadFile(filepath.Join(h.home, favorites.StorageKey+".json"))
	require.NoError(t, err)
	var persisted []domain.Account
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, []domain.Account{octocat}, persisted)

	assert.Equal(t, "removed octocat (583231)\n", h.mustRun("fav", "rm", "583231"))
	assert.Equal(t, "0\n", h.mustRun("fav", "count"))
	assert.Equal(t, "No favorites yet\n", h.mustRun("fav", "list"))
}

func TestFav_AddTwiceKeepsOne(t *testing.T) {
	h := newHarness(t)
	h.mustRun("fav", "add", "octocat")
	h.mustRun("fav", "add", "octocat")
	assert.Equal(t, "1\n", h.mustRun("fav", "count"))
}

func TestFav_AddUnknownLogin(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "fav", "add", "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, github.ErrNotFound)
	assert.Equal(t, "0\n", h.mustRun("fav", "count"))
}

func TestFav_RemoveAbsent(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "7 is not a favorite\n", h.mustRun("fav", "rm", "7"))

	_, err := h.run("", "fav", "rm", "seven")
	assert.ErrorContains(t, err, `invalid account id "seven"`)
}

func TestFav_ListFormats(t *testing.T) {
	h := newHarness(t)
	h.mustRun("search", "o", "--fav", "1")
	h.mustRun("search", "o", "--fav", "2")

	table := h.mustRun("fav", "list")
	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "octocat")
	assert.Contains(t, lines[2], "hubot")

	var fromYAML []domain.Account
	require.NoError(t, yaml.Unmarshal([]byte(h.mustRun("fav", "list", "-o", "yaml")), &fromYAML))
	assert.Equal(t, []domain.Account{octocat, hubot}, fromYAML)

	_, err := h.run("", "fav", "list", "-o", "xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestFav_ClearConfirmation(t *testing.T) {
	h := newHarness(t)
	h.mustRun("fav", "add", "octocat")

	out, err := h.run("n\n", "fav", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Clear all 1 favorites? [y/N] aborted\n", out)
	assert.Equal(t, "1\n", h.mustRun("fav", "count"))

	out, err = h.run("", "fav", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")

	out, err = h.run("y\n", "fav", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
	assert.Equal(t, "0\n", h.mustRun("fav", "count"))

	h.mustRun("fav", "add", "octocat")
	assert.Equal(t, "cleared\n", h.mustRun("fav", "clear", "--yes"))
	assert.Equal(t, "0\n", h.mustRun("fav", "count"))
}

func TestSearch_MarksFavorites(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("search", "octo")
	assert.Contains(t, out, "octocat")
	assert.NotContains(t, out, "★")

	out = h.mustRun("search", "octo", "--fav", "1")
	assert.Contains(t, out, "★ octocat")

	out = h.mustRun("search", "octo")
	assert.Contains(t, out, "★ octocat")
	assert.Equal(t, "1\n", h.mustRun("fav", "count"))
}

func TestSearch_FiltersByLoginIgnoringCase(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("search", "OCTO")
	assert.Contains(t, out, "octocat")
	assert.NotContains(t, out, "hubot")
	assert.NotContains(t, out, "lisa")
}

func TestSearch_NoResults(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "No users found\n", h.mustRun("search", "zzz"))
}

func TestSearch_FavOutOfRange(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "search", "octo", "--fav", "3")
	assert.ErrorContains(t, err, "--fav 3 out of range (1-1)")
	assert.Equal(t, "0\n", h.mustRun("fav", "count"))
}

func TestSearch_WatchRunsLastQueryOfBurst(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("o\noc\noct\nocto\n", "search", "--watch", "--debounce", "1h")
	require.NoError(t, err)

	assert.Equal(t, int32(1), h.gh.searches.Load())
	assert.True(t, strings.HasPrefix(out, "> octo\n"), out)
	assert.Contains(t, out, "octocat")
}

func TestSearch_WatchCanceledRunsNothing(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := h.runContext(ctx, "octo\n", "search", "--watch", "--debounce", "1h")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
	assert.Zero(t, h.gh.searches.Load())
}

func TestSearch_WatchRejectsArgs(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "search", "--watch", "octo")
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("profile", "octocat")
	assert.Contains(t, out, "The Octocat (@octocat)\n")
	assert.Contains(t, out, "Location: San Francisco")
	assert.Contains(t, out, "Latest repositories:")
	assert.Contains(t, out, "Hello-World")
	assert.NotContains(t, out, "★ ")

	out = h.mustRun("profile", "octocat", "--fav")
	assert.Contains(t, out, "The Octocat (@octocat) ★\n")
	assert.Equal(t, "true\n", h.mustRun("fav", "has", "583231"))
}

func TestProfile_NotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "profile", "ghost")
	assert.ErrorIs(t, err, github.ErrNotFound)
}

func TestBackends(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			h := newHarness(t)
			h.mustRun("fav", "add", "octocat", "--backend", backend)
			assert.Equal(t, "1\n", h.mustRun("fav", "count", "--backend", backend))
		})
	}

	t.Run("memory is session only", func(t *testing.T) {
		h := newHarness(t)
		h.mustRun("fav", "add", "octocat", "--backend", "memory")
		assert.Equal(t, "0\n", h.mustRun("fav", "count", "--backend", "memory"))
	})

	t.Run("unknown", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("", "fav", "count", "--backend", "floppy")
		assert.ErrorContains(t, err, `invalid storage backend "floppy"`)
	})
}

func TestPassphrase(t *testing.T) {
	h := newHarness(t)
	h.mustRun("fav", "add", "octocat", "-p", "hunter2")

	raw, err := os.ReadFile(filepath.Join(h.home, favorites.StorageKey+".json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "octocat")

	assert.Equal(t, "1\n", h.mustRun("fav", "count", "-p", "hunter2"))
	// A wrong passphrase reads as no favorites.
	assert.Equal(t, "0\n", h.mustRun("fav", "count", "-p", "wrong"))
	assert.Equal(t, "1\n", h.mustRun("fav", "count", "-p", "hunter2"))
}

func TestConfigFile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.home, "config.yaml"),
		[]byte("storage:\n  backend: sqlite\n"), 0o600))

	h.mustRun("fav", "add", "octocat")
	_, err := os.Stat(filepath.Join(h.home, "devsearch.db"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(h.home, favorites.StorageKey+".json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFavoritesBadge(t *testing.T) {
	h := newHarness(t)

	h.mustRun("fav", "add", "octocat")
	assert.Equal(t, "★ 1 favorites\n", h.stderr)

	h.mustRun("search", "o", "--fav", "2")
	assert.Equal(t, "★ 2 favorites\n", h.stderr)

	// Queries and no-op adds leave the badge alone.
	h.mustRun("fav", "count")
	assert.Empty(t, h.stderr)
	h.mustRun("fav", "add", "octocat")
	assert.Empty(t, h.stderr)

	h.mustRun("fav", "clear", "--yes")
	assert.Equal(t, "★ 0 favorites\n", h.stderr)
}
