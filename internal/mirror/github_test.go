package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/FireKid846/TG-bot/internal/repository"
	"github.com/FireKid846/TG-bot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContentsAPI serves a single file the way the GitHub contents API does
type fakeContentsAPI struct {
	mu      sync.Mutex
	content []byte
	sha     string
	puts    []updateRequest
	failPut bool
}

func (f *fakeContentsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "token secret" || r.Header.Get("User-Agent") != "TelegramBot" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if r.URL.Path != "/repos/owner/repo/contents/config.json" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if f.content == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		encoded := base64.StdEncoding.EncodeToString(f.content)
		// mimic the API's line wrapping
		if len(encoded) > 10 {
			encoded = encoded[:10] + "\n" + encoded[10:]
		}
		_ = json.NewEncoder(w).Encode(contentsResponse{Content: encoded, Encoding: "base64", SHA: f.sha})
	case http.MethodPut:
		if f.failPut {
			w.WriteHeader(http.StatusConflict)
			return
		}
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.puts = append(f.puts, req)
		f.content, _ = base64.StdEncoding.DecodeString(req.Content)
		f.sha = "sha-" + string(rune('0'+len(f.puts)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestGitHub(t *testing.T, api *fakeContentsAPI) *GitHub {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	return NewGitHub(GitHubConfig{
		Token:  "secret",
		Repo:   "owner/repo",
		Path:   "config.json",
		APIURL: server.URL,
	}, server.Client(), testutil.NewTestLogger())
}

func TestGitHub_FetchMissing(t *testing.T) {
	g := newTestGitHub(t, &fakeContentsAPI{})

	snapshot, err := g.Fetch(context.Background())

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, snapshot)
}

func TestGitHub_FetchDecodesContent(t *testing.T) {
	api := &fakeContentsAPI{content: []byte(`{"cooldown": 7}`), sha: "abc123"}
	g := newTestGitHub(t, api)

	snapshot, err := g.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, `{"cooldown": 7}`, string(snapshot.Content))
	assert.Equal(t, "abc123", snapshot.Revision)
}

func TestGitHub_PushCreatesThenUpdates(t *testing.T) {
	api := &fakeContentsAPI{}
	g := newTestGitHub(t, api)
	ctx := context.Background()

	require.NoError(t, g.Push(ctx, []byte("one")))
	require.NoError(t, g.Push(ctx, []byte("two")))

	require.Len(t, api.puts, 2)
	assert.Empty(t, api.puts[0].SHA)
	assert.Equal(t, "sha-1", api.puts[1].SHA)
	assert.Equal(t, "Update config from bot", api.puts[1].Message)
	assert.Equal(t, "two", string(api.content))
}

func TestGitHub_PushRejected(t *testing.T) {
	api := &fakeContentsAPI{failPut: true}
	g := newTestGitHub(t, api)

	err := g.Push(context.Background(), []byte("data"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestGitHub_BadCredentials(t *testing.T) {
	api := &fakeContentsAPI{content: []byte("x")}
	server := httptest.NewServer(api)
	defer server.Close()

	g := NewGitHub(GitHubConfig{Token: "wrong", Repo: "owner/repo", Path: "config.json", APIURL: server.URL},
		server.Client(), testutil.NewTestLogger())

	_, err := g.Fetch(context.Background())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestGitHub_ContentsURL(t *testing.T) {
	g := NewGitHub(GitHubConfig{Repo: "owner/repo", Path: "/lib/config.json"}, nil, testutil.NewTestLogger())
	assert.Equal(t, "https://api.github.com/repos/owner/repo/contents/lib/config.json", g.contentsURL())
}
