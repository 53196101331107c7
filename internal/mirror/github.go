package mirror

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/FireKid846/TG-bot/internal/repository"

	"go.uber.org/zap"
)

const (
	defaultGitHubAPI = "https://api.github.com"
	commitMessage    = "Update config from bot"
	userAgent        = "TelegramBot"
)

// GitHubConfig holds the contents API coordinates of the mirrored file
type GitHubConfig struct {
	Token  string
	Repo   string // owner/name
	Path   string
	Branch string // empty means the repository default branch
	APIURL string // empty means api.github.com
}

// GitHub mirrors the config document through the repository contents API
type GitHub struct {
	cfg    GitHubConfig
	client *http.Client
	logger *zap.Logger
}

// NewGitHub creates a GitHub mirror. A nil client uses http.DefaultClient.
func NewGitHub(cfg GitHubConfig, client *http.Client, logger *zap.Logger) *GitHub {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultGitHubAPI
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GitHub{cfg: cfg, client: client, logger: logger}
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type updateRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

// Fetch returns the current file content and its blob sha
func (g *GitHub) Fetch(ctx context.Context) (*repository.Snapshot, error) {
	endpoint := g.contentsURL()
	if g.cfg.Branch != "" {
		endpoint += "?ref=" + url.QueryEscape(g.cfg.Branch)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", g.cfg.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, repository.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", g.cfg.Path, resp.StatusCode)
	}

	var body contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding contents response: %w", err)
	}

	// The API wraps base64 payloads at 60 columns
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decoding file content: %w", err)
	}

	return &repository.Snapshot{Content: content, Revision: body.SHA}, nil
}

// Push uploads data, passing the current sha when the file already exists
func (g *GitHub) Push(ctx context.Context, data []byte) error {
	var sha string
	snapshot, err := g.Fetch(ctx)
	switch {
	case err == nil:
		sha = snapshot.Revision
	case errors.Is(err, repository.ErrNotFound):
	default:
		g.logger.Debug("Could not read current mirror revision", zap.Error(err))
	}

	payload, err := json.Marshal(updateRequest{
		Message: commitMessage,
		Content: base64.StdEncoding.EncodeToString(data),
		SHA:     sha,
		Branch:  g.cfg.Branch,
	})
	if err != nil {
		return fmt.Errorf("encoding update request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("updating %s: %w", g.cfg.Path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("updating %s: unexpected status %d", g.cfg.Path, resp.StatusCode)
	}
	return nil
}

func (g *GitHub) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/contents/%s",
		strings.TrimRight(g.cfg.APIURL, "/"), g.cfg.Repo, strings.TrimLeft(g.cfg.Path, "/"))
}

func (g *GitHub) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+g.cfg.Token)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
}
