package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"devsearch/internal/domain"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultReposPerProfile is how many repositories Profile fetches.
	DefaultReposPerProfile = 5

	apiVersion = "2022-11-28"
	userAgent  = "devsearch"
)

var (
	// ErrNotFound matches errors for users or resources that do not exist.
	ErrNotFound = errors.New("github: not found")

	// ErrEmptyLogin is returned when a lookup is attempted without a login.
	ErrEmptyLogin = errors.New("github: login required")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("github %s %s: %s", strings.ToLower(e.Method), e.URL, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap maps 404 responses to ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Client talks to the GitHub REST API.
type Client struct {
	Base  string
	HTTP  *http.Client
	Token string

	// ReposPerProfile bounds the repositories fetched by Profile.
	ReposPerProfile int

	log *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates requests with a bearer token.
func WithToken(token string) Option { return func(c *Client) { c.Token = token } }

// WithReposPerProfile sets how many repositories Profile fetches.
func WithReposPerProfile(n int) Option { return func(c *Client) { c.ReposPerProfile = n } }

// WithLogger sets the client's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.Named("github")
		}
	}
}

// New returns a Client for base. A nil httpClient selects http.DefaultClient.
func New(base string, httpClient *http.Client, opts ...Option) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		Base:            strings.TrimRight(base, "/"),
		HTTP:            httpClient,
		ReposPerProfile: DefaultReposPerProfile,
		log:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ domain.ProfileProvider = (*Client)(nil)

// SearchUsers returns the accounts matching query. A blank query returns no
// results without contacting the API.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.Account, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Account{}, nil
	}
	var out struct {
		TotalCount int              `json:"total_count"`
		Items      []domain.Account `json:"items"`
	}
	if err := c.getJSON(ctx, "/search/users?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []domain.Account{}
	}
	c.log.Debug("search users", zap.String("query", query), zap.Int("results", len(out.Items)), zap.Int("total", out.TotalCount))
	return out.Items, nil
}

// User fetches the public profile of login.
func (c *Client) User(ctx context.Context, login domain.Login) (domain.UserProfile, error) {
	if login == "" {
		return domain.UserProfile{}, ErrEmptyLogin
	}
	var out domain.UserProfile
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(login.String()), &out); err != nil {
		return domain.UserProfile{}, err
	}
	return out, nil
}

// Repos fetches up to limit of login's most recently updated repositories.
func (c *Client) Repos(ctx context.Context, login domain.Login, limit int) ([]domain.Repository, error) {
	if login == "" {
		return nil, ErrEmptyLogin
	}
	u := "/users/" + url.PathEscape(login.String()) + "/repos?sort=updated"
	if limit > 0 {
		u += "&per_page=" + strconv.Itoa(limit)
	}
	var out []domain.Repository
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Profile fetches the user and their latest repositories concurrently.
func (c *Client) Profile(ctx context.Context, login domain.Login) (domain.Profile, error) {
	var p domain.Profile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := c.User(gctx, login)
		p.User = u
		return err
	})
	g.Go(func() error {
		r, err := c.Repos(gctx, login, c.ReposPerProfile)
		p.Repos = r
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Profile{}, fmt.Errorf("fetching profile %q: %w", login, err)
	}
	return p, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	u := c.Base + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		serr := &StatusError{
			Method:     req.Method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
		var body struct {
			Message string `json:"message"`
		}
		if b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); json.Unmarshal(b, &body) == nil {
			serr.Message = body.Message
		}
		c.log.Debug("request failed", zap.String("url", u), zap.Int("status", resp.StatusCode))
		return serr
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
