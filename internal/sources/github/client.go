package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
)

// readmeNames are tried in order on the raw content host
var readmeNames = []string{"README.md", "readme.md"}

var errNotFound = errors.New("not found")

// Options configures the GitHub client.
type Options struct {
	APIURL     string        // ex: "https://api.github.com"
	RawURL     string        // ex: "https://raw.githubusercontent.com"
	Token      string        // optional personal access token
	Timeout    time.Duration // per request
	Retries    int           // attempts per request (min 1)
	RetryDelay time.Duration // initial backoff between attempts
}

// Repository is the subset of the GitHub repository payload we use.
type Repository struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	HTMLURL       string    `json:"html_url"`
	DefaultBranch string    `json:"default_branch"`
	Stars         int       `json:"stargazers_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// Client reads repository metadata and README files from GitHub.
type Client struct {
	api      *resty.Client
	raw      *resty.Client
	attempts uint
	delay    time.Duration
	log      logger.Logger
}

// New creates a GitHub client.
func New(opts Options, log logger.Logger) *Client {
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	api := resty.New()
	api.SetBaseURL(opts.APIURL)
	api.SetTimeout(opts.Timeout)
	api.SetHeader("Accept", "application/vnd.github+json")
	api.SetHeader("User-Agent", "awesomehub")
	if opts.Token != "" {
		api.SetAuthToken(opts.Token)
	}

	raw := resty.New()
	raw.SetBaseURL(opts.RawURL)
	raw.SetTimeout(opts.Timeout)
	raw.SetHeader("User-Agent", "awesomehub")

	return &Client{
		api:      api,
		raw:      raw,
		attempts: uint(opts.Retries),
		delay:    opts.RetryDelay,
		log:      log,
	}
}

// do runs fn with backoff. A 404 is final; other failures are retried.
func (c *Client) do(ctx context.Context, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, errNotFound)
		}),
	)
}

func checkResponse(resp *resty.Response) error {
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%s: %w", resp.Request.URL, errNotFound)
	case resp.IsError():
		return fmt.Errorf("%s: HTTP %d", resp.Request.URL, resp.StatusCode())
	}
	return nil
}

// RepositoryInfo returns the repository metadata.
func (c *Client) RepositoryInfo(ctx context.Context, owner, repo string) (*Repository, error) {
	var out Repository
	err := c.do(ctx, func() error {
		resp, err := c.api.R().
			SetContext(ctx).
			SetPathParams(map[string]string{"owner": owner, "repo": repo}).
			SetResult(&out).
			Get("/repos/{owner}/{repo}")
		if err != nil {
			return err
		}
		return checkResponse(resp)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: repository %s: %w", domain.ErrFetchFailure, domain.ListID(owner, repo), err)
	}
	return &out, nil
}

// LatestCommitDate returns the committer date of the newest commit on the
// default branch, or the zero time for an empty repository.
func (c *Client) LatestCommitDate(ctx context.Context, owner, repo string) (time.Time, error) {
	var commits []commit
	err := c.do(ctx, func() error {
		resp, err := c.api.R().
			SetContext(ctx).
			SetPathParams(map[string]string{"owner": owner, "repo": repo}).
			SetQueryParam("per_page", "1").
			SetResult(&commits).
			Get("/repos/{owner}/{repo}/commits")
		if err != nil {
			return err
		}
		return checkResponse(resp)
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: commits of %s: %w", domain.ErrFetchFailure, domain.ListID(owner, repo), err)
	}
	if len(commits) == 0 {
		return time.Time{}, nil
	}
	return commits[0].Commit.Committer.Date, nil
}

// HasBeenUpdated reports whether the repository got a commit after since.
// When that cannot be determined it answers true, so the list is rescanned.
func (c *Client) HasBeenUpdated(ctx context.Context, owner, repo string, since time.Time) bool {
	if since.IsZero() {
		return true
	}
	latest, err := c.LatestCommitDate(ctx, owner, repo)
	if err != nil {
		c.log.Warn("cannot determine last commit, assuming updated",
			logger.ListID(domain.ListID(owner, repo)),
			logger.Error(err))
		return true
	}
	return latest.After(since)
}

// Readme fetches the raw README of a branch. An empty branch resolves to
// the repository's default branch.
func (c *Client) Readme(ctx context.Context, owner, repo, branch string) (string, error) {
	if branch == "" {
		info, err := c.RepositoryInfo(ctx, owner, repo)
		if err != nil {
			return "", err
		}
		branch = info.DefaultBranch
	}

	var lastErr error
	for _, name := range readmeNames {
		body, err := c.fetchRaw(ctx, owner, repo, branch, name)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !errors.Is(err, errNotFound) {
			break
		}
	}
	return "", fmt.Errorf("%w: readme of %s@%s: %w", domain.ErrFetchFailure, domain.ListID(owner, repo), branch, lastErr)
}

func (c *Client) fetchRaw(ctx context.Context, owner, repo, branch, name string) (string, error) {
	var body string
	err := c.do(ctx, func() error {
		resp, err := c.raw.R().
			SetContext(ctx).
			SetPathParams(map[string]string{
				"owner":  owner,
				"repo":   repo,
				"branch": branch,
				"name":   name,
			}).
			Get("/{owner}/{repo}/{branch}/{name}")
		if err != nil {
			return err
		}
		if err := checkResponse(resp); err != nil {
			return err
		}
		body = resp.String()
		return nil
	})
	return body, err
}
