package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{
		APIURL:     srv.URL,
		RawURL:     srv.URL,
		Token:      "token",
		Timeout:    time.Second,
		Retries:    3,
		RetryDelay: time.Millisecond,
	}, logger.Nop())
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestRepositoryInfo(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/list" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, `{"name":"list","full_name":"acme/list","default_branch":"main","stargazers_count":42}`)
	}))

	info, err := c.RepositoryInfo(context.Background(), "acme", "list")
	if err != nil {
		t.Fatalf("RepositoryInfo() error = %v", err)
	}
	if info.DefaultBranch != "main" || info.Stars != 42 {
		t.Errorf("RepositoryInfo() = %+v", info)
	}
}

func TestRepositoryInfoNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))

	_, err := c.RepositoryInfo(context.Background(), "acme", "missing")
	if !errors.Is(err, domain.ErrFetchFailure) {
		t.Errorf("RepositoryInfo() error = %v, want ErrFetchFailure", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, `{"default_branch":"master"}`)
	}))

	info, err := c.RepositoryInfo(context.Background(), "acme", "list")
	if err != nil {
		t.Fatalf("RepositoryInfo() error = %v", err)
	}
	if info.DefaultBranch != "master" || atomic.LoadInt32(&calls) != 3 {
		t.Errorf("RepositoryInfo() = %+v after %d calls", info, calls)
	}
}

func TestHasBeenUpdated(t *testing.T) {
	commitDate := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/list/commits":
			if r.URL.Query().Get("per_page") != "1" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			writeJSON(w, `[{"sha":"abc","commit":{"committer":{"date":"2024-05-01T12:00:00Z"}}}]`)
		case "/repos/acme/empty/commits":
			writeJSON(w, `[]`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	ctx := context.Background()

	tests := []struct {
		name  string
		repo  string
		since time.Time
		want  bool
	}{
		{"never checked", "list", time.Time{}, true},
		{"commit after check", "list", commitDate.Add(-time.Hour), true},
		{"no commit since check", "list", commitDate.Add(time.Hour), false},
		{"empty repository", "empty", commitDate, false},
		{"api failure assumes updated", "broken", commitDate, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HasBeenUpdated(ctx, "acme", tt.repo, tt.since); got != tt.want {
				t.Errorf("HasBeenUpdated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadmeFallsBackToLowercase(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/list":
			writeJSON(w, `{"default_branch":"trunk"}`)
		case "/acme/list/trunk/readme.md":
			_, _ = w.Write([]byte("# Awesome List\n"))
		default:
			http.NotFound(w, r)
		}
	}))

	body, err := c.Readme(context.Background(), "acme", "list", "")
	if err != nil {
		t.Fatalf("Readme() error = %v", err)
	}
	if body != "# Awesome List\n" {
		t.Errorf("Readme() = %q", body)
	}
}

func TestReadmeMissing(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.Readme(context.Background(), "acme", "list", "master")
	if !errors.Is(err, domain.ErrFetchFailure) {
		t.Errorf("Readme() error = %v, want ErrFetchFailure", err)
	}
}
