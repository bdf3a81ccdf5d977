package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
	"github.com/MrSnakeDoc/awesomehub/internal/sources/github"
)

// memStore is an in-memory stand-in for the redis store.
type memStore struct {
	mu      sync.Mutex
	lists   map[string]*domain.AwesomeList
	checked map[string]time.Time
	digests map[string]string
	corrupt map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		lists:   make(map[string]*domain.AwesomeList),
		checked: make(map[string]time.Time),
		digests: make(map[string]string),
		corrupt: make(map[string]bool),
	}
}

func (m *memStore) GetList(_ context.Context, id string) (*domain.AwesomeList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.corrupt[id] {
		return nil, domain.ErrCorruptPreviousState
	}
	l, ok := m.lists[id]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	return l.Clone(), nil
}

func (m *memStore) SaveList(_ context.Context, list *domain.AwesomeList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[list.ID] = list.Clone()
	delete(m.corrupt, list.ID)
	return nil
}

func (m *memStore) GetLastChecked(_ context.Context, id string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checked[id], nil
}

func (m *memStore) SetLastChecked(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checked[id] = at
	return nil
}

func (m *memStore) GetReadmeDigest(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.digests[id], nil
}

func (m *memStore) SetReadmeDigest(_ context.Context, id, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digests[id] = digest
	return nil
}

func (m *memStore) GetAllLists(_ context.Context) ([]*domain.AwesomeList, []error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.AwesomeList
	var bad []error
	for id, l := range m.lists {
		if m.corrupt[id] {
			bad = append(bad, domain.ErrCorruptPreviousState)
			continue
		}
		out = append(out, l.Clone())
	}
	return out, bad, nil
}

func (m *memStore) ListIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.lists))
	for id := range m.lists {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) DeleteList(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lists, id)
	delete(m.checked, id)
	delete(m.digests, id)
	return nil
}

// fakeGitHub serves READMEs and latest commit dates per "owner/repo".
type fakeGitHub struct {
	mu      sync.Mutex
	readmes map[string]string
	commits map[string]time.Time
}

func (f *fakeGitHub) setReadme(id, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readmes[id] = body
}

func (f *fakeGitHub) setCommit(id string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits[id] = at
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 4 && parts[0] == "repos" && parts[3] == "commits":
		at, ok := f.commits[parts[1]+"/"+parts[2]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"sha":"abc","commit":{"committer":{"date":"` + at.Format(time.RFC3339) + `"}}}]`))
	case len(parts) == 4 && parts[3] == "README.md":
		body, ok := f.readmes[parts[0]+"/"+parts[1]]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	default:
		http.NotFound(w, r)
	}
}

func newFakeGitHub(t *testing.T) (*fakeGitHub, *github.Client) {
	t.Helper()
	fake := &fakeGitHub{
		readmes: make(map[string]string),
		commits: make(map[string]time.Time),
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client := github.New(github.Options{
		APIURL:     srv.URL,
		RawURL:     srv.URL,
		Timeout:    time.Second,
		Retries:    1,
		RetryDelay: time.Millisecond,
	}, logger.Nop())
	return fake, client
}

const readmeV1 = `# Awesome Things

## Contents

- [Tools](#tools)

## Tools

- [Alpha](https://alpha.example) - First tool.
- [Beta](https://beta.example) - Second tool.
`

const readmeV2 = `# Awesome Things

## Contents

- [Tools](#tools)

## Tools

- [Alpha](https://alpha.example) - First tool.
- [Beta](https://beta.example) - Second tool.
- [Gamma](https://gamma.example) - Third tool.
`

func itemByTitle(l *domain.AwesomeList, title string) (domain.ListItem, bool) {
	for _, it := range l.Items {
		if it.Title == title {
			return it, true
		}
	}
	return domain.ListItem{}, false
}
