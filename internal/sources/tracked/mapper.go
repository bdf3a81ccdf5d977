package tracked

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

// DefaultBranch is used when a repository does not name one
const DefaultBranch = "master"

// Map converts the parsed file into tracked repositories. Disabled and
// duplicate entries are dropped; an entry without owner or repo is an error.
func Map(file File) ([]domain.TrackedRepository, error) {
	repos := make([]domain.TrackedRepository, 0, len(file.Repositories))
	seen := make(map[string]bool, len(file.Repositories))

	for i, props := range file.Repositories {
		if props.Disabled {
			continue
		}

		owner := strings.TrimSpace(props.Owner)
		repo := strings.TrimSpace(props.Repo)
		if owner == "" || repo == "" {
			return nil, fmt.Errorf("repository %d: owner and repo are required", i)
		}

		tr := domain.TrackedRepository{
			Owner:       owner,
			Repo:        repo,
			Name:        strings.TrimSpace(props.Name),
			Description: strings.TrimSpace(props.Description),
			Branch:      strings.TrimSpace(props.Branch),
		}
		if tr.Branch == "" {
			tr.Branch = DefaultBranch
		}

		// Repository names are case-insensitive on GitHub
		key := strings.ToLower(tr.ID())
		if seen[key] {
			continue
		}
		seen[key] = true

		repos = append(repos, tr)
	}

	if len(repos) == 0 {
		return nil, fmt.Errorf("no tracked repositories found")
	}

	return repos, nil
}
