package tracked

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

// envVarPattern matches ${VAR} references in the tracked file
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Loader reads the tracked repositories file
type Loader struct {
	filePath string
}

// NewLoader creates a new tracked repositories loader.
// An empty path makes Load return the built-in defaults.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads, parses and maps the tracked repositories file
func (l *Loader) Load() ([]domain.TrackedRepository, error) {
	if l.filePath == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracked file: %w", err)
	}

	data = expandEnv(data)

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tracked yaml: %w", err)
	}

	return Map(file)
}

// expandEnv substitutes ${VAR} with the environment value (empty if unset)
func expandEnv(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envVarPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// Defaults returns the repositories tracked when no file is configured
func Defaults() []domain.TrackedRepository {
	return []domain.TrackedRepository{
		{
			Owner:       "awesome-selfhosted",
			Repo:        "awesome-selfhosted",
			Name:        "Awesome Selfhosted",
			Description: "A list of Free Software network services and web applications which can be hosted on your own servers",
			Branch:      DefaultBranch,
		},
	}
}
