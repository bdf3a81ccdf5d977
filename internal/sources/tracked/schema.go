package tracked

// File represents the top-level structure of tracked.yaml
//
//	repositories:
//	  - owner: awesome-selfhosted
//	    repo: awesome-selfhosted
//	    branch: master
type File struct {
	Repositories []RepositoryProps `yaml:"repositories"`
}

// RepositoryProps contains the properties of one tracked repository
type RepositoryProps struct {
	Owner       string `yaml:"owner"`
	Repo        string `yaml:"repo"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Branch      string `yaml:"branch,omitempty"`
	Disabled    bool   `yaml:"disabled,omitempty"`
}
