package markdown

import "testing"

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Metadata
	}{
		{
			name: "all fields",
			in:   "[Demo](http://d.example) [Source Code](http://s.example) `MIT` `Python`",
			want: Metadata{
				Description:   "",
				DemoURL:       "http://d.example",
				SourceCodeURL: "http://s.example",
				License:       "MIT",
				TechStack:     "Python",
			},
		},
		{
			name: "selfhosted layout",
			in:   "Web analytics platform. ([Demo](https://demo.matomo.cloud/), [Source Code](https://github.com/matomo-org/matomo)) `GPL-3.0` `PHP`",
			want: Metadata{
				Description:   "Web analytics platform.",
				DemoURL:       "https://demo.matomo.cloud/",
				SourceCodeURL: "https://github.com/matomo-org/matomo",
				License:       "GPL-3.0",
				TechStack:     "PHP",
			},
		},
		{
			name: "license only",
			in:   "Small tool `MIT`",
			want: Metadata{Description: "Small tool", License: "MIT"},
		},
		{
			name: "no metadata",
			in:   "Just  a   description",
			want: Metadata{Description: "Just a description"},
		},
		{
			name: "separated spans are not a tech stack",
			in:   "Uses `MIT` and later `Go`",
			want: Metadata{Description: "Uses and later `Go`", License: "MIT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMetadata(tt.in); got != tt.want {
				t.Errorf("ExtractMetadata(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{" - A tool.", "A tool"},
		{"— Em dash lead.", "Em dash lead"},
		{"– En dash lead", "En dash lead"},
		{"multi\n  line   text.", "multi line text"},
		{"keeps inner - dash", "keeps inner - dash"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanDescription(tt.in); got != tt.want {
			t.Errorf("cleanDescription(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
