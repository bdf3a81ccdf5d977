package redis

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

func TestKeys(t *testing.T) {
	if got := ListKey("awesome-selfhosted/awesome-selfhosted"); got != "awesomehub:list:awesome-selfhosted/awesome-selfhosted" {
		t.Errorf("ListKey() = %q", got)
	}
	if got := DigestKey("o/r"); got != "awesomehub:readme:o/r" {
		t.Errorf("DigestKey() = %q", got)
	}
	if got := AllListsKey(); got != "awesomehub:lists:all" {
		t.Errorf("AllListsKey() = %q", got)
	}
}

func TestExtractListID(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{"valid", "awesomehub:list:o/r", "o/r", false},
		{"prefix only", "awesomehub:list:", "", true},
		{"other prefix", "awesomehub:readme:o/r", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractListID(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractListID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractListID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeList(t *testing.T) {
	list, err := decodeList("o/r", []byte(`{"name":"R","items":[{"id":"x","title":"X","url":"https://x","firstSeen":"2024-01-01T00:00:00.000Z","isNew":false}]}`))
	if err != nil {
		t.Fatalf("decodeList() error = %v", err)
	}
	if list.ID != "o/r" || len(list.Items) != 1 || list.Items[0].FirstSeen.Year() != 2024 {
		t.Errorf("decodeList() = %+v", list)
	}

	_, err = decodeList("o/r", []byte(`{"items":"nope"}`))
	if !errors.Is(err, domain.ErrCorruptPreviousState) {
		t.Errorf("decodeList(corrupt) error = %v, want ErrCorruptPreviousState", err)
	}
}

func TestListRoundTrip(t *testing.T) {
	seen := time.Date(2024, 3, 9, 14, 21, 7, 123456789, time.UTC)
	list := &domain.AwesomeList{
		ID:         "o/r",
		Name:       "Awesome R",
		Categories: []string{"Analytics", "Media"},
		Subcategories: map[string][]string{
			"Media": {"Audio", "Video"},
		},
		Items: []domain.ListItem{
			{ID: "9b2c", Title: "Umami", URL: "https://umami.is", Category: "Analytics", FirstSeen: seen, IsNew: true},
			{ID: "41aa", Title: "Jellyfin", URL: "https://jellyfin.org", Category: "Media", Subcategory: "Video", FirstSeen: seen.Add(-time.Hour)},
		},
		LastUpdated: seen,
	}

	data, err := encodeList(list)
	if err != nil {
		t.Fatalf("encodeList() error = %v", err)
	}
	got, err := decodeList(list.ID, data)
	if err != nil {
		t.Fatalf("decodeList() error = %v", err)
	}

	if got.ID != list.ID || len(got.Items) != len(list.Items) {
		t.Fatalf("decodeList() = %+v", got)
	}
	for i, want := range list.Items {
		it := got.Items[i]
		if it.ID != want.ID || it.IsNew != want.IsNew || it.Subcategory != want.Subcategory {
			t.Errorf("item %d = %+v, want %+v", i, it, want)
		}
		if !it.FirstSeen.Equal(want.FirstSeen) {
			t.Errorf("item %s firstSeen = %v, want %v", it.ID, it.FirstSeen, want.FirstSeen)
		}
	}
	if !reflect.DeepEqual(got.Categories, list.Categories) {
		t.Errorf("Categories = %v, want %v", got.Categories, list.Categories)
	}
	if !reflect.DeepEqual(got.Subcategories, list.Subcategories) {
		t.Errorf("Subcategories = %v, want %v", got.Subcategories, list.Subcategories)
	}
	if !got.LastUpdated.Equal(list.LastUpdated) {
		t.Errorf("LastUpdated = %v, want %v", got.LastUpdated, list.LastUpdated)
	}
}
