package markdown

import (
	"reflect"
	"testing"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

func TestCollapseUmbrella(t *testing.T) {
	items := []domain.ListItem{
		{ID: "1", Category: "Software", Subcategory: "Analytics"},
		{ID: "2", Category: "Software", Subcategory: "Monitoring"},
		{ID: "3", Category: "Software", Subcategory: "Analytics"},
		{ID: "4", Category: "Tools", Subcategory: "Hand"},
	}
	cats := []string{"Software", "Tools"}
	subs := map[string][]string{
		"Software": {"Analytics", "Monitoring"},
		"Tools":    {"Hand"},
	}

	gotItems, gotCats, gotSubs := CollapseUmbrella(items, cats, subs, DefaultUmbrellaThreshold)

	if !reflect.DeepEqual(gotCats, []string{"Analytics", "Monitoring", "Tools"}) {
		t.Errorf("categories = %v", gotCats)
	}
	if len(gotSubs["Analytics"]) != 0 || !reflect.DeepEqual(gotSubs["Tools"], []string{"Hand"}) {
		t.Errorf("subcategories = %v", gotSubs)
	}
	if _, ok := gotSubs["Software"]; ok {
		t.Error("umbrella still present in subcategories")
	}

	wantCats := []string{"Analytics", "Monitoring", "Analytics", "Tools"}
	for i, it := range gotItems {
		if it.Category != wantCats[i] {
			t.Errorf("item %s category = %q, want %q", it.ID, it.Category, wantCats[i])
		}
	}
	if gotItems[0].Subcategory != "" {
		t.Errorf("promoted item kept subcategory %q", gotItems[0].Subcategory)
	}
	if gotItems[3].Subcategory != "Hand" {
		t.Errorf("untouched item lost subcategory")
	}

	// inputs are not modified
	if items[0].Category != "Software" || cats[0] != "Software" {
		t.Error("CollapseUmbrella() mutated its inputs")
	}
}

func TestCollapseUmbrellaThreshold(t *testing.T) {
	items := []domain.ListItem{{ID: "1", Category: "Software", Subcategory: "Analytics"}}
	cats := []string{"Software", "A", "B", "C", "D", "E"}
	subs := map[string][]string{"Software": {"Analytics"}}

	_, gotCats, _ := CollapseUmbrella(items, cats, subs, DefaultUmbrellaThreshold)
	if !reflect.DeepEqual(gotCats, cats) {
		t.Errorf("categories = %v, want unchanged with 5 real categories", gotCats)
	}

	_, gotCats, _ = CollapseUmbrella(items, cats, subs, 10)
	if gotCats[0] != "Analytics" {
		t.Errorf("categories = %v, want collapse with threshold 10", gotCats)
	}
}

func TestCollapseUmbrellaWithoutSubcategories(t *testing.T) {
	items := []domain.ListItem{{ID: "1", Category: "Software"}}
	cats := []string{"Software"}
	subs := map[string][]string{"Software": {}}

	gotItems, gotCats, _ := CollapseUmbrella(items, cats, subs, 0)
	if !reflect.DeepEqual(gotCats, cats) || gotItems[0].Category != "Software" {
		t.Errorf("CollapseUmbrella() changed a list with no umbrella subcategories: %v", gotCats)
	}
}
