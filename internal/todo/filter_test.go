package todo

import (
	"testing"
	"time"
)

func TestCriteriaMatches(t *testing.T) {
	task := &Task{
		ID:          "1",
		Title:       "Buy Milk",
		Description: "From the corner SHOP",
		Status:      StatusPending,
		Tags:        []string{"errand", "home"},
		Priority:    PriorityLow,
		CreatedAt:   time.Now(),
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     bool
	}{
		{"no criteria", Criteria{}, true},
		{"status match", Criteria{Status: StatusPending}, true},
		{"status mismatch", Criteria{Status: StatusCompleted}, false},
		{"tag match", Criteria{Tag: "home"}, true},
		{"tag mismatch", Criteria{Tag: "work"}, false},
		{"tag is exact", Criteria{Tag: "err"}, false},
		{"status and tag", Criteria{Status: StatusPending, Tag: "errand"}, true},
		{"status ok tag wrong", Criteria{Status: StatusPending, Tag: "work"}, false},
		{"search title case-insensitive", Criteria{Search: "milk"}, true},
		{"search description", Criteria{Search: "corner shop"}, true},
		{"search miss", Criteria{Search: "bread"}, false},
		// Search text decides alone once present.
		{"search overrides status mismatch", Criteria{Status: StatusCompleted, Search: "milk"}, true},
		{"search overrides tag mismatch", Criteria{Tag: "work", Search: "MILK"}, true},
		{"search miss beats status match", Criteria{Status: StatusPending, Search: "bread"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.criteria.Matches(task); got != tt.want {
				t.Errorf("Matches(%+v): got %v, want %v", tt.criteria, got, tt.want)
			}
		})
	}
}

func TestFilterDoesNotMutate(t *testing.T) {
	s := openTestStore(t, newFakeSlot())
	mustCreate(t, s, "one", "", []string{"a"}, PriorityLow)
	mustCreate(t, s, "two", "", []string{"b"}, PriorityLow)

	got := s.Filter(Criteria{Tag: "a"})
	if len(got) != 1 || got[0].Title != "one" {
		t.Fatalf("Filter: %+v", got)
	}
	got[0].Title = "changed"
	got[0].Tags[0] = "changed"

	all := s.List()
	if len(all) != 2 || all[0].Title != "one" || all[0].Tags[0] != "a" {
		t.Errorf("stored collection changed: %+v", all)
	}
	if empty := s.Filter(Criteria{Tag: "none"}); empty == nil || len(empty) != 0 {
		t.Errorf("Filter with no match: got %v, want empty slice", empty)
	}
}
