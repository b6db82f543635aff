package features

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"panelfeat/pkg/contracts/domain"
)

func TestLegalityClassifier(t *testing.T) {
	// Panel sequence around the marketplace purge window.
	panels := []*domain.Panel{
		testPanel(t, "2019-12-01", "greenleaf", "oldtimer", "survivor", "doubly"),
		testPanel(t, "2019-12-15", "purged", "survivor", "doubly"),
		testPanel(t, "2020-01-12", "greenleaf", "survivor", "newcomer"),
	}
	tracker := NewTracker(panels)
	classifier := NewLegalityClassifier(date(t, "2019-12-15"), date(t, "2020-01-12"), nil)
	flags := classifier.Classify(tracker)

	tests := []struct {
		name string
		slug string
		want LegalityFlags
	}{
		{
			// Absent at the first reference date but present at the second:
			// presence at the second reference date clears both flags.
			name: "present at second reference date is never flagged",
			slug: "greenleaf",
			want: LegalityFlags{},
		},
		{
			name: "present at first reference date and gone by the second",
			slug: "purged",
			want: LegalityFlags{Illegal1912: true},
		},
		{
			name: "present before the first reference date and gone by the second",
			slug: "oldtimer",
			want: LegalityFlags{IllegalOther: true},
		},
		{
			name: "present before and at the first date and gone by the second carries both flags",
			slug: "doubly",
			want: LegalityFlags{Illegal1912: true, IllegalOther: true},
		},
		{
			name: "present throughout is never flagged",
			slug: "survivor",
			want: LegalityFlags{},
		},
		{
			name: "first seen at the second reference date is never flagged",
			slug: "newcomer",
			want: LegalityFlags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flags[tt.slug])
		})
	}
}

func TestLegalityClassifierMissingReferencePanels(t *testing.T) {
	panels := []*domain.Panel{
		testPanel(t, "2019-12-01", "greenleaf"),
		testPanel(t, "2019-12-15", "greenleaf"),
	}
	tracker := NewTracker(panels)

	// Second reference date has no panel: the comparison is undefined and
	// every flag defaults to false.
	classifier := NewLegalityClassifier(date(t, "2019-12-15"), date(t, "2020-01-12"), nil)
	flags := classifier.Classify(tracker)

	for slug, f := range flags {
		assert.Equal(t, LegalityFlags{}, f, "slug %s", slug)
	}
}
