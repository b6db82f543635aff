package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelfeat/pkg/contracts/domain"
)

func TestNewChangeDetector(t *testing.T) {
	_, err := NewChangeDetector([]string{"address", "name", "email"})
	assert.NoError(t, err)

	_, err = NewChangeDetector([]string{"address", "tax_id"})
	assert.Error(t, err)
}

func TestChangeDetectorChanges(t *testing.T) {
	snap := func(slug, address, name string) domain.StorefrontSnapshot {
		return domain.StorefrontSnapshot{
			Slug:    slug,
			URL:     "https://example.com/dispensaries/" + slug,
			Address: address,
			Name:    name,
		}
	}
	panels := []*domain.Panel{
		{Date: date(t, "2019-11-03"), Snapshots: []domain.StorefrontSnapshot{
			snap("greenleaf", "12 Oak St", "Green Leaf"),
		}},
		{Date: date(t, "2019-12-01"), Snapshots: []domain.StorefrontSnapshot{
			snap("greenleaf", "99 Elm Ave", "Green Leaf"),
		}},
		{Date: date(t, "2019-12-15"), Snapshots: []domain.StorefrontSnapshot{}},
		{Date: date(t, "2020-01-12"), Snapshots: []domain.StorefrontSnapshot{
			snap("greenleaf", "99  ELM   Ave", "Greener Leaf"),
		}},
	}
	tracker := NewTracker(panels)
	detector, err := NewChangeDetector([]string{"address", "name"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		panel int
		want  map[string]bool
	}{
		{
			name:  "first appearance has nothing to compare",
			panel: 0,
			want:  map[string]bool{"address": false, "name": false},
		},
		{
			name:  "address changed between consecutive appearances",
			panel: 1,
			want:  map[string]bool{"address": true, "name": false},
		},
		{
			name:  "comparison across a gap uses the previous appearance and normalizes whitespace and case",
			panel: 3,
			want:  map[string]bool{"address": false, "name": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Changes(tracker, "greenleaf", tt.panel))
		})
	}
}

func TestChangeDetectorUnknownSlug(t *testing.T) {
	tracker := NewTracker([]*domain.Panel{
		{Date: date(t, "2019-11-03")},
	})
	detector, err := NewChangeDetector([]string{"email"})
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"email": false}, detector.Changes(tracker, "ghost", 0))
}
