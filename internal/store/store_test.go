package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelfeat/internal/features"
	"panelfeat/pkg/contracts/domain"
)

func storedPanel(t *testing.T, date string, slugs ...string) *features.PanelFeatures {
	t.Helper()
	panelDate, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	pf := &features.PanelFeatures{
		Panel: &domain.Panel{Date: panelDate, Name: date},
	}
	for _, slug := range slugs {
		pf.Rows = append(pf.Rows, domain.FeatureRow{
			Slug:      slug,
			URL:       "https://weedmaps.com/dispensaries/" + slug,
			PanelDate: panelDate,
			Changed:   map[string]bool{"address": false, "name": true},
		})
	}
	if len(slugs) > 0 {
		pf.Clusters = []domain.CompanyCluster{{ID: 1, PanelDate: panelDate, Slugs: slugs}}
	}
	return pf
}

func TestReplacePanel(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	require.NoError(t, s.ReplacePanel(ctx, storedPanel(t, "2019-12-15", "green-leaf", "fast-buds")))

	count, err := s.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// A rerun over the same panel replaces its rows instead of stacking them.
	require.NoError(t, s.ReplacePanel(ctx, storedPanel(t, "2019-12-15", "green-leaf")))

	count, err = s.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Other panels are untouched.
	require.NoError(t, s.ReplacePanel(ctx, storedPanel(t, "2020-01-12", "green-leaf")))

	count, err = s.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReplacePanelEmpty(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.ReplacePanel(ctx, storedPanel(t, "2019-12-15")))

	count, err := s.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
