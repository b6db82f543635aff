package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelfeat/internal/registry"
	"panelfeat/pkg/contracts/domain"
)

func testRegistry(t *testing.T, records ...domain.LicenseRecord) *registry.Registry {
	t.Helper()
	for i := range records {
		if records[i].StatusDateRaw != "" {
			parsed, err := time.Parse("2006-01-02", records[i].StatusDateRaw)
			require.NoError(t, err)
			records[i].StatusDate, records[i].StatusDateValid = parsed, true
		}
		if records[i].IssueDateRaw != "" {
			parsed, err := time.Parse("2006-01-02", records[i].IssueDateRaw)
			require.NoError(t, err)
			records[i].IssueDate, records[i].IssueDateValid = parsed, true
		}
	}
	return registry.New(records)
}

func licensedPanel(t *testing.T, dateStr string, licenses map[string]string) *domain.Panel {
	t.Helper()
	panel := &domain.Panel{Date: date(t, dateStr), Name: dateStr}
	for slug, license := range licenses {
		panel.Snapshots = append(panel.Snapshots, domain.StorefrontSnapshot{
			Slug:             slug,
			URL:              "https://example.com/dispensaries/" + slug,
			DisplayedLicense: license,
		})
	}
	return panel
}

func TestLicenseMatcherMatchPanel(t *testing.T) {
	reg := testRegistry(t,
		domain.LicenseRecord{
			LicenseNumber: "C10-000123",
			BusinessType:  "retailer",
			Status:        domain.LicenseStatusActive,
			CustomerType:  "Adult-Use and Medicinal",
			StatusDateRaw: "2019-11-01",
			IssueDateRaw:  "2019-06-01",
		},
		domain.LicenseRecord{
			LicenseNumber: "C10-000123",
			Status:        domain.LicenseStatusSuspended,
			StatusDateRaw: "2019-12-10",
			IssueDateRaw:  "2019-06-01",
		},
		domain.LicenseRecord{
			LicenseNumber: "C12-000777",
			Status:        domain.LicenseStatusActive,
			StatusDateRaw: "2019-11-01",
			IssueDateRaw:  "2020-06-01",
		},
	)
	matcher := NewLicenseMatcher(reg)

	tests := []struct {
		name      string
		panelDate string
		license   string
		check     func(t *testing.T, feats LicenseFeatures)
	}{
		{
			name:      "matched record is the latest status at or before the panel date",
			panelDate: "2019-11-15",
			license:   "C10-000123",
			check: func(t *testing.T, feats LicenseFeatures) {
				assert.True(t, feats.Matched)
				assert.Equal(t, "C10000123", feats.License)
				assert.Equal(t, "retailer", feats.LicenseBusinessType)
				assert.True(t, feats.ActiveLicense)
				assert.True(t, feats.AdultUse)
				assert.True(t, feats.Medicinal)
				assert.False(t, feats.FutureLicenseExplicit)
			},
		},
		{
			name:      "later status snapshot supersedes the earlier one",
			panelDate: "2019-12-15",
			license:   "C10-000123",
			check: func(t *testing.T, feats LicenseFeatures) {
				assert.True(t, feats.SuspendedLicense)
				assert.False(t, feats.ActiveLicense)
			},
		},
		{
			name:      "issue date after the panel date flags a future license",
			panelDate: "2019-12-15",
			license:   "C12-000777",
			check: func(t *testing.T, feats LicenseFeatures) {
				assert.True(t, feats.Matched)
				assert.True(t, feats.FutureLicenseExplicit)
			},
		},
		{
			name:      "displayed license absent from the registry is a possible license",
			panelDate: "2019-12-15",
			license:   "C99-999999",
			check: func(t *testing.T, feats LicenseFeatures) {
				assert.False(t, feats.Matched)
				assert.True(t, feats.PossibleLicense)
				assert.Empty(t, feats.License)
			},
		},
		{
			name:      "empty displayed license matches nothing",
			panelDate: "2019-12-15",
			license:   "",
			check: func(t *testing.T, feats LicenseFeatures) {
				assert.False(t, feats.Matched)
				assert.False(t, feats.PossibleLicense)
			},
		},
		{
			name:      "placeholder displayed license counts as no license",
			panelDate: "2019-12-15",
			license:   "n/a",
			check: func(t *testing.T, feats LicenseFeatures) {
				assert.False(t, feats.Matched)
				assert.False(t, feats.PossibleLicense)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := licensedPanel(t, tt.panelDate, map[string]string{"shop": tt.license})
			feats := matcher.MatchPanel(panel)["shop"]
			tt.check(t, feats)
		})
	}
}

func TestLicenseStatusBooleansExclusive(t *testing.T) {
	reg := testRegistry(t,
		domain.LicenseRecord{LicenseNumber: "A1", Status: domain.LicenseStatusActive, StatusDateRaw: "2019-01-01"},
		domain.LicenseRecord{LicenseNumber: "A2", Status: domain.LicenseStatusCanceled, StatusDateRaw: "2019-01-01"},
		domain.LicenseRecord{LicenseNumber: "A3", Status: domain.LicenseStatusExpired, StatusDateRaw: "2019-01-01"},
		domain.LicenseRecord{LicenseNumber: "A4", Status: domain.LicenseStatusRevoked, StatusDateRaw: "2019-01-01"},
		domain.LicenseRecord{LicenseNumber: "A5", Status: domain.LicenseStatusSuspended, StatusDateRaw: "2019-01-01"},
	)
	matcher := NewLicenseMatcher(reg)

	panel := licensedPanel(t, "2019-12-15", map[string]string{
		"s1": "A1", "s2": "A2", "s3": "A3", "s4": "A4", "s5": "A5", "s6": "UNKNOWN",
	})
	for slug, feats := range matcher.MatchPanel(panel) {
		trueCount := 0
		for _, b := range []bool{
			feats.ActiveLicense, feats.CanceledLicense, feats.ExpiredLicense,
			feats.RevokedLicense, feats.SuspendedLicense,
		} {
			if b {
				trueCount++
			}
		}
		if feats.License != "" {
			assert.Equal(t, 1, trueCount, "exactly one status boolean for %s", slug)
		} else {
			assert.Equal(t, 0, trueCount, "no status booleans without a match for %s", slug)
		}
	}
}

func TestBackfillAssumed(t *testing.T) {
	// A license verified in panel 3 back-fills assumed_license onto the same
	// slug's unmatched appearances in panels 1 and 2.
	direct := []map[string]LicenseFeatures{
		{"shop": {PossibleLicense: true}},
		{"shop": {PossibleLicense: true}},
		{"shop": {Matched: true, License: "C10000123", ActiveLicense: true}},
	}
	BackfillAssumed(direct)

	assert.True(t, direct[0]["shop"].AssumedLicense)
	assert.False(t, direct[0]["shop"].PossibleLicense, "assumed supersedes possible")
	assert.True(t, direct[1]["shop"].AssumedLicense)
	assert.False(t, direct[2]["shop"].AssumedLicense, "the verified panel itself is not assumed")
	assert.True(t, direct[2]["shop"].Matched)
}

func TestBackfillAssumedRequiresLaterMatch(t *testing.T) {
	direct := []map[string]LicenseFeatures{
		{"shop": {Matched: true, License: "C10000123"}},
		{"shop": {PossibleLicense: true}},
		{"other": {PossibleLicense: true}},
	}
	BackfillAssumed(direct)

	assert.False(t, direct[1]["shop"].AssumedLicense,
		"a match in an earlier panel never back-fills forward")
	assert.True(t, direct[1]["shop"].PossibleLicense)
	assert.False(t, direct[2]["other"].AssumedLicense)
}
