package features

import (
	"panelfeat/internal/registry"
	"panelfeat/pkg/contracts/domain"
)

// LicenseFeatures is the license-derived feature block of one (slug, panel)
// appearance.
type LicenseFeatures struct {
	License             string
	LicenseBusinessType string
	Status              domain.LicenseStatus
	StatusDate          string
	IssueDate           string
	AdultUse            bool
	Medicinal           bool

	ActiveLicense    bool
	CanceledLicense  bool
	ExpiredLicense   bool
	RevokedLicense   bool
	SuspendedLicense bool

	PossibleLicense       bool
	FutureLicenseExplicit bool
	AssumedLicense        bool

	// Matched records whether the displayed license hit the registry; it
	// drives the assumed-license back-fill and is not itself an output
	// column.
	Matched bool
}

// LicenseMatcher matches displayed licenses against the official registry as
// of each panel's scrape date.
type LicenseMatcher struct {
	registry *registry.Registry
}

// NewLicenseMatcher creates a matcher over the loaded registry.
func NewLicenseMatcher(reg *registry.Registry) *LicenseMatcher {
	return &LicenseMatcher{registry: reg}
}

// MatchPanel computes the direct-match license features for every snapshot in
// the panel. This is the first of the two passes; AssumedLicense stays false
// here and is back-filled by BackfillAssumed once every panel has been
// matched.
func (m *LicenseMatcher) MatchPanel(panel *domain.Panel) map[string]LicenseFeatures {
	results := make(map[string]LicenseFeatures, len(panel.Snapshots))
	for i := range panel.Snapshots {
		snap := &panel.Snapshots[i]
		results[snap.Slug] = m.match(snap, panel)
	}
	return results
}

func (m *LicenseMatcher) match(snap *domain.StorefrontSnapshot, panel *domain.Panel) LicenseFeatures {
	var feats LicenseFeatures

	normalized := registry.NormalizeLicenseNumber(snap.DisplayedLicense)
	if normalized == "" {
		return feats
	}

	rec, ok := m.registry.LookupAsOf(normalized, panel.Date)
	if !ok {
		// Displayed license absent from the registry: a normal branch, not an
		// error.
		feats.PossibleLicense = true
		return feats
	}

	feats.Matched = true
	feats.License = normalized
	feats.LicenseBusinessType = rec.BusinessType
	feats.Status = rec.Status
	feats.StatusDate = rec.StatusDateRaw
	feats.IssueDate = rec.IssueDateRaw
	feats.AdultUse = rec.AdultUse()
	feats.Medicinal = rec.Medicinal()

	switch rec.Status {
	case domain.LicenseStatusActive:
		feats.ActiveLicense = true
	case domain.LicenseStatusCanceled:
		feats.CanceledLicense = true
	case domain.LicenseStatusExpired:
		feats.ExpiredLicense = true
	case domain.LicenseStatusRevoked:
		feats.RevokedLicense = true
	case domain.LicenseStatusSuspended:
		feats.SuspendedLicense = true
	}

	if rec.IssueDateValid && rec.IssueDate.After(panel.Date) {
		feats.FutureLicenseExplicit = true
	}
	return feats
}

// BackfillAssumed implements the second pass over per-panel direct-match
// results: a slug with no registry match at panel i but a verified match in
// any strictly later panel gets AssumedLicense, and PossibleLicense is
// superseded on that row. direct is indexed by panel position in the run's
// ordered sequence and is mutated in place.
func BackfillAssumed(direct []map[string]LicenseFeatures) {
	if len(direct) == 0 {
		return
	}

	// verifiedAfter[i] holds the slugs with a direct match in any panel
	// strictly after i, built by a reverse scan.
	verifiedAfter := make([]map[string]struct{}, len(direct))
	later := make(map[string]struct{})
	for i := len(direct) - 1; i >= 0; i-- {
		verifiedAfter[i] = later
		next := make(map[string]struct{}, len(later)+len(direct[i]))
		for slug := range later {
			next[slug] = struct{}{}
		}
		for slug, feats := range direct[i] {
			if feats.Matched {
				next[slug] = struct{}{}
			}
		}
		later = next
	}

	for i, panelFeatures := range direct {
		for slug, feats := range panelFeatures {
			if feats.Matched {
				continue
			}
			if _, ok := verifiedAfter[i][slug]; !ok {
				continue
			}
			feats.AssumedLicense = true
			feats.PossibleLicense = false
			panelFeatures[slug] = feats
		}
	}
}
