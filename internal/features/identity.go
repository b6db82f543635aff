// Package features derives the per-(slug, panel) feature set from the
// ordered panel sequence: presence tracking, attribute changes, license
// matching and legality flags, merged into feature rows by the assembler.
package features

import (
	"panelfeat/pkg/contracts/domain"
)

// PresenceFlags are the identity-tracking features of one (slug, panel)
// appearance.
type PresenceFlags struct {
	// Continued: the slug was present in the immediately preceding panel.
	// Always false on the first panel and on a slug's first-ever appearance.
	Continued bool
	// Disappeared: the slug is absent from the immediately following panel.
	// Always false on the final panel, which has no successor to check.
	Disappeared bool
	// Reappeared: the slug is absent from the immediately preceding panel but
	// appeared in at least one earlier panel. Distinguishes returning
	// storefronts from new ones.
	Reappeared bool
}

// Tracker owns the cross-panel storefront histories. It is built once over
// the full ordered panel sequence and read-only afterwards; every downstream
// component consults it through accessor methods.
type Tracker struct {
	panels    []*domain.Panel
	presence  []map[string]struct{}
	histories map[string]*domain.StorefrontHistory
}

// NewTracker builds the full history index over the ordered panel sequence.
func NewTracker(panels []*domain.Panel) *Tracker {
	t := &Tracker{
		panels:    panels,
		presence:  make([]map[string]struct{}, len(panels)),
		histories: make(map[string]*domain.StorefrontHistory),
	}
	for i, panel := range panels {
		t.presence[i] = panel.SlugSet()
		for j := range panel.Snapshots {
			snap := &panel.Snapshots[j]
			hist, ok := t.histories[snap.Slug]
			if !ok {
				hist = &domain.StorefrontHistory{Slug: snap.Slug}
				t.histories[snap.Slug] = hist
			}
			hist.PanelIndex = append(hist.PanelIndex, i)
			hist.Snapshots = append(hist.Snapshots, snap)
		}
	}
	return t
}

// Panels returns the ordered panel sequence the tracker was built over.
func (t *Tracker) Panels() []*domain.Panel {
	return t.panels
}

// History returns the storefront history for slug.
func (t *Tracker) History(slug string) (*domain.StorefrontHistory, bool) {
	hist, ok := t.histories[slug]
	return hist, ok
}

// Slugs returns every slug ever observed across the panel sequence.
func (t *Tracker) Slugs() []string {
	slugs := make([]string, 0, len(t.histories))
	for slug := range t.histories {
		slugs = append(slugs, slug)
	}
	return slugs
}

// PresentAt reports whether slug appears in the panel at index i.
func (t *Tracker) PresentAt(slug string, i int) bool {
	if i < 0 || i >= len(t.presence) {
		return false
	}
	_, ok := t.presence[i][slug]
	return ok
}

// Presence derives the presence flags for a slug appearing at panel index i.
// A slug's per-panel lifecycle moves from unseen to present to
// absent-after-present, and Reappeared fires on the transition from
// absent-after-present back to present.
func (t *Tracker) Presence(slug string, i int) PresenceFlags {
	var flags PresenceFlags
	if !t.PresentAt(slug, i) {
		return flags
	}

	flags.Continued = i > 0 && t.PresentAt(slug, i-1)
	flags.Disappeared = i < len(t.panels)-1 && !t.PresentAt(slug, i+1)

	if hist, ok := t.histories[slug]; ok {
		flags.Reappeared = i > 0 && !t.PresentAt(slug, i-1) && hist.FirstPanel() < i-1
	}
	return flags
}

// LastAppearanceBefore returns the slug's most recent snapshot strictly
// before panel index i, skipping panels where the slug was absent.
func (t *Tracker) LastAppearanceBefore(slug string, i int) (*domain.StorefrontSnapshot, bool) {
	hist, ok := t.histories[slug]
	if !ok {
		return nil, false
	}
	for pos := len(hist.PanelIndex) - 1; pos >= 0; pos-- {
		if hist.PanelIndex[pos] < i {
			return hist.Snapshots[pos], true
		}
	}
	return nil, false
}
