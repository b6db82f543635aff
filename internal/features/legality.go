package features

import (
	"log/slog"
	"time"

	"panelfeat/internal/config"
)

// LegalityFlags are the per-slug legality features. They attach to every
// feature row of the slug, in every panel.
type LegalityFlags struct {
	// Illegal1912: present in the panel dated at the first reference date and
	// absent from the panel dated at the second.
	Illegal1912 bool
	// IllegalOther: present in some panel dated strictly before the first
	// reference date and absent from the panel dated at the second.
	IllegalOther bool
}

// LegalityClassifier derives legality flags from presence history at two
// fixed reference dates bracketing the marketplace's purge of unlicensed
// storefronts.
type LegalityClassifier struct {
	firstDate  time.Time
	secondDate time.Time
	logger     *slog.Logger
}

// NewLegalityClassifier creates a classifier for the two reference dates.
func NewLegalityClassifier(firstDate, secondDate time.Time, logger *slog.Logger) *LegalityClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LegalityClassifier{firstDate: firstDate, secondDate: secondDate, logger: logger}
}

// Classify computes the legality flags for every slug the tracker has ever
// observed. When either reference date has no panel in the input, the flags
// stay false for every slug: the comparison is undefined, not an error.
func (c *LegalityClassifier) Classify(tracker *Tracker) map[string]LegalityFlags {
	flags := make(map[string]LegalityFlags, len(tracker.Slugs()))
	for _, slug := range tracker.Slugs() {
		flags[slug] = LegalityFlags{}
	}

	firstIdx := panelIndexAt(tracker, c.firstDate)
	secondIdx := panelIndexAt(tracker, c.secondDate)
	if firstIdx < 0 || secondIdx < 0 {
		c.logger.Warn("Reference-date panels missing, legality flags default to false",
			slog.String("first_date", c.firstDate.Format(config.DateLayout)),
			slog.Bool("first_panel_found", firstIdx >= 0),
			slog.String("second_date", c.secondDate.Format(config.DateLayout)),
			slog.Bool("second_panel_found", secondIdx >= 0))
		return flags
	}

	for slug := range flags {
		if tracker.PresentAt(slug, secondIdx) {
			continue
		}
		f := LegalityFlags{
			Illegal1912: tracker.PresentAt(slug, firstIdx),
		}
		hist, _ := tracker.History(slug)
		for _, idx := range hist.PanelIndex {
			if tracker.Panels()[idx].Date.Before(c.firstDate) {
				f.IllegalOther = true
				break
			}
		}
		flags[slug] = f
	}
	return flags
}

// panelIndexAt returns the index of the panel scraped on the given date, or
// -1 when no panel carries that date.
func panelIndexAt(tracker *Tracker, date time.Time) int {
	for i, panel := range tracker.Panels() {
		if sameDay(panel.Date, date) {
			return i
		}
	}
	return -1
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
