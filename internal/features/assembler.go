package features

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"panelfeat/internal/company"
	"panelfeat/pkg/contracts/domain"
)

// PanelFeatures bundles one panel's feature rows and its company clustering.
// Rows are sorted by slug so reruns over identical input are byte-identical.
type PanelFeatures struct {
	Panel    *domain.Panel
	Rows     []domain.FeatureRow
	Clusters []domain.CompanyCluster
}

// Assembler merges the per-component feature outputs into one feature row per
// (slug, panel) appearance. It owns the two-pass evaluation order: pass one
// builds the full history index and every panel's direct license matches,
// pass two derives the history-dependent features against that read-only
// index.
type Assembler struct {
	changes    *ChangeDetector
	matcher    *LicenseMatcher
	classifier *LegalityClassifier
	grouper    *company.Grouper
	logger     *slog.Logger
}

// NewAssembler wires the feature components together.
func NewAssembler(changes *ChangeDetector, matcher *LicenseMatcher, classifier *LegalityClassifier, grouper *company.Grouper, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		changes:    changes,
		matcher:    matcher,
		classifier: classifier,
		grouper:    grouper,
		logger:     logger,
	}
}

// Run featurizes the full ordered panel sequence.
func (a *Assembler) Run(ctx context.Context, panels []*domain.Panel) ([]*PanelFeatures, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("panel sequence is empty")
	}

	// Pass 1: history index and direct license matches for every panel. Both
	// must be complete before any history-dependent feature is evaluated.
	tracker := NewTracker(panels)
	direct := make([]map[string]LicenseFeatures, len(panels))
	for i, panel := range panels {
		direct[i] = a.matcher.MatchPanel(panel)
	}
	BackfillAssumed(direct)
	legality := a.classifier.Classify(tracker)

	a.logger.InfoContext(ctx, "History index built",
		slog.Int("panel_count", len(panels)),
		slog.Int("slug_count", len(tracker.Slugs())))

	// Pass 2: per-panel feature derivation over the read-only index. Panels
	// are mutually independent here, so the work fans out.
	results := make([]*PanelFeatures, len(panels))
	g, gctx := errgroup.WithContext(ctx)
	for i := range panels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.assemblePanel(tracker, i, direct[i], legality)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("panel featurization failed: %w", err)
	}
	return results, nil
}

func (a *Assembler) assemblePanel(tracker *Tracker, i int, direct map[string]LicenseFeatures, legality map[string]LegalityFlags) *PanelFeatures {
	panel := tracker.Panels()[i]
	clusters := a.grouper.Group(panel)

	rows := make([]domain.FeatureRow, 0, len(panel.Snapshots))
	for j := range panel.Snapshots {
		snap := &panel.Snapshots[j]
		presence := tracker.Presence(snap.Slug, i)
		lic := direct[snap.Slug]
		legal := legality[snap.Slug]

		rows = append(rows, domain.FeatureRow{
			Slug:             snap.Slug,
			URL:              snap.URL,
			PanelDate:        panel.Date,
			Name:             snap.Name,
			Address:          snap.Address,
			Email:            snap.Email,
			Phone:            snap.Phone,
			DisplayedLicense: snap.DisplayedLicense,
			IsDispensary:     snap.IsDispensary,
			IsDelivery:       snap.IsDelivery,

			Continued:   presence.Continued,
			Disappeared: presence.Disappeared,
			Reappeared:  presence.Reappeared,

			Changed: a.changes.Changes(tracker, snap.Slug, i),

			License:             lic.License,
			LicenseBusinessType: lic.LicenseBusinessType,
			Status:              lic.Status,
			StatusDate:          lic.StatusDate,
			IssueDate:           lic.IssueDate,
			AdultUse:            lic.AdultUse,
			Medicinal:           lic.Medicinal,
			ActiveLicense:       lic.ActiveLicense,
			CanceledLicense:     lic.CanceledLicense,
			ExpiredLicense:      lic.ExpiredLicense,
			RevokedLicense:      lic.RevokedLicense,
			SuspendedLicense:    lic.SuspendedLicense,

			PossibleLicense:       lic.PossibleLicense,
			FutureLicenseExplicit: lic.FutureLicenseExplicit,
			AssumedLicense:        lic.AssumedLicense,

			Illegal1912:  legal.Illegal1912,
			IllegalOther: legal.IllegalOther,
		})
	}

	sort.Slice(rows, func(a, b int) bool { return rows[a].Slug < rows[b].Slug })

	return &PanelFeatures{
		Panel:    panel,
		Rows:     rows,
		Clusters: clusters,
	}
}
