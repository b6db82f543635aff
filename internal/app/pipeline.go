// Package app wires the featurization pipeline: load panels and registry,
// run the two-pass feature engine, and persist the outputs.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"panelfeat/internal/company"
	"panelfeat/internal/config"
	"panelfeat/internal/exporter"
	"panelfeat/internal/features"
	"panelfeat/internal/panels"
	"panelfeat/internal/registry"
	"panelfeat/internal/store"
)

// Summary reports what a pipeline run produced.
type Summary struct {
	Panels       int
	FeatureRows  int
	Companies    int
	FeatureFiles []string
	CompanyFiles []string
}

// Pipeline is the offline batch run over one panel collection.
type Pipeline struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a pipeline. A nil tracer disables stage spans.
func New(cfg *config.Config, paths *config.Paths, logger *slog.Logger, tracer trace.Tracer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("panelfeat")
	}
	return &Pipeline{cfg: cfg, paths: paths, logger: logger, tracer: tracer}
}

// Run executes the full batch: load, featurize, export. The run is
// deterministic; re-running over identical input produces byte-identical
// outputs.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := p.paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	ctx, loadSpan := p.tracer.Start(ctx, "load")
	panelSeq, err := panels.NewLoader(p.logger).LoadDir(p.paths.PanelsDir)
	if err != nil {
		loadSpan.End()
		return nil, fmt.Errorf("panel loading failed: %w", err)
	}
	reg, err := registry.NewLoader(p.logger).LoadDir(p.paths.RegistryDir)
	if err != nil {
		loadSpan.End()
		return nil, fmt.Errorf("registry loading failed: %w", err)
	}
	loadSpan.SetAttributes(
		attribute.Int("panels", len(panelSeq)),
		attribute.Int("licenses", reg.Size()),
	)
	loadSpan.End()

	assembler, err := p.buildAssembler(reg)
	if err != nil {
		return nil, err
	}

	ctx, featurizeSpan := p.tracer.Start(ctx, "featurize")
	results, err := assembler.Run(ctx, panelSeq)
	featurizeSpan.End()
	if err != nil {
		return nil, err
	}

	ctx, exportSpan := p.tracer.Start(ctx, "export")
	defer exportSpan.End()
	return p.export(ctx, results)
}

func (p *Pipeline) buildAssembler(reg *registry.Registry) (*features.Assembler, error) {
	changes, err := features.NewChangeDetector(p.cfg.Features.TrackedChangeFields)
	if err != nil {
		return nil, err
	}
	d1, d2, err := p.cfg.Legality.ReferenceDates()
	if err != nil {
		return nil, err
	}
	return features.NewAssembler(
		changes,
		features.NewLicenseMatcher(reg),
		features.NewLegalityClassifier(d1, d2, p.logger),
		company.NewGrouper(p.cfg.Company.SimilarityThreshold),
		p.logger,
	), nil
}

func (p *Pipeline) export(ctx context.Context, results []*features.PanelFeatures) (*Summary, error) {
	csvWriter := exporter.NewCSVWriter(p.logger)
	featureWriter := exporter.NewFeatureWriter(csvWriter, p.paths, p.cfg.Features.TrackedChangeFields)
	companyWriter := exporter.NewCompanyFileWriter(csvWriter, p.paths)

	var featureStore *store.Store
	if p.cfg.Store.Enabled {
		var err error
		featureStore, err = store.Open(p.paths.StorePath)
		if err != nil {
			return nil, err
		}
		defer featureStore.Close()
	}

	summary := &Summary{Panels: len(results)}
	for _, pf := range results {
		featurePath, err := featureWriter.WritePanel(pf)
		if err != nil {
			return nil, err
		}
		companyPath, err := companyWriter.WritePanel(pf)
		if err != nil {
			return nil, err
		}
		if featureStore != nil {
			if err := featureStore.ReplacePanel(ctx, pf); err != nil {
				return nil, err
			}
		}

		summary.FeatureRows += len(pf.Rows)
		summary.Companies += len(pf.Clusters)
		summary.FeatureFiles = append(summary.FeatureFiles, featurePath)
		summary.CompanyFiles = append(summary.CompanyFiles, companyPath)

		p.logger.Info("Panel featurized",
			slog.String("panel", pf.Panel.Name),
			slog.Int("rows", len(pf.Rows)),
			slog.Int("companies", len(pf.Clusters)))
	}

	p.logger.Info("Run complete",
		slog.Int("panels", summary.Panels),
		slog.Int("feature_rows", summary.FeatureRows),
		slog.Int("companies", summary.Companies))
	return summary, nil
}
