package exporter

import (
	"fmt"

	"panelfeat/internal/config"
	"panelfeat/internal/features"
	"panelfeat/pkg/contracts/domain"
)

// FeatureWriter writes one tagged feature file per panel. Every panel's file
// carries the identical column set, even when a feature never fires in that
// panel, so the longitudinal dataset concatenates cleanly.
type FeatureWriter struct {
	csvWriter     *CSVWriter
	paths         *config.Paths
	trackedFields []string
}

// NewFeatureWriter creates a feature file writer. trackedFields fixes the
// changed_<field> column order across every panel.
func NewFeatureWriter(csvWriter *CSVWriter, paths *config.Paths, trackedFields []string) *FeatureWriter {
	return &FeatureWriter{
		csvWriter:     csvWriter,
		paths:         paths,
		trackedFields: trackedFields,
	}
}

// WritePanel writes the feature rows of one panel to
// <panel-name>_tagged.csv and returns the file path.
func (w *FeatureWriter) WritePanel(pf *features.PanelFeatures) (string, error) {
	path := w.paths.GetPanelOutputPath(fmt.Sprintf("%s_tagged.csv", pf.Panel.Name))

	records := make([][]string, 0, len(pf.Rows))
	for i := range pf.Rows {
		records = append(records, w.rowToCSV(&pf.Rows[i]))
	}

	options := WriteOptions{
		Headers:   w.headers(),
		Records:   records,
		BOMPrefix: true,
	}
	if err := w.csvWriter.WriteCSV(path, options); err != nil {
		return "", fmt.Errorf("failed to write feature file for panel %s: %w", pf.Panel.Name, err)
	}
	return path, nil
}

func (w *FeatureWriter) headers() []string {
	headers := []string{
		"slug", "url", "panel_date",
		"name", "address", "email", "phone", "displayed_license",
		"is_dispensary", "is_delivery",
		"continued", "disappeared", "reappeared",
	}
	for _, field := range w.trackedFields {
		headers = append(headers, "changed_"+field)
	}
	headers = append(headers,
		"license", "license_business_type", "status", "status_date", "issue_date",
		"adult_use", "medicinal",
		"active_license", "canceled_license", "expired_license", "revoked_license", "suspended_license",
		"possible_license", "future_license_explicit", "assumed_license",
		"illegal_1912", "illegal_other",
	)
	return headers
}

func (w *FeatureWriter) rowToCSV(row *domain.FeatureRow) []string {
	record := []string{
		row.Slug, row.URL, row.PanelDate.Format(config.DateLayout),
		row.Name, row.Address, row.Email, row.Phone, row.DisplayedLicense,
		boolColumn(row.IsDispensary), boolColumn(row.IsDelivery),
		boolColumn(row.Continued), boolColumn(row.Disappeared), boolColumn(row.Reappeared),
	}
	for _, field := range w.trackedFields {
		record = append(record, boolColumn(row.Changed[field]))
	}
	record = append(record,
		row.License, row.LicenseBusinessType, string(row.Status), row.StatusDate, row.IssueDate,
		boolColumn(row.AdultUse), boolColumn(row.Medicinal),
		boolColumn(row.ActiveLicense), boolColumn(row.CanceledLicense), boolColumn(row.ExpiredLicense),
		boolColumn(row.RevokedLicense), boolColumn(row.SuspendedLicense),
		boolColumn(row.PossibleLicense), boolColumn(row.FutureLicenseExplicit), boolColumn(row.AssumedLicense),
		boolColumn(row.Illegal1912), boolColumn(row.IllegalOther),
	)
	return record
}
