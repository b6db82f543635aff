package exporter

import (
	"fmt"
	"strconv"

	"panelfeat/internal/config"
	"panelfeat/internal/features"
)

// CompanyFileWriter writes one company mapping file per panel: one row per
// (slug, panel, company_id) triple.
type CompanyFileWriter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewCompanyFileWriter creates a company mapping writer.
func NewCompanyFileWriter(csvWriter *CSVWriter, paths *config.Paths) *CompanyFileWriter {
	return &CompanyFileWriter{csvWriter: csvWriter, paths: paths}
}

// WritePanel writes the panel's company mapping to
// <panel-name>_company_mapping.csv and returns the file path.
func (w *CompanyFileWriter) WritePanel(pf *features.PanelFeatures) (string, error) {
	path := w.paths.GetCompanyOutputPath(fmt.Sprintf("%s_company_mapping.csv", pf.Panel.Name))

	headers := []string{"slug", "panel_date", "company_id"}
	var records [][]string
	for _, cluster := range pf.Clusters {
		for _, slug := range cluster.Slugs {
			records = append(records, []string{
				slug,
				cluster.PanelDate.Format(config.DateLayout),
				strconv.Itoa(cluster.ID),
			})
		}
	}

	options := WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	}
	if err := w.csvWriter.WriteCSV(path, options); err != nil {
		return "", fmt.Errorf("failed to write company mapping for panel %s: %w", pf.Panel.Name, err)
	}
	return path, nil
}
