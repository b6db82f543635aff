package registry

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"panelfeat/internal/config"
	"panelfeat/pkg/contracts/domain"
)

// Loader reads license registry export files. State registries distribute
// exports as CSV or XLSX; both are accepted.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a registry loader. A nil logger falls back to
// slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadDir loads every .csv and .xlsx file in dir into one registry. A missing
// directory yields an empty registry: license features then simply never
// match, which is a normal branch rather than an error.
func (l *Loader) LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("License registry directory missing, continuing without registry",
				slog.String("dir", dir))
			return New(nil), nil
		}
		return nil, fmt.Errorf("failed to read registry directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".csv" || ext == ".xlsx" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var records []domain.LicenseRecord
	for _, name := range names {
		path := filepath.Join(dir, name)
		var (
			rows [][]string
			err  error
		)
		if strings.HasSuffix(strings.ToLower(name), ".xlsx") {
			rows, err = readXLSX(path)
		} else {
			rows, err = readCSV(path)
		}
		if err != nil {
			l.logger.Warn("Skipping registry file",
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}
		fileRecords, err := parseRows(rows)
		if err != nil {
			l.logger.Warn("Skipping registry file",
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}
		unknown := 0
		for _, rec := range fileRecords {
			if rec.Status != "" && !rec.Status.Known() {
				unknown++
			}
		}
		if unknown > 0 {
			l.logger.Warn("Registry records carry an undocumented status",
				slog.String("file", name),
				slog.Int("record_count", unknown))
		}
		records = append(records, fileRecords...)
	}

	reg := New(records)
	l.logger.Info("Loaded license registry",
		slog.Int("record_count", len(records)),
		slog.Int("license_count", reg.Size()))
	return reg, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read registry row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("registry workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read registry sheet: %w", err)
	}
	return rows, nil
}

// parseRows turns raw header+data rows into license records. Header matching
// is tolerant of case, spacing and punctuation.
func parseRows(rows [][]string) ([]domain.LicenseRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("registry file is empty")
	}

	cols := make(map[string]int)
	for i, raw := range rows[0] {
		switch canonicalHeader(raw) {
		case "license_number":
			cols["license_number"] = i
		case "license_type", "business_type":
			cols["business_type"] = i
		case "status":
			cols["status"] = i
		case "status_date":
			cols["status_date"] = i
		case "issue_date":
			cols["issue_date"] = i
		case "adult_use_medicinal", "permitted_customer_type":
			cols["customer_type"] = i
		}
	}
	if _, ok := cols["license_number"]; !ok {
		return nil, fmt.Errorf("registry file has no license number column")
	}

	records := make([]domain.LicenseRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		number := get("license_number")
		if number == "" {
			continue
		}

		rec := domain.LicenseRecord{
			LicenseNumber: number,
			BusinessType:  strings.ToLower(get("business_type")),
			Status:        domain.LicenseStatus(strings.ToLower(get("status"))),
			CustomerType:  get("customer_type"),
			StatusDateRaw: get("status_date"),
			IssueDateRaw:  get("issue_date"),
		}
		rec.StatusDate, rec.StatusDateValid = parseRegistryDate(rec.StatusDateRaw)
		rec.IssueDate, rec.IssueDateValid = parseRegistryDate(rec.IssueDateRaw)
		records = append(records, rec)
	}
	return records, nil
}

func canonicalHeader(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.NewReplacer("-", "_", "/", "_", " ", "_").Replace(name)
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return name
}

// parseRegistryDate accepts the registry's M/D/YYYY exports as well as ISO
// dates from re-exported files.
func parseRegistryDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{config.RegistryDateLayout, config.DateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
