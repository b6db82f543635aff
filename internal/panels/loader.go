// Package panels loads per-panel storefront CSV files into normalized,
// date-ordered snapshot sets.
package panels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"panelfeat/internal/config"
	"panelfeat/pkg/contracts/domain"
)

// ErrNoPanels is returned when the input directory yields no usable panel.
// Total absence of panel input is a configuration error, not a data error.
var ErrNoPanels = errors.New("no panel files could be loaded")

// Loader reads panel CSV files and produces normalized snapshot sets.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a panel loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadDir loads every .csv file in dir and returns the panels sorted by
// scrape date, oldest first. Files whose date cannot be resolved are skipped
// with a warning; an empty result is ErrNoPanels.
func (l *Loader) LoadDir(dir string) ([]*domain.Panel, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read panel directory: %w", err)
	}

	var panels []*domain.Panel
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		panel, err := l.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			l.logger.Warn("Skipping panel file",
				slog.String("file", entry.Name()),
				slog.String("error", err.Error()))
			continue
		}
		panels = append(panels, panel)
	}

	if len(panels) == 0 {
		return nil, ErrNoPanels
	}

	sort.SliceStable(panels, func(i, j int) bool {
		if !panels[i].Date.Equal(panels[j].Date) {
			return panels[i].Date.Before(panels[j].Date)
		}
		return panels[i].Name < panels[j].Name
	})

	l.logger.Info("Loaded panel sequence",
		slog.Int("panel_count", len(panels)),
		slog.String("first_date", panels[0].Date.Format(config.DateLayout)),
		slog.String("last_date", panels[len(panels)-1].Date.Format(config.DateLayout)))

	return panels, nil
}

// LoadFile parses one panel CSV file. The panel date comes from the YYMMDD
// filename prefix, falling back to the file's access_date column.
func (l *Loader) LoadFile(path string) (*domain.Panel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open panel file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	cols := mapColumns(header)
	if _, ok := cols["url"]; !ok {
		return nil, fmt.Errorf("panel file %s has no url column", filepath.Base(path))
	}

	stem := fileStem(path)
	date, dateFromName := parseFilenameDate(stem)

	var (
		order      []string
		bySlug     = make(map[string]*domain.StorefrontSnapshot)
		rejected   int
		duplicates int
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read panel row: %w", err)
		}

		get := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if !dateFromName && date.IsZero() {
			if parsed, err := time.Parse(config.DateLayout, get("access_date")); err == nil {
				date = parsed
			}
		}

		rawURL := get("url")
		slug, ok := SlugFromURL(rawURL)
		if !ok {
			rejected++
			continue
		}

		product := get("product")
		if existing, seen := bySlug[slug]; seen {
			// First-seen wins for scalar fields; product rows for the same
			// slug only extend the product set.
			existing.Products.Add(product)
			duplicates++
			continue
		}

		snap := &domain.StorefrontSnapshot{
			Slug:             slug,
			URL:              rawURL,
			Name:             NormalizeName(get("name")),
			Address:          get("address"),
			Email:            strings.ToLower(get("email")),
			Phone:            NormalizePhone(get("phone")),
			DisplayedLicense: get("license"),
			Products:         domain.NewProductSet(product),
			IsDispensary:     strings.Contains(rawURL, "/dispensaries/"),
			IsDelivery:       strings.Contains(rawURL, "/deliveries/"),
		}
		bySlug[slug] = snap
		order = append(order, slug)
	}

	if date.IsZero() {
		return nil, fmt.Errorf("panel file %s has no resolvable date", filepath.Base(path))
	}

	snapshots := make([]domain.StorefrontSnapshot, 0, len(order))
	for _, slug := range order {
		snapshots = append(snapshots, *bySlug[slug])
	}

	if rejected > 0 || duplicates > 0 {
		l.logger.Warn("Panel rows normalized",
			slog.String("file", filepath.Base(path)),
			slog.Int("rejected_missing_url", rejected),
			slog.Int("duplicate_slug_rows", duplicates))
	}

	return &domain.Panel{
		Date:      date,
		Name:      stem,
		Snapshots: snapshots,
	}, nil
}

// mapColumns maps canonical field names to column indices, tolerating the
// header variants the scrape exports use.
func mapColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		name = strings.ReplaceAll(name, " ", "_")
		switch name {
		case "url", "address", "email", "phone", "access_date":
			setOnce(cols, name, i)
		case "name", "dispensary_name":
			setOnce(cols, "name", i)
		case "license", "state_license_number_1", "displayed_license":
			setOnce(cols, "license", i)
		case "product_name", "product_url", "product":
			setOnce(cols, "product", i)
		}
	}
	return cols
}

func setOnce(cols map[string]int, name string, idx int) {
	if _, ok := cols[name]; !ok {
		cols[name] = idx
	}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseFilenameDate extracts the panel date from a YYMMDD filename prefix.
func parseFilenameDate(stem string) (time.Time, bool) {
	if len(stem) < 6 {
		return time.Time{}, false
	}
	date, err := time.Parse(config.PanelFileDateLayout, stem[:6])
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
