// Package store persists feature rows and company memberships into a sqlite
// database so researchers can query the longitudinal dataset across panels
// without re-parsing the CSV reports.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"panelfeat/internal/config"
	"panelfeat/internal/features"
)

const schema = `
CREATE TABLE IF NOT EXISTS feature_rows (
	slug TEXT NOT NULL,
	panel_date TEXT NOT NULL,
	url TEXT NOT NULL,
	name TEXT,
	address TEXT,
	email TEXT,
	phone TEXT,
	displayed_license TEXT,
	is_dispensary INTEGER NOT NULL,
	is_delivery INTEGER NOT NULL,
	continued INTEGER NOT NULL,
	disappeared INTEGER NOT NULL,
	reappeared INTEGER NOT NULL,
	license TEXT,
	license_business_type TEXT,
	status TEXT,
	status_date TEXT,
	issue_date TEXT,
	adult_use INTEGER NOT NULL,
	medicinal INTEGER NOT NULL,
	active_license INTEGER NOT NULL,
	canceled_license INTEGER NOT NULL,
	expired_license INTEGER NOT NULL,
	revoked_license INTEGER NOT NULL,
	suspended_license INTEGER NOT NULL,
	possible_license INTEGER NOT NULL,
	future_license_explicit INTEGER NOT NULL,
	assumed_license INTEGER NOT NULL,
	illegal_1912 INTEGER NOT NULL,
	illegal_other INTEGER NOT NULL,
	PRIMARY KEY (slug, panel_date)
);
CREATE TABLE IF NOT EXISTS feature_changes (
	slug TEXT NOT NULL,
	panel_date TEXT NOT NULL,
	field TEXT NOT NULL,
	changed INTEGER NOT NULL,
	PRIMARY KEY (slug, panel_date, field)
);
CREATE TABLE IF NOT EXISTS company_members (
	panel_date TEXT NOT NULL,
	company_id INTEGER NOT NULL,
	slug TEXT NOT NULL,
	PRIMARY KEY (panel_date, slug)
);
CREATE INDEX IF NOT EXISTS idx_feature_rows_panel ON feature_rows (panel_date);
CREATE INDEX IF NOT EXISTS idx_company_members_company ON company_members (panel_date, company_id);
`

// Store is a sqlite-backed feature store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create feature store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplacePanel transactionally replaces every stored row and company
// membership of the panel, so a rerun over corrected input leaves no stale
// rows behind.
func (s *Store) ReplacePanel(ctx context.Context, pf *features.PanelFeatures) error {
	panelDate := pf.Panel.Date.Format(config.DateLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"feature_rows", "feature_changes", "company_members"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE panel_date = ?", panelDate); err != nil {
			return fmt.Errorf("failed to clear %s for panel %s: %w", table, panelDate, err)
		}
	}

	rowStmt, err := tx.PrepareContext(ctx, `INSERT INTO feature_rows (
		slug, panel_date, url, name, address, email, phone, displayed_license,
		is_dispensary, is_delivery, continued, disappeared, reappeared,
		license, license_business_type, status, status_date, issue_date,
		adult_use, medicinal,
		active_license, canceled_license, expired_license, revoked_license, suspended_license,
		possible_license, future_license_explicit, assumed_license,
		illegal_1912, illegal_other
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare feature insert: %w", err)
	}
	defer rowStmt.Close()

	changeStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO feature_changes (slug, panel_date, field, changed) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare change insert: %w", err)
	}
	defer changeStmt.Close()

	for i := range pf.Rows {
		row := &pf.Rows[i]
		if _, err := rowStmt.ExecContext(ctx,
			row.Slug, panelDate, row.URL, row.Name, row.Address, row.Email, row.Phone, row.DisplayedLicense,
			row.IsDispensary, row.IsDelivery, row.Continued, row.Disappeared, row.Reappeared,
			row.License, row.LicenseBusinessType, string(row.Status), row.StatusDate, row.IssueDate,
			row.AdultUse, row.Medicinal,
			row.ActiveLicense, row.CanceledLicense, row.ExpiredLicense, row.RevokedLicense, row.SuspendedLicense,
			row.PossibleLicense, row.FutureLicenseExplicit, row.AssumedLicense,
			row.Illegal1912, row.IllegalOther,
		); err != nil {
			return fmt.Errorf("failed to insert feature row %s/%s: %w", row.Slug, panelDate, err)
		}
		for field, changed := range row.Changed {
			if _, err := changeStmt.ExecContext(ctx, row.Slug, panelDate, field, changed); err != nil {
				return fmt.Errorf("failed to insert change flag %s/%s/%s: %w", row.Slug, panelDate, field, err)
			}
		}
	}

	memberStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO company_members (panel_date, company_id, slug) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare company insert: %w", err)
	}
	defer memberStmt.Close()

	for _, cluster := range pf.Clusters {
		for _, slug := range cluster.Slugs {
			if _, err := memberStmt.ExecContext(ctx, panelDate, cluster.ID, slug); err != nil {
				return fmt.Errorf("failed to insert company member %s/%s: %w", slug, panelDate, err)
			}
		}
	}

	return tx.Commit()
}

// CountRows returns the number of stored feature rows, across all panels.
func (s *Store) CountRows(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feature_rows").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feature rows: %w", err)
	}
	return count, nil
}
