package domain

import (
	"time"
)

// FeatureRow is the output unit: one row per (slug, panel) appearance with
// every derived feature attached. Immutable once written.
type FeatureRow struct {
	Slug      string    `json:"slug" db:"slug"`
	URL       string    `json:"url" db:"url"`
	PanelDate time.Time `json:"panel_date" db:"panel_date"`

	Name             string `json:"name" db:"name"`
	Address          string `json:"address" db:"address"`
	Email            string `json:"email" db:"email"`
	Phone            string `json:"phone" db:"phone"`
	DisplayedLicense string `json:"displayed_license" db:"displayed_license"`
	IsDispensary     bool   `json:"is_dispensary" db:"is_dispensary"`
	IsDelivery       bool   `json:"is_delivery" db:"is_delivery"`

	// Presence features across the ordered panel sequence.
	Continued   bool `json:"continued" db:"continued"`
	Disappeared bool `json:"disappeared" db:"disappeared"`
	Reappeared  bool `json:"reappeared" db:"reappeared"`

	// Changed maps a tracked field name to whether its value differs from the
	// slug's previous appearance.
	Changed map[string]bool `json:"changed" db:"-"`

	// License features from the registry match, empty when no match exists.
	License             string        `json:"license" db:"license"`
	LicenseBusinessType string        `json:"license_business_type" db:"license_business_type"`
	Status              LicenseStatus `json:"status" db:"status"`
	StatusDate          string        `json:"status_date" db:"status_date"`
	IssueDate           string        `json:"issue_date" db:"issue_date"`
	AdultUse            bool          `json:"adult_use" db:"adult_use"`
	Medicinal           bool          `json:"medicinal" db:"medicinal"`

	ActiveLicense    bool `json:"active_license" db:"active_license"`
	CanceledLicense  bool `json:"canceled_license" db:"canceled_license"`
	ExpiredLicense   bool `json:"expired_license" db:"expired_license"`
	RevokedLicense   bool `json:"revoked_license" db:"revoked_license"`
	SuspendedLicense bool `json:"suspended_license" db:"suspended_license"`

	PossibleLicense       bool `json:"possible_license" db:"possible_license"`
	FutureLicenseExplicit bool `json:"future_license_explicit" db:"future_license_explicit"`
	AssumedLicense        bool `json:"assumed_license" db:"assumed_license"`

	// Legality flags are per-slug and repeat on every row for that slug.
	Illegal1912  bool `json:"illegal_1912" db:"illegal_1912"`
	IllegalOther bool `json:"illegal_other" db:"illegal_other"`
}

// CompanyCluster is a panel-scoped grouping of storefronts believed to belong
// to the same underlying business. IDs are sequential within one panel and
// not stable across panels.
type CompanyCluster struct {
	ID        int       `json:"company_id" db:"company_id"`
	PanelDate time.Time `json:"panel_date" db:"panel_date"`
	Slugs     []string  `json:"slugs" db:"-"`
}
