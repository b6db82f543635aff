package domain

import (
	"strings"
	"time"
)

// LicenseStatus is the status of a commercial license in the official
// registry.
type LicenseStatus string

const (
	LicenseStatusActive    LicenseStatus = "active"
	LicenseStatusCanceled  LicenseStatus = "canceled"
	LicenseStatusExpired   LicenseStatus = "expired"
	LicenseStatusRevoked   LicenseStatus = "revoked"
	LicenseStatusSuspended LicenseStatus = "suspended"
)

// KnownLicenseStatuses lists every status the registry may report, in the
// order the status boolean feature columns are emitted.
var KnownLicenseStatuses = []LicenseStatus{
	LicenseStatusActive,
	LicenseStatusCanceled,
	LicenseStatusExpired,
	LicenseStatusRevoked,
	LicenseStatusSuspended,
}

// Known reports whether the status is one of the documented registry values.
func (s LicenseStatus) Known() bool {
	for _, known := range KnownLicenseStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// LicenseRecord is one status snapshot of a license in the official registry.
// A license number may recur with different status snapshots over time; the
// matcher picks the record whose StatusDate is most recent at or before the
// panel's scrape date.
type LicenseRecord struct {
	LicenseNumber string        `json:"license_number" db:"license_number" validate:"required"`
	BusinessType  string        `json:"business_type" db:"business_type"`
	Status        LicenseStatus `json:"status" db:"status"`
	CustomerType  string        `json:"customer_type" db:"customer_type"` // raw Adult-Use/Medicinal value

	// Raw date strings are preserved for output fidelity; the parsed values
	// drive date comparisons and are only meaningful when the Valid flag is
	// set. Records with unparseable dates stay in the registry but are
	// excluded from date-dependent comparisons.
	StatusDateRaw   string    `json:"status_date" db:"status_date"`
	StatusDate      time.Time `json:"-" db:"-"`
	StatusDateValid bool      `json:"-" db:"-"`
	IssueDateRaw    string    `json:"issue_date" db:"issue_date"`
	IssueDate       time.Time `json:"-" db:"-"`
	IssueDateValid  bool      `json:"-" db:"-"`
}

// AdultUse reports whether the license permits adult-use customers.
func (r *LicenseRecord) AdultUse() bool {
	return strings.Contains(strings.ToLower(r.CustomerType), "adult")
}

// Medicinal reports whether the license permits medicinal customers.
func (r *LicenseRecord) Medicinal() bool {
	return strings.Contains(strings.ToLower(r.CustomerType), "medicinal")
}
