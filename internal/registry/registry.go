// Package registry loads the official commercial-license registry and
// answers as-of-date lookups against it.
package registry

import (
	"strings"
	"time"

	"panelfeat/pkg/contracts/domain"
)

// Registry maps normalized license numbers to their status-dated records. A
// license number may recur with different status snapshots over time.
type Registry struct {
	records map[string][]domain.LicenseRecord
}

// New builds a registry from loaded records, indexing them by normalized
// license number.
func New(records []domain.LicenseRecord) *Registry {
	byNumber := make(map[string][]domain.LicenseRecord)
	for _, rec := range records {
		key := NormalizeLicenseNumber(rec.LicenseNumber)
		if key == "" {
			continue
		}
		byNumber[key] = append(byNumber[key], rec)
	}
	return &Registry{records: byNumber}
}

// Size returns the number of distinct license numbers in the registry.
func (r *Registry) Size() int {
	return len(r.records)
}

// LookupAsOf returns the registry record for the normalized license number
// whose status date is most recent at or before asOf. Records without a
// parseable status date never win when any dated record exists for the
// number; they only serve as a fallback for numbers with no dated records at
// all. Records dated strictly after asOf never match.
func (r *Registry) LookupAsOf(normalized string, asOf time.Time) (*domain.LicenseRecord, bool) {
	candidates, ok := r.records[normalized]
	if !ok {
		return nil, false
	}

	var (
		best     *domain.LicenseRecord
		fallback *domain.LicenseRecord
		hasDated bool
	)
	for i := range candidates {
		rec := &candidates[i]
		if !rec.StatusDateValid {
			if fallback == nil {
				fallback = rec
			}
			continue
		}
		hasDated = true
		if rec.StatusDate.After(asOf) {
			continue
		}
		if best == nil || rec.StatusDate.After(best.StatusDate) {
			best = rec
		}
	}
	if best != nil {
		return best, true
	}
	if !hasDated && fallback != nil {
		return fallback, true
	}
	return nil, false
}

// NormalizeLicenseNumber strips formatting from a displayed or registry
// license number: every non-alphanumeric character is dropped and the rest
// uppercased. Placeholder values like "n/a" normalize to empty.
func NormalizeLicenseNumber(raw string) string {
	trimmed := strings.TrimSpace(strings.ToLower(raw))
	if trimmed == "" || trimmed == "n/a" || trimmed == "na" || trimmed == "none" {
		return ""
	}
	var b strings.Builder
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}
