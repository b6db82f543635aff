package features

import (
	"fmt"
	"strings"

	"panelfeat/pkg/contracts/domain"
)

// ChangeDetector flags attribute changes between a slug's successive
// appearances. The comparison baseline is the previous appearance, not the
// previous panel, so a storefront that vanishes and returns is compared
// against its snapshot from before the gap.
type ChangeDetector struct {
	fields []string
}

// NewChangeDetector creates a detector for the given tracked field names.
// Unknown field names are rejected so a config typo cannot silently produce
// all-false change columns.
func NewChangeDetector(fields []string) (*ChangeDetector, error) {
	for _, field := range fields {
		if _, ok := fieldValue(&domain.StorefrontSnapshot{}, field); !ok {
			return nil, fmt.Errorf("unknown tracked change field %q", field)
		}
	}
	return &ChangeDetector{fields: fields}, nil
}

// Fields returns the tracked field names in configuration order.
func (d *ChangeDetector) Fields() []string {
	return d.fields
}

// Changes computes the changed_<field> flags for the slug's appearance at
// panel index i. All flags are false on a first appearance, which has no
// prior value to compare.
func (d *ChangeDetector) Changes(tracker *Tracker, slug string, i int) map[string]bool {
	changed := make(map[string]bool, len(d.fields))
	for _, field := range d.fields {
		changed[field] = false
	}

	hist, ok := tracker.History(slug)
	if !ok {
		return changed
	}
	pos := hist.AppearanceAt(i)
	if pos < 0 {
		return changed
	}
	prev, ok := tracker.LastAppearanceBefore(slug, i)
	if !ok {
		return changed
	}

	curr := hist.Snapshots[pos]
	for _, field := range d.fields {
		currVal, _ := fieldValue(curr, field)
		prevVal, _ := fieldValue(prev, field)
		changed[field] = normalizeValue(currVal) != normalizeValue(prevVal)
	}
	return changed
}

func fieldValue(snap *domain.StorefrontSnapshot, field string) (string, bool) {
	switch field {
	case "address":
		return snap.Address, true
	case "name":
		return snap.Name, true
	case "email":
		return snap.Email, true
	case "phone":
		return snap.Phone, true
	case "url":
		return snap.URL, true
	default:
		return "", false
	}
}

// normalizeValue applies the whitespace/case normalization the change
// comparison is defined under: trim, lowercase, collapse inner whitespace.
func normalizeValue(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(v)), " ")
}
