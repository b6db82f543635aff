// Package domain contains the core domain models for the storefront panel
// featurization engine. These types serve as the Single Source of Truth
// (SSOT) for all layers of the application.
package domain

import (
	"time"
)

// StorefrontSnapshot is one storefront's record within one panel. Slug is the
// identity key within a panel and is unique per panel after loading.
type StorefrontSnapshot struct {
	Slug             string     `json:"slug" db:"slug" validate:"required"`
	URL              string     `json:"url" db:"url" validate:"required,url"`
	Name             string     `json:"name" db:"name"`
	Address          string     `json:"address" db:"address"`
	Email            string     `json:"email" db:"email"`
	Phone            string     `json:"phone" db:"phone"`
	DisplayedLicense string     `json:"displayed_license" db:"displayed_license"`
	Products         ProductSet `json:"products" db:"-"`
	IsDispensary     bool       `json:"is_dispensary" db:"is_dispensary"`
	IsDelivery       bool       `json:"is_delivery" db:"is_delivery"`
}

// ProductSet is the set of product identifiers or URLs a storefront offers
// within one panel.
type ProductSet map[string]struct{}

// NewProductSet builds a ProductSet from raw identifiers, ignoring empties.
func NewProductSet(ids ...string) ProductSet {
	set := make(ProductSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Add inserts a product identifier into the set. Empty identifiers are
// ignored so malformed product data degrades to an empty set.
func (s ProductSet) Add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

// Panel is one dated snapshot of storefront scrape data. Panels are totally
// ordered by Date; the engine never assumes fixed spacing between them.
type Panel struct {
	Date      time.Time            `json:"date"`
	Name      string               `json:"name"` // source file stem, e.g. "191215"
	Snapshots []StorefrontSnapshot `json:"snapshots"`
}

// SlugSet returns the set of slugs present in the panel.
func (p *Panel) SlugSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Snapshots))
	for i := range p.Snapshots {
		set[p.Snapshots[i].Slug] = struct{}{}
	}
	return set
}

// StorefrontHistory is the ordered cross-panel sequence of one slug's
// appearances. PanelIndex and Snapshots are parallel slices sorted by panel
// position in the run's panel sequence. Built once per run and read-only
// thereafter.
type StorefrontHistory struct {
	Slug       string                `json:"slug"`
	PanelIndex []int                 `json:"panel_index"`
	Snapshots  []*StorefrontSnapshot `json:"-"`
}

// AppearanceAt returns the position within the history of the appearance at
// panel index i, or -1 when the slug is absent from that panel.
func (h *StorefrontHistory) AppearanceAt(i int) int {
	for pos, idx := range h.PanelIndex {
		if idx == i {
			return pos
		}
		if idx > i {
			break
		}
	}
	return -1
}

// FirstPanel returns the panel index of the slug's first-ever appearance.
func (h *StorefrontHistory) FirstPanel() int {
	if len(h.PanelIndex) == 0 {
		return -1
	}
	return h.PanelIndex[0]
}
