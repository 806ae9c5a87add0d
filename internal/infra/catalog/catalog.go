// Package catalog holds the static offset marketplace and the SuperCoin
// redemption table. Both are constructed once at process start and shared
// read-only by every account; nothing mutates them afterwards.
package catalog

import (
	"fmt"

	"github.com/ecosphere-platform/ecosphere/internal/domain"
)

// Marketplace is the read-only registry of offset products.
// Iteration order is registration order.
type Marketplace struct {
	entries []domain.CatalogEntry
	byName  map[string]int
}

// NewMarketplace builds a marketplace from the given entries.
// Entry names must be unique; a duplicate is a configuration error and
// panics at construction (the catalog is loaded once, at boot).
func NewMarketplace(entries []domain.CatalogEntry) *Marketplace {
	m := &Marketplace{
		entries: append([]domain.CatalogEntry(nil), entries...),
		byName:  make(map[string]int, len(entries)),
	}
	for i, e := range m.entries {
		if _, dup := m.byName[e.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate entry %q", e.Name))
		}
		m.byName[e.Name] = i
	}
	return m
}

// DefaultMarketplace returns the built-in offset product table.
func DefaultMarketplace() *Marketplace {
	return NewMarketplace([]domain.CatalogEntry{
		{Name: "Tree Plantation", OffsetValue: 50, Price: 500, Description: "Plant trees to offset carbon"},
		{Name: "Solar Panel Donation", OffsetValue: 100, Price: 1000, Description: "Support solar energy initiatives"},
		{Name: "Wind Mill Project", OffsetValue: 75, Price: 750, Description: "Invest in wind energy infrastructure"},
		{Name: "Reforestation Program", OffsetValue: 60, Price: 600, Description: "Support large-scale forest restoration"},
	})
}

// Get looks up an entry by name.
func (m *Marketplace) Get(name string) (domain.CatalogEntry, error) {
	i, ok := m.byName[name]
	if !ok {
		return domain.CatalogEntry{}, fmt.Errorf("%w: %q", domain.ErrEntryNotFound, name)
	}
	return m.entries[i], nil
}

// List returns all entries in registration order. The returned slice is a
// copy; callers cannot reach the catalog's backing array through it.
func (m *Marketplace) List() []domain.CatalogEntry {
	return append([]domain.CatalogEntry(nil), m.entries...)
}

// Len returns the number of registered entries.
func (m *Marketplace) Len() int { return len(m.entries) }

// ─── Redemption Catalog ─────────────────────────────────────────────────────

// RedemptionCatalog is the analogous static table for non-monetary
// SuperCoin redemption.
type RedemptionCatalog struct {
	options []domain.RedemptionOption
	byName  map[string]int
}

// NewRedemptionCatalog builds a redemption catalog from the given options.
func NewRedemptionCatalog(options []domain.RedemptionOption) *RedemptionCatalog {
	c := &RedemptionCatalog{
		options: append([]domain.RedemptionOption(nil), options...),
		byName:  make(map[string]int, len(options)),
	}
	for i, o := range c.options {
		if _, dup := c.byName[o.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate redemption option %q", o.Name))
		}
		c.byName[o.Name] = i
	}
	return c
}

// DefaultRedemptionCatalog returns the built-in redemption options.
// An earlier deployment priced these at 100/500/500; override via config
// to restore that table.
func DefaultRedemptionCatalog() *RedemptionCatalog {
	return NewRedemptionCatalog([]domain.RedemptionOption{
		{Name: "Plant a Tree", CoinCost: 500},
		{Name: "Carbon Credit Donation", CoinCost: 1000},
		{Name: "Renewable Energy Support", CoinCost: 1500},
	})
}

// Get looks up a redemption option by name.
func (c *RedemptionCatalog) Get(name string) (domain.RedemptionOption, error) {
	i, ok := c.byName[name]
	if !ok {
		return domain.RedemptionOption{}, fmt.Errorf("%w: %q", domain.ErrEntryNotFound, name)
	}
	return c.options[i], nil
}

// List returns all options in registration order.
func (c *RedemptionCatalog) List() []domain.RedemptionOption {
	return append([]domain.RedemptionOption(nil), c.options...)
}
