// Package catalog maps opaque payment-link identifiers to typed product
// configurations. The provider only tells us which link was paid; everything
// the fulfillment flow does is derived from this table.
package catalog

import (
	"encoding/json"
	"fmt"

	"mamba-store/internal/model"
)

type Category string

const (
	// CategorySubscription grants time-limited Discord access.
	CategorySubscription Category = "subscription"
	// CategoryOneShot delivers a single-use access code (basic tier) or a
	// manual support ticket (premium tier).
	CategoryOneShot Category = "one_shot"
)

type Tier string

const (
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// Entry is one payment link's product configuration. Category decides which
// parameters are meaningful: DurationDays for subscriptions, Tier for
// one-shots.
type Entry struct {
	Product      model.ProductType `json:"product"`
	Category     Category          `json:"category"`
	Tier         Tier              `json:"tier,omitempty"`
	DurationDays int               `json:"duration_days,omitempty"`
}

type Catalog struct {
	entries map[string]Entry
}

// Default mirrors the live payment links configured at the provider.
func Default() *Catalog {
	return &Catalog{entries: map[string]Entry{
		"6oU28s5Fo3PjaHLfRCgEg06": {Product: model.ProductTypeObywatel, Category: CategoryOneShot, Tier: TierPremium},
		"28E4gA0l499Dg25eNygEg00": {Product: model.ProductTypeObywatel, Category: CategoryOneShot, Tier: TierBasic},
		"9B600k7NwbhLdTXdJugEg02": {Product: model.ProductTypeReceipts, Category: CategorySubscription, DurationDays: 31},
		"5kQ00k8RA5Xr2bfdJugEg03": {Product: model.ProductTypeReceipts, Category: CategorySubscription, DurationDays: 999},
		// test link
		"6oU28r2O8f6v3eI0C9cEw00": {Product: model.ProductTypeObywatel, Category: CategoryOneShot, Tier: TierPremium},
	}}
}

// Parse builds a catalog from a JSON object of link id → entry. The provider
// reissues links now and then, so production deployments pass the table in
// through configuration instead of relying on the defaults.
func Parse(raw string) (*Catalog, error) {
	var entries map[string]Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode payment link catalog: %w", err)
	}

	for link, e := range entries {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("payment link %q: %w", link, err)
		}
	}

	return &Catalog{entries: entries}, nil
}

// Load returns Parse(raw) when raw is non-empty, Default() otherwise.
func Load(raw string) (*Catalog, error) {
	if raw == "" {
		return Default(), nil
	}
	return Parse(raw)
}

func (e Entry) validate() error {
	switch e.Category {
	case CategorySubscription:
		if e.DurationDays <= 0 {
			return fmt.Errorf("subscription entry needs a positive duration_days")
		}
	case CategoryOneShot:
		if e.Tier != TierBasic && e.Tier != TierPremium {
			return fmt.Errorf("one_shot entry needs tier basic or premium")
		}
	default:
		return fmt.Errorf("unknown category %q", e.Category)
	}
	return nil
}

// Resolve looks up the configuration for a payment link.
func (c *Catalog) Resolve(paymentLink string) (Entry, bool) {
	e, ok := c.entries[paymentLink]
	return e, ok
}
