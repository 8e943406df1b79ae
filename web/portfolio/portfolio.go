// Package portfolio defines the holdings catalogue shown on the landing page.
package portfolio

import "context"

// Item is one portfolio entry. WebsiteURL and Category are optional; an
// empty string means the field is absent.
type Item struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	WebsiteURL  string
	Category    string
}

// Finder lists the stored portfolio items.
type Finder interface {
	ListItems(ctx context.Context) ([]Item, error)
}

// Store extends Finder with the writes the seed routine needs.
type Store interface {
	Finder
	CreateItem(ctx context.Context, item Item) (Item, error)
}

// DefaultItems returns the catalogue installed on first boot.
func DefaultItems() []Item {
	return []Item{
		{
			Name:        "Solana",
			Description: "High-performance L1 blockchain infrastructure.",
			ImageURL:    "https://upload.wikimedia.org/wikipedia/en/b/b9/Solana_logo.png",
			WebsiteURL:  "https://solana.com",
			Category:    "L1",
		},
		{
			Name:        "Jito",
			Description: "MEV infrastructure for Solana validators.",
			ImageURL:    "https://jito.wtf/logo.png",
			WebsiteURL:  "https://jito.wtf",
			Category:    "Infrastructure",
		},
		{
			Name:        "Pyth",
			Description: "Real-time market data oracle.",
			ImageURL:    "https://pyth.network/logo.png",
			WebsiteURL:  "https://pyth.network",
			Category:    "Oracle",
		},
		{
			Name:        "Jupiter",
			Description: "The best swap aggregator on Solana.",
			ImageURL:    "https://jup.ag/logo.png",
			WebsiteURL:  "https://jup.ag",
			Category:    "DeFi",
		},
	}
}

// EnsureSeeded installs the default catalogue when the store is empty. It is
// idempotent and safe to run on every boot.
func EnsureSeeded(ctx context.Context, store Store) error {
	existing, err := store.ListItems(ctx)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		return nil
	}

	for _, item := range DefaultItems() {
		if _, err := store.CreateItem(ctx, item); err != nil {
			return err
		}
	}

	return nil
}
