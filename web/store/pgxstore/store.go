package pgxstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gojira-holdings/validator-web/web/portfolio"
	"github.com/gojira-holdings/validator-web/web/store/dbrow"
)

// Sentinel errors for store operations
var (
	ErrQueryFailed  = errors.New("portfolio query failed")
	ErrInsertFailed = errors.New("portfolio insert failed")
)

// PortfolioStore implements portfolio persistence using pgx
type PortfolioStore struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL portfolio store with an existing connection pool.
// Returns the store and a closer function.
func New(pool *pgxpool.Pool) (*PortfolioStore, func()) {
	store := &PortfolioStore{pool: pool}
	closer := func() {
		pool.Close()
	}
	return store, closer
}

// ListItems returns all portfolio items ordered by insertion.
func (s *PortfolioStore) ListItems(ctx context.Context) ([]portfolio.Item, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, description, image_url, website_url, category FROM portfolio_items ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	var items []portfolio.Item
	for rows.Next() {
		var dbRow dbrow.PortfolioItem
		if err := rows.Scan(&dbRow.ID, &dbRow.Name, &dbRow.Description, &dbRow.ImageURL, &dbRow.WebsiteURL, &dbRow.Category); err != nil {
			return nil, fmt.Errorf("%w: scan failed: %w", ErrQueryFailed, err)
		}

		items = append(items, portfolio.Item{
			ID:          dbRow.ID,
			Name:        dbRow.Name,
			Description: dbRow.Description,
			ImageURL:    dbRow.ImageURL,
			WebsiteURL:  dbRow.WebsiteURL.String,
			Category:    dbRow.Category.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	return items, nil
}

// CreateItem inserts a portfolio item and returns it with its assigned ID.
func (s *PortfolioStore) CreateItem(ctx context.Context, item portfolio.Item) (portfolio.Item, error) {
	row := s.pool.QueryRow(ctx,
		"INSERT INTO portfolio_items (name, description, image_url, website_url, category) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		item.Name, item.Description, item.ImageURL, nullable(item.WebsiteURL), nullable(item.Category))

	if err := row.Scan(&item.ID); err != nil {
		return portfolio.Item{}, fmt.Errorf("%w: %w", ErrInsertFailed, err)
	}

	return item, nil
}

// nullable maps "" to SQL NULL so optional fields round-trip cleanly.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
