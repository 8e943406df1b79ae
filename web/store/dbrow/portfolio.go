package dbrow

import "database/sql"

// PortfolioItem represents a portfolio record as queried from the database
type PortfolioItem struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	ImageURL    string         `db:"image_url"`
	WebsiteURL  sql.NullString `db:"website_url"`
	Category    sql.NullString `db:"category"`
}
