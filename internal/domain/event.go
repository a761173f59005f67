package domain

import "time"

// Event is a catalog entry with a single scheduled date. An event owns
// zero or one ticket pool.
type Event struct {
	ID        int64
	Name      string
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Ticket    *Ticket
}

// SortDirection orders catalog listings.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)
