package model

import "time"

// Bookmark is a user-owned record of a saved URL. ID and CreatedAt are
// assigned by the store on insert; UserID is set once at creation and never
// mutated.
type Bookmark struct {
	ID        string
	Title     string
	URL       string
	UserID    string
	CreatedAt time.Time
}
