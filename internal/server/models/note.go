package models

import "time"

// Note is a user-owned text record. UserID is assigned once at creation and
// never reassigned. Version backs optimistic concurrency on updates.
type Note struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	CreatedAt   time.Time
	Version     int64
}

// NoteFilter narrows a List query. Search is a case-insensitive substring
// match on the title. Date bounds are inclusive; nil means unbounded.
type NoteFilter struct {
	Search   string
	FromDate *time.Time
	ToDate   *time.Time
}
