package domain

import "time"

// Note is a timestamped text entry scoped to exactly one group. Only the
// author may edit or delete it; notes never survive their group.
type Note struct {
	ID         int64
	GroupID    int64
	AuthorID   int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
