package domain

import "time"

// Group is a named, color-tagged collection of notes with one owner and
// a set of members. The owner is always a member.
type Group struct {
	ID        int64
	Name      string
	Color     string
	Initials  string
	OwnerID   int64
	MemberIDs []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
