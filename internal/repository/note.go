package repository

import (
	"context"

	"pocket-notes/internal/domain"
)

// NoteRepository manages notes scoped to groups. Reads carry the author's
// username alongside each note.
type NoteRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, note *domain.Note) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Note, error)
	// GetByAuthor returns the note only if authorID wrote it.
	GetByAuthor(ctx context.Context, id, authorID int64) (*domain.Note, error)
	// ListByGroup returns the group's notes oldest first.
	ListByGroup(ctx context.Context, groupID int64) ([]domain.Note, error)
	UpdateText(ctx context.Context, id int64, text string) error
	Delete(ctx context.Context, id int64) error
}
