package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"pocket-notes/internal/domain"
	"pocket-notes/internal/repository"
)

const maxNoteLength = 5000

// NoteService owns note lifecycle scoped to a group. Group access gates
// reads and creation; mutation is author-only regardless of group role.
type NoteService interface {
	ListByGroup(ctx context.Context, userID, groupID int64) ([]domain.Note, error)
	Create(ctx context.Context, userID, groupID int64, text string) (*domain.Note, error)
	Update(ctx context.Context, userID, noteID int64, text string) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID int64) error
}

type noteService struct {
	notes  repository.NoteRepository
	groups GroupService
}

func NewNoteService(notes repository.NoteRepository, groups GroupService) NoteService {
	return &noteService{notes: notes, groups: groups}
}

func (s *noteService) ListByGroup(ctx context.Context, userID, groupID int64) ([]domain.Note, error) {
	if err := s.requireAccess(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.notes.ListByGroup(ctx, groupID)
}

func (s *noteService) Create(ctx context.Context, userID, groupID int64, text string) (*domain.Note, error) {
	if err := s.requireAccess(ctx, userID, groupID); err != nil {
		return nil, err
	}

	text, err := validNoteText(text)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		GroupID:  groupID,
		AuthorID: userID,
		Text:     text,
	}
	if _, err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	// re-read to attach the author's display name
	return s.notes.Get(ctx, note.ID)
}

func (s *noteService) Update(ctx context.Context, userID, noteID int64, text string) (*domain.Note, error) {
	note, err := s.notes.GetByAuthor(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	text, err = validNoteText(text)
	if err != nil {
		return nil, err
	}

	if err := s.notes.UpdateText(ctx, note.ID, text); err != nil {
		return nil, err
	}
	return s.notes.Get(ctx, note.ID)
}

func (s *noteService) Delete(ctx context.Context, userID, noteID int64) error {
	note, err := s.notes.GetByAuthor(ctx, noteID, userID)
	if err != nil {
		return err
	}
	return s.notes.Delete(ctx, note.ID)
}

// requireAccess collapses "no such group" and "not a member" into the
// same failure.
func (s *noteService) requireAccess(ctx context.Context, userID, groupID int64) error {
	ok, err := s.groups.HasAccess(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("group %w", domain.ErrNotFound)
	}
	return nil
}

func validNoteText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: note text is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(text) > maxNoteLength {
		return "", fmt.Errorf("%w: note text cannot exceed %d characters", domain.ErrValidation, maxNoteLength)
	}
	return text, nil
}
