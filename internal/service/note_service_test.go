package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pocket-notes/internal/domain"
)

func TestCreateAndListNotes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner")

	group, err := env.groups.Create(ctx, owner, "Chat", "#FF00FF")
	require.NoError(t, err)

	first, err := env.notes.Create(ctx, owner, group.ID, "  hello  ")
	require.NoError(t, err)
	require.Equal(t, "hello", first.Text, "text is trimmed")
	require.Equal(t, owner, first.AuthorID)
	require.Equal(t, "owner", first.AuthorName)
	require.False(t, first.CreatedAt.IsZero())

	second, err := env.notes.Create(ctx, owner, group.ID, "world")
	require.NoError(t, err)

	notes, err := env.notes.ListByGroup(ctx, owner, group.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	// chat-style: oldest first
	require.Equal(t, first.ID, notes[0].ID)
	require.Equal(t, second.ID, notes[1].ID)
	require.Equal(t, "owner", notes[0].AuthorName)
}

func TestNoteTextValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner")

	group, err := env.groups.Create(ctx, owner, "Rules", "#001122")
	require.NoError(t, err)

	_, err = env.notes.Create(ctx, owner, group.ID, "   ")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.notes.Create(ctx, owner, group.ID, strings.Repeat("x", 5001))
	require.ErrorIs(t, err, domain.ErrValidation)

	note, err := env.notes.Create(ctx, owner, group.ID, strings.Repeat("x", 5000))
	require.NoError(t, err)

	_, err = env.notes.Update(ctx, owner, note.ID, "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestNoteGroupAccessRequired(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner")
	stranger := env.registerUser(t, "stranger")

	group, err := env.groups.Create(ctx, owner, "Members Only", "#334455")
	require.NoError(t, err)

	_, err = env.notes.Create(ctx, stranger, group.ID, "let me in")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.notes.ListByGroup(ctx, stranger, group.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// a missing group answers identically
	_, err = env.notes.ListByGroup(ctx, owner, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteAuthorOnlyMutation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner")
	stranger := env.registerUser(t, "stranger")

	group, err := env.groups.Create(ctx, owner, "Mine", "#667788")
	require.NoError(t, err)

	note, err := env.notes.Create(ctx, owner, group.ID, "original")
	require.NoError(t, err)

	// even knowing the id, a non-author cannot tell the note exists
	_, err = env.notes.Update(ctx, stranger, note.ID, "hijacked")
	require.ErrorIs(t, err, domain.ErrNotFound)
	err = env.notes.Delete(ctx, stranger, note.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := env.notes.Update(ctx, owner, note.ID, "edited")
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Text)
	require.False(t, updated.UpdatedAt.Before(note.UpdatedAt))

	require.NoError(t, env.notes.Delete(ctx, owner, note.ID))
	err = env.notes.Delete(ctx, owner, note.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
