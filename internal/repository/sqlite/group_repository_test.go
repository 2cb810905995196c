package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pocket-notes/internal/domain"
)

func newTestRepos(t *testing.T) (*UserRepository, *GroupRepository, *NoteRepository) {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	users := &UserRepository{db: db}
	groups := &GroupRepository{db: db}
	notes := &NoteRepository{db: db}
	require.NoError(t, users.Init(ctx))
	require.NoError(t, groups.Init(ctx))
	require.NoError(t, notes.Init(ctx))
	return users, groups, notes
}

func createTestUser(t *testing.T, users *UserRepository, username string) int64 {
	t.Helper()
	id, err := users.Create(context.Background(), &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return id
}

// The duplicate-name check in the service is check-then-act; the unique
// index on (owner_id, lower(name)) catches the losing side of a race.
func TestUniqueIndexBackstopsDuplicateName(t *testing.T) {
	t.Parallel()
	users, groups, _ := newTestRepos(t)
	ctx := context.Background()
	owner := createTestUser(t, users, "owner")

	_, err := groups.Create(ctx, &domain.Group{
		Name: "Work", Color: "#FF0000", Initials: "W", OwnerID: owner, MemberIDs: []int64{owner},
	})
	require.NoError(t, err)

	_, err = groups.Create(ctx, &domain.Group{
		Name: "wOrK", Color: "#00FF00", Initials: "W", OwnerID: owner, MemberIDs: []int64{owner},
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDeleteCascadeRemovesNotesAndMembers(t *testing.T) {
	t.Parallel()
	users, groups, notes := newTestRepos(t)
	ctx := context.Background()
	owner := createTestUser(t, users, "owner")

	groupID, err := groups.Create(ctx, &domain.Group{
		Name: "Doomed", Color: "#000000", Initials: "D", OwnerID: owner, MemberIDs: []int64{owner},
	})
	require.NoError(t, err)

	noteID, err := notes.Create(ctx, &domain.Note{GroupID: groupID, AuthorID: owner, Text: "bye"})
	require.NoError(t, err)

	require.NoError(t, groups.DeleteCascade(ctx, groupID))

	_, err = notes.Get(ctx, noteID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := groups.HasAccess(ctx, groupID, owner)
	require.NoError(t, err)
	require.False(t, ok)

	err = groups.DeleteCascade(ctx, groupID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetForUserMembership(t *testing.T) {
	t.Parallel()
	users, groups, _ := newTestRepos(t)
	ctx := context.Background()
	owner := createTestUser(t, users, "owner")
	member := createTestUser(t, users, "member")
	stranger := createTestUser(t, users, "stranger")

	groupID, err := groups.Create(ctx, &domain.Group{
		Name: "Crew", Color: "#123123", Initials: "C", OwnerID: owner,
		MemberIDs: []int64{owner, member},
	})
	require.NoError(t, err)

	for _, userID := range []int64{owner, member} {
		got, err := groups.GetForUser(ctx, groupID, userID)
		require.NoError(t, err)
		require.ElementsMatch(t, []int64{owner, member}, got.MemberIDs)
	}

	_, err = groups.GetForUser(ctx, groupID, stranger)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// membership is not ownership
	_, err = groups.GetOwned(ctx, groupID, member)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
