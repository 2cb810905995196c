package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pocket-notes/internal/repository"
	"pocket-notes/internal/repository/sqlite"
	"pocket-notes/internal/service"
)

type testEnv struct {
	users    service.UserService
	groups   service.GroupService
	notes    service.NoteService
	userRepo repository.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	groupRepo := sqlite.NewGroupRepository(db)
	noteRepo := sqlite.NewNoteRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, groupRepo.Init(ctx))
	require.NoError(t, noteRepo.Init(ctx))

	groups := service.NewGroupService(groupRepo)
	return &testEnv{
		users:    service.NewUserService(userRepo),
		groups:   groups,
		notes:    service.NewNoteService(noteRepo, groups),
		userRepo: userRepo,
	}
}

func (e *testEnv) registerUser(t *testing.T, username string) int64 {
	t.Helper()
	user, err := e.users.Register(context.Background(), username, username+"@example.com", "secret-pass")
	require.NoError(t, err)
	return user.ID
}
