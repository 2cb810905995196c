package repository

import (
	"context"

	"pocket-notes/internal/domain"
)

// GroupRepository exposes persistence operations for Group aggregates,
// including the membership set.
type GroupRepository interface {
	Init(ctx context.Context) error
	// Create persists the group and its initial membership atomically.
	Create(ctx context.Context, group *domain.Group) (int64, error)
	// GetForUser returns the group only if user is owner or member.
	GetForUser(ctx context.Context, id, userID int64) (*domain.Group, error)
	// GetOwned returns the group only if user is the owner.
	GetOwned(ctx context.Context, id, ownerID int64) (*domain.Group, error)
	// GetByOwnerAndName matches the trimmed name case-insensitively.
	GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (*domain.Group, error)
	// ListForUser returns groups where user is owner or member, newest first.
	ListForUser(ctx context.Context, userID int64) ([]domain.Group, error)
	// DeleteCascade removes the group, its membership rows and all of its
	// notes in one transaction.
	DeleteCascade(ctx context.Context, id int64) error
	// HasAccess reports whether user is owner or member of the group.
	HasAccess(ctx context.Context, id, userID int64) (bool, error)
}
