package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"pocket-notes/internal/domain"
	"pocket-notes/internal/repository"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// GroupService owns group lifecycle and the owner/member access predicate.
type GroupService interface {
	List(ctx context.Context, userID int64) ([]domain.Group, error)
	Create(ctx context.Context, userID int64, name, color string) (*domain.Group, error)
	Get(ctx context.Context, userID, groupID int64) (*domain.Group, error)
	Delete(ctx context.Context, userID, groupID int64) error
	HasAccess(ctx context.Context, userID, groupID int64) (bool, error)
}

type groupService struct {
	groups repository.GroupRepository
}

func NewGroupService(groups repository.GroupRepository) GroupService {
	return &groupService{groups: groups}
}

func (s *groupService) List(ctx context.Context, userID int64) ([]domain.Group, error) {
	return s.groups.ListForUser(ctx, userID)
}

func (s *groupService) Create(ctx context.Context, userID int64, name, color string) (*domain.Group, error) {
	name = strings.TrimSpace(name)

	if n := utf8.RuneCountInString(name); n < 2 || n > 30 {
		return nil, fmt.Errorf("%w: group name must be between 2 and 30 characters", domain.ErrValidation)
	}
	if !hexColorPattern.MatchString(color) {
		return nil, fmt.Errorf("%w: color must be a hex code like #RRGGBB", domain.ErrValidation)
	}

	// check-then-act; the unique index on (owner_id, lower(name)) backstops a race
	if _, err := s.groups.GetByOwnerAndName(ctx, userID, name); err == nil {
		return nil, fmt.Errorf("group name %w", domain.ErrDuplicate)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	group := &domain.Group{
		Name:      name,
		Color:     color,
		Initials:  initials(name),
		OwnerID:   userID,
		MemberIDs: []int64{userID},
	}

	if _, err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) Get(ctx context.Context, userID, groupID int64) (*domain.Group, error) {
	return s.groups.GetForUser(ctx, groupID, userID)
}

// Delete requires ownership; membership alone is not enough. The cascade
// over the group's notes is atomic.
func (s *groupService) Delete(ctx context.Context, userID, groupID int64) error {
	group, err := s.groups.GetOwned(ctx, groupID, userID)
	if err != nil {
		return err
	}
	return s.groups.DeleteCascade(ctx, group.ID)
}

func (s *groupService) HasAccess(ctx context.Context, userID, groupID int64) (bool, error) {
	return s.groups.HasAccess(ctx, groupID, userID)
}

// initials derives the group badge: uppercase first letter of each
// whitespace-separated word, first two words only. "Team Alpha" -> "TA".
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteString(strings.ToUpper(string(r)))
		if b.Len() >= 2 {
			break
		}
	}
	out := []rune(b.String())
	if len(out) > 2 {
		out = out[:2]
	}
	return string(out)
}
