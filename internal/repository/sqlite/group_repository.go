package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pocket-notes/internal/domain"
	"pocket-notes/internal/repository"
)

const createGroupsTables = `
CREATE TABLE IF NOT EXISTS groups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	color TEXT NOT NULL,
	initials TEXT NOT NULL,
	owner_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(owner_id) REFERENCES users(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_groups_owner_name ON groups(owner_id, lower(name));
CREATE TABLE IF NOT EXISTS group_members (
	group_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	PRIMARY KEY(group_id, user_id),
	FOREIGN KEY(group_id) REFERENCES groups(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);
`

type GroupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) repository.GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createGroupsTables); err != nil {
		return fmt.Errorf("create groups tables: %w", err)
	}
	return nil
}

func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) (int64, error) {
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	res, err := tx.ExecContext(ctx, `
INSERT INTO groups (name, color, initials, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		group.Name,
		group.Color,
		group.Initials,
		group.OwnerID,
		group.CreatedAt,
		group.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("group %w", domain.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert group: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("group last insert id: %w", err)
	}

	for _, memberID := range group.MemberIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO group_members (group_id, user_id)
VALUES (?, ?)`,
			id,
			memberID,
		); err != nil {
			return 0, fmt.Errorf("insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	group.ID = id
	return id, nil
}

func (r *GroupRepository) GetForUser(ctx context.Context, id, userID int64) (*domain.Group, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT g.id, g.name, g.color, g.initials, g.owner_id, g.created_at, g.updated_at
FROM groups g
WHERE g.id = ?
  AND (g.owner_id = ? OR EXISTS (
	SELECT 1 FROM group_members m WHERE m.group_id = g.id AND m.user_id = ?))`,
		id, userID, userID,
	)
	group, err := scanGroup(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (r *GroupRepository) GetOwned(ctx context.Context, id, ownerID int64) (*domain.Group, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, color, initials, owner_id, created_at, updated_at
FROM groups
WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	group, err := scanGroup(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (r *GroupRepository) GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (*domain.Group, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, color, initials, owner_id, created_at, updated_at
FROM groups
WHERE owner_id = ? AND lower(name) = lower(?)`,
		ownerID, name,
	)
	return scanGroup(row)
}

func (r *GroupRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT g.id, g.name, g.color, g.initials, g.owner_id, g.created_at, g.updated_at
FROM groups g
LEFT JOIN group_members m ON m.group_id = g.id
WHERE g.owner_id = ? OR m.user_id = ?
ORDER BY g.created_at DESC, g.id DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Color, &g.Initials, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	for i := range groups {
		if err := r.loadMembers(ctx, &groups[i]); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// DeleteCascade removes the group's notes, membership rows and the group
// itself in one transaction; any step failing rolls back the whole delete.
func (r *GroupRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("delete group notes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("delete group members: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("group rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %w", domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *GroupRepository) HasAccess(ctx context.Context, id, userID int64) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT EXISTS (
	SELECT 1 FROM groups g
	WHERE g.id = ?
	  AND (g.owner_id = ? OR EXISTS (
		SELECT 1 FROM group_members m WHERE m.group_id = g.id AND m.user_id = ?)))`,
		id, userID, userID,
	)
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, fmt.Errorf("check group access: %w", err)
	}
	return ok, nil
}

func (r *GroupRepository) loadMembers(ctx context.Context, group *domain.Group) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id`, group.ID)
	if err != nil {
		return fmt.Errorf("query group members: %w", err)
	}
	defer rows.Close()

	group.MemberIDs = group.MemberIDs[:0]
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("scan group member: %w", err)
		}
		group.MemberIDs = append(group.MemberIDs, userID)
	}
	return rows.Err()
}

func scanGroup(row *sql.Row) (*domain.Group, error) {
	var g domain.Group
	if err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Color,
		&g.Initials,
		&g.OwnerID,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("group %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan group: %w", err)
	}
	return &g, nil
}
