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

const createNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	group_id INTEGER NOT NULL,
	author_id INTEGER NOT NULL,
	text TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(group_id) REFERENCES groups(id) ON DELETE CASCADE,
	FOREIGN KEY(author_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_notes_group_id ON notes(group_id, created_at);
CREATE INDEX IF NOT EXISTS idx_notes_author_id ON notes(author_id, created_at);
`

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNotesTable); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (int64, error) {
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO notes (group_id, author_id, text, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		note.GroupID,
		note.AuthorID,
		note.Text,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("note last insert id: %w", err)
	}
	note.ID = id
	return id, nil
}

func (r *NoteRepository) Get(ctx context.Context, id int64) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT n.id, n.group_id, n.author_id, u.username, n.text, n.created_at, n.updated_at
FROM notes n
JOIN users u ON u.id = n.author_id
WHERE n.id = ?`,
		id,
	)
	return scanNote(row)
}

func (r *NoteRepository) GetByAuthor(ctx context.Context, id, authorID int64) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT n.id, n.group_id, n.author_id, u.username, n.text, n.created_at, n.updated_at
FROM notes n
JOIN users u ON u.id = n.author_id
WHERE n.id = ? AND n.author_id = ?`,
		id, authorID,
	)
	return scanNote(row)
}

func (r *NoteRepository) ListByGroup(ctx context.Context, groupID int64) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT n.id, n.group_id, n.author_id, u.username, n.text, n.created_at, n.updated_at
FROM notes n
JOIN users u ON u.id = n.author_id
WHERE n.group_id = ?
ORDER BY n.created_at ASC, n.id ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.GroupID, &n.AuthorID, &n.AuthorName, &n.Text, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) UpdateText(ctx context.Context, id int64, text string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE notes SET text = ?, updated_at = ? WHERE id = ?`,
		text,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("note rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("note %w", domain.ErrNotFound)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("note rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("note %w", domain.ErrNotFound)
	}
	return nil
}

func scanNote(row *sql.Row) (*domain.Note, error) {
	var n domain.Note
	if err := row.Scan(
		&n.ID,
		&n.GroupID,
		&n.AuthorID,
		&n.AuthorName,
		&n.Text,
		&n.CreatedAt,
		&n.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("note %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &n, nil
}
