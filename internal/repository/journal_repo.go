package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"soultalk-backend/internal/models"
)

type JournalRepo struct {
	pool *pgxpool.Pool
}

func NewJournalRepo(pool *pgxpool.Pool) *JournalRepo {
	return &JournalRepo{pool: pool}
}

func (r *JournalRepo) Create(ctx context.Context, entry *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (id, user_id, content, mood, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	entry.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.Content, entry.Mood, entry.Tags,
	).Scan(&entry.CreatedAt)
}

func (r *JournalRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.JournalEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, user_id, content, mood, tags, created_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.JournalEntry, 0)
	for rows.Next() {
		entry := &models.JournalEntry{}
		if scanErr := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Content, &entry.Mood, &entry.Tags, &entry.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *JournalRepo) Delete(ctx context.Context, userID, entryID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM journal_entries WHERE id = $1 AND user_id = $2",
		entryID, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *JournalRepo) GetLatestEntryAt(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var ts pgtype.Timestamptz
	err := r.pool.QueryRow(ctx,
		"SELECT MAX(created_at) FROM journal_entries WHERE user_id = $1",
		userID,
	).Scan(&ts)
	if err != nil {
		return nil, err
	}

	if !ts.Valid {
		return nil, nil
	}

	t := ts.Time
	return &t, nil
}
