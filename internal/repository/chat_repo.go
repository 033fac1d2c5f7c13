package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"soultalk-backend/internal/models"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

func (r *ChatRepo) CreateTurn(ctx context.Context, turn *models.ChatTurn) error {
	query := `
		INSERT INTO chat_messages (id, user_id, session_id, role, content,
			sentiment_label, sentiment_score, detected_emotion, crisis_flag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	turn.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		turn.ID, turn.UserID, turn.SessionID, turn.Role, turn.Content,
		turn.SentimentLabel, turn.SentimentScore, turn.DetectedEmotion, turn.CrisisFlag,
	).Scan(&turn.CreatedAt)
}

func (r *ChatRepo) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ChatTurn, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, user_id, session_id, role, content,
			sentiment_label, sentiment_score, detected_emotion, crisis_flag, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]*models.ChatTurn, 0)
	for rows.Next() {
		turn := &models.ChatTurn{}
		if scanErr := rows.Scan(
			&turn.ID, &turn.UserID, &turn.SessionID, &turn.Role, &turn.Content,
			&turn.SentimentLabel, &turn.SentimentScore, &turn.DetectedEmotion, &turn.CrisisFlag, &turn.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; flip to conversation order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

func (r *ChatRepo) GetSessionHistory(ctx context.Context, userID, sessionID uuid.UUID) ([]*models.ChatTurn, error) {
	query := `
		SELECT id, user_id, session_id, role, content,
			sentiment_label, sentiment_score, detected_emotion, crisis_flag, created_at
		FROM chat_messages
		WHERE user_id = $1 AND session_id = $2
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]*models.ChatTurn, 0)
	for rows.Next() {
		turn := &models.ChatTurn{}
		if scanErr := rows.Scan(
			&turn.ID, &turn.UserID, &turn.SessionID, &turn.Role, &turn.Content,
			&turn.SentimentLabel, &turn.SentimentScore, &turn.DetectedEmotion, &turn.CrisisFlag, &turn.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}

func (r *ChatRepo) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM chat_messages WHERE user_id = $1 AND session_id = $2",
		userID, sessionID,
	)
	return err
}
