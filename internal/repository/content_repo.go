package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"soultalk-backend/internal/models"
)

// ContentRepo serves the curated exercise and soundscape catalogs.
type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

func (r *ContentRepo) ListExercises(ctx context.Context) ([]*models.Exercise, error) {
	query := `
		SELECT id, title, description, duration, category, visualization_type, steps
		FROM exercises
		ORDER BY title ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]*models.Exercise, 0)
	for rows.Next() {
		exercise := &models.Exercise{}
		if scanErr := rows.Scan(
			&exercise.ID, &exercise.Title, &exercise.Description,
			&exercise.Duration, &exercise.Category, &exercise.VisualizationType, &exercise.Steps,
		); scanErr != nil {
			return nil, scanErr
		}
		exercises = append(exercises, exercise)
	}

	return exercises, rows.Err()
}

func (r *ContentRepo) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	exercise := &models.Exercise{}
	query := `
		SELECT id, title, description, duration, category, visualization_type, steps
		FROM exercises WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&exercise.ID, &exercise.Title, &exercise.Description,
		&exercise.Duration, &exercise.Category, &exercise.VisualizationType, &exercise.Steps,
	)
	if err != nil {
		return nil, err
	}
	return exercise, nil
}

func (r *ContentRepo) CreateExercise(ctx context.Context, exercise *models.Exercise) error {
	query := `
		INSERT INTO exercises (id, title, description, duration, category, visualization_type, steps)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	exercise.ID = uuid.New()

	_, err := r.pool.Exec(ctx, query,
		exercise.ID, exercise.Title, exercise.Description,
		exercise.Duration, exercise.Category, exercise.VisualizationType, exercise.Steps,
	)
	return err
}

func (r *ContentRepo) DeleteExercise(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM exercises WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ContentRepo) ListSoundscapes(ctx context.Context) ([]*models.Soundscape, error) {
	query := `SELECT id, name, url FROM soundscapes ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	soundscapes := make([]*models.Soundscape, 0)
	for rows.Next() {
		soundscape := &models.Soundscape{}
		if scanErr := rows.Scan(&soundscape.ID, &soundscape.Name, &soundscape.URL); scanErr != nil {
			return nil, scanErr
		}
		soundscapes = append(soundscapes, soundscape)
	}

	return soundscapes, rows.Err()
}

func (r *ContentRepo) CreateSoundscape(ctx context.Context, soundscape *models.Soundscape) error {
	soundscape.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		"INSERT INTO soundscapes (id, name, url) VALUES ($1, $2, $3)",
		soundscape.ID, soundscape.Name, soundscape.URL,
	)
	return err
}

func (r *ContentRepo) DeleteSoundscape(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM soundscapes WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
