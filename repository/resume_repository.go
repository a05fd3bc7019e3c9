package repository

import (
	"context"
	"errors"

	"interviewgenie-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResumeRepository handles database operations for resume files
type ResumeRepository struct {
	db *pgxpool.Pool
}

// NewResumeRepository creates a new resume repository
func NewResumeRepository(db *pgxpool.Pool) *ResumeRepository {
	return &ResumeRepository{db: db}
}

// Create creates a new resume file record
func (r *ResumeRepository) Create(ctx context.Context, file *models.ResumeFile) error {
	query := `
		INSERT INTO resume_files (id, user_id, filename, mime_type, size, storage_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		file.ID,
		file.UserID,
		file.Filename,
		file.MimeType,
		file.Size,
		file.StoragePath,
	).Scan(&file.CreatedAt)

	return err
}

// GetByID retrieves a resume file record by ID
func (r *ResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ResumeFile, error) {
	file := &models.ResumeFile{}
	query := `
		SELECT id, user_id, filename, mime_type, size, storage_path, created_at
		FROM resume_files
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.UserID,
		&file.Filename,
		&file.MimeType,
		&file.Size,
		&file.StoragePath,
		&file.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return file, nil
}

// ListByUserID retrieves all resume files for a user, newest first
func (r *ResumeRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ResumeFile, error) {
	query := `
		SELECT id, user_id, filename, mime_type, size, storage_path, created_at
		FROM resume_files
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.ResumeFile
	for rows.Next() {
		file := &models.ResumeFile{}
		err := rows.Scan(
			&file.ID,
			&file.UserID,
			&file.Filename,
			&file.MimeType,
			&file.Size,
			&file.StoragePath,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// Delete deletes a resume file record
func (r *ResumeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM resume_files WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
