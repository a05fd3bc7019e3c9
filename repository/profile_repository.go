package repository

import (
	"context"
	"errors"
	"fmt"

	"interviewgenie-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for profile records
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
	user_id, first_name, last_name, phone_number, gender,
	country, state, city, postal_code,
	work_status, experience_level, education_level, industry,
	skills, profile_progress, is_profile_complete,
	created_at, updated_at`

// Create inserts an empty profile record for a new user
func (r *ProfileRepository) Create(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO profiles (user_id, skills)
		VALUES ($1, '{}')`

	_, err := r.db.Exec(ctx, query, userID)
	return err
}

// GetByUserID retrieves the profile record for a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return profile, nil
}

// UpdateMerged performs an atomic read-merge-write on a user's profile
// record. The row is locked for the duration of the transaction, so
// concurrent updates for the same user serialize and each merge sees
// the previous writer's full result.
func (r *ProfileRepository) UpdateMerged(ctx context.Context, userID uuid.UUID, apply func(*models.Profile) error) (*models.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 FOR UPDATE`

	profile, err := scanProfile(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := apply(profile); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE profiles SET
			first_name = $2,
			last_name = $3,
			phone_number = $4,
			gender = $5,
			country = $6,
			state = $7,
			city = $8,
			postal_code = $9,
			work_status = $10,
			experience_level = $11,
			education_level = $12,
			industry = $13,
			skills = $14,
			profile_progress = $15,
			is_profile_complete = $16,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	err = tx.QueryRow(
		ctx, updateQuery,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.PhoneNumber,
		profile.Gender,
		profile.Country,
		profile.State,
		profile.City,
		profile.PostalCode,
		profile.WorkStatus,
		profile.ExperienceLevel,
		profile.EducationLevel,
		profile.Industry,
		profile.Skills,
		profile.ProfileProgress,
		profile.IsProfileComplete,
	).Scan(&profile.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return profile, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	profile := &models.Profile{}
	err := row.Scan(
		&profile.UserID,
		&profile.FirstName,
		&profile.LastName,
		&profile.PhoneNumber,
		&profile.Gender,
		&profile.Country,
		&profile.State,
		&profile.City,
		&profile.PostalCode,
		&profile.WorkStatus,
		&profile.ExperienceLevel,
		&profile.EducationLevel,
		&profile.Industry,
		&profile.Skills,
		&profile.ProfileProgress,
		&profile.IsProfileComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}
