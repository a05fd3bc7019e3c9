package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interviewgenie-backend/models"
	"interviewgenie-backend/repository"

	"github.com/google/uuid"
)

// Profile service errors
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// ValidationError describes a rejected profile field. The whole
// update is rejected when any field fails, nothing is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ProfileStore defines the persistence operations the profile service
// needs. Implemented by repository.ProfileRepository. Missing records
// surface as repository.ErrNotFound.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)

	// UpdateMerged runs apply against the stored record inside a
	// single atomic read-merge-write scoped to the user's row, then
	// persists the mutated record. Concurrent callers serialize per
	// record; partial interleaving of field writes is not possible.
	UpdateMerged(ctx context.Context, userID uuid.UUID, apply func(*models.Profile) error) (*models.Profile, error)
}

// ProfileService computes and persists profile completion state
type ProfileService struct {
	profiles ProfileStore
}

// ProfileServiceOption is a functional option for ProfileService
type ProfileServiceOption func(*ProfileService)

// WithProfileStore sets the profile store
func WithProfileStore(store ProfileStore) ProfileServiceOption {
	return func(s *ProfileService) {
		s.profiles = store
	}
}

// NewProfileService creates a new profile service
func NewProfileService(opts ...ProfileServiceOption) *ProfileService {
	s := &ProfileService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCompletionRequest represents a request for a user's completion state
type GetCompletionRequest struct {
	UserID uuid.UUID
}

// GetCompletionResult represents a user's derived completion state
type GetCompletionResult struct {
	ProfileProgress   int
	IsProfileComplete bool
}

// GetCompletion returns the persisted completion state for a user
func (s *ProfileService) GetCompletion(ctx context.Context, req GetCompletionRequest) (*GetCompletionResult, error) {
	if s.profiles == nil {
		return nil, errors.New("profile store not set")
	}

	profile, err := s.profiles.GetByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	return &GetCompletionResult{
		ProfileProgress:   profile.ProfileProgress,
		IsProfileComplete: profile.IsProfileComplete,
	}, nil
}

// UpdateProfileRequest represents a partial profile update for a user
type UpdateProfileRequest struct {
	UserID uuid.UUID
	Update models.ProfileUpdate
}

// UpdateProfileResult represents the derived state after an update.
// ProfileJustCompleted is true exactly when this update moved the
// record across the completion threshold, never on later updates.
type UpdateProfileResult struct {
	ProfileProgress      int
	IsProfileComplete    bool
	ProfileJustCompleted bool
	DisplayName          *string
}

// UpdateProfile merges the provided fields into the stored record,
// recomputes progress from the merged record, and persists the result
// atomically. Validation failures reject the whole update.
func (s *ProfileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UpdateProfileResult, error) {
	if s.profiles == nil {
		return nil, errors.New("profile store not set")
	}

	if err := validateUpdate(&req.Update); err != nil {
		return nil, err
	}

	var justCompleted bool
	updated, err := s.profiles.UpdateMerged(ctx, req.UserID, func(p *models.Profile) error {
		wasComplete := p.IsProfileComplete
		req.Update.ApplyTo(p)
		p.ProfileProgress = CalculateProgress(p)
		p.IsProfileComplete = IsComplete(p.ProfileProgress)
		justCompleted = !wasComplete && p.IsProfileComplete
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	result := &UpdateProfileResult{
		ProfileProgress:      updated.ProfileProgress,
		IsProfileComplete:    updated.IsProfileComplete,
		ProfileJustCompleted: justCompleted,
	}
	if req.Update.TouchesName() {
		name := updated.DisplayName()
		result.DisplayName = &name
	}

	return result, nil
}

// Field constraints. Clearing a field with an empty string is always
// allowed; constraints apply to non-empty values only.
const (
	maxFieldLen  = 255
	maxSkills    = 50
	maxSkillLen  = 100
	minPhoneLen  = 7
	maxPhoneLen  = 20
	phoneCharset = "0123456789 +-()"
)

func validateUpdate(u *models.ProfileUpdate) error {
	text := []struct {
		name  string
		value *string
	}{
		{"first_name", u.FirstName},
		{"last_name", u.LastName},
		{"gender", u.Gender},
		{"country", u.Country},
		{"state", u.State},
		{"city", u.City},
		{"postal_code", u.PostalCode},
		{"work_status", u.WorkStatus},
		{"experience_level", u.ExperienceLevel},
		{"education_level", u.EducationLevel},
		{"industry", u.Industry},
	}
	for _, f := range text {
		if f.value != nil && len(*f.value) > maxFieldLen {
			return &ValidationError{Field: f.name, Message: fmt.Sprintf("must be at most %d characters", maxFieldLen)}
		}
	}

	if u.PhoneNumber != nil {
		if err := validatePhone(*u.PhoneNumber); err != nil {
			return err
		}
	}

	if u.Skills != nil {
		if len(*u.Skills) > maxSkills {
			return &ValidationError{Field: "skills", Message: fmt.Sprintf("at most %d skills allowed", maxSkills)}
		}
		for _, skill := range *u.Skills {
			if len(skill) > maxSkillLen {
				return &ValidationError{Field: "skills", Message: fmt.Sprintf("each skill must be at most %d characters", maxSkillLen)}
			}
		}
	}

	return nil
}

func validatePhone(phone string) error {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) < minPhoneLen || len(trimmed) > maxPhoneLen {
		return &ValidationError{
			Field:   "phone_number",
			Message: fmt.Sprintf("must be %d to %d characters", minPhoneLen, maxPhoneLen),
		}
	}
	for _, r := range trimmed {
		if !strings.ContainsRune(phoneCharset, r) {
			return &ValidationError{Field: "phone_number", Message: "contains invalid characters"}
		}
	}
	return nil
}
