package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"interviewgenie-backend/models"
	"interviewgenie-backend/repository"

	"github.com/google/uuid"
)

// --- Mock store ---

type memProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
	failWith error
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (s *memProfileStore) seed(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = &models.Profile{UserID: userID}
}

func (s *memProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProfile(p), nil
}

// UpdateMerged serializes per store, mirroring the row lock the real
// repository takes.
func (s *memProfileStore) UpdateMerged(ctx context.Context, userID uuid.UUID, apply func(*models.Profile) error) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	merged := cloneProfile(p)
	if err := apply(merged); err != nil {
		return nil, err
	}
	s.profiles[userID] = cloneProfile(merged)
	return merged, nil
}

func (s *memProfileStore) stored(userID uuid.UUID) *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProfile(s.profiles[userID])
}

func cloneProfile(p *models.Profile) *models.Profile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Skills != nil {
		cp.Skills = make([]string, len(p.Skills))
		copy(cp.Skills, p.Skills)
	}
	return &cp
}

func str(s string) *string { return &s }

func personalUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		FirstName:   str("Jo"),
		LastName:    str("Lee"),
		PhoneNumber: str("5551234567"),
		Gender:      str("other"),
	}
}

func locationUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		Country:    str("US"),
		State:      str("CA"),
		City:       str("Oakland"),
		PostalCode: str("94601"),
	}
}

// --- Tests ---

func TestUpdateProfile_MergePreservesUnprovidedFields(t *testing.T) {
	store := newMemProfileStore()
	userID := uuid.New()
	store.seed(userID)
	svc := NewProfileService(WithProfileStore(store))
	ctx := context.Background()

	if _, err := svc.UpdateProfile(ctx, UpdateProfileRequest{UserID: userID, Update: personalUpdate()}); err != nil {
		t.Fatalf("personal update: %v", err)
	}

	result, err := svc.UpdateProfile(ctx, UpdateProfileRequest{UserID: userID, Update: locationUpdate()})
	if err != nil {
		t.Fatalf("location update: %v", err)
	}

	if result.ProfileProgress != 50 {
		t.Errorf("expected progress 50 after both groups, got %d", result.ProfileProgress)
	}

	p := store.stored(userID)
	if p.FirstName != "Jo" || p.Country != "US" {
		t.Errorf("merge lost fields: first_name=%q country=%q", p.FirstName, p.Country)
	}
}

func TestUpdateProfile_RecomputesFromMergedRecord(t *testing.T) {
	store := newMemProfileStore()
	userID := uuid.New()
	store.seed(userID)
	svc := NewProfileService(WithProfileStore(store))
	ctx := context.Background()

	svc.UpdateProfile(context.Background(), UpdateProfileRequest{UserID: userID, Update: personalUpdate()})

	// Providing a single already-counted group field must not reset
	// the contribution of earlier fields.
	result, err := svc.UpdateProfile(ctx, UpdateProfileRequest{
		UserID: userID,
		Update: models.ProfileUpdate{FirstName: str("Joanna")},
	})
	if err != nil {
		t.Fatalf("rename update: %v", err)
	}
	if result.ProfileProgress != 25 {
		t.Errorf("expected progress 25, got %d", result.ProfileProgress)
	}
	if result.DisplayName == nil || *result.DisplayName != "Joanna Lee" {
		t.Errorf("expected display name %q, got %v", "Joanna Lee", result.DisplayName)
	}
}

func TestUpdateProfile_CompletionFiresExactlyOnce(t *testing.T) {
	store := newMemProfileStore()
	userID := uuid.New()
	store.seed(userID)
	svc := NewProfileService(WithProfileStore(store))
	ctx := context.Background()

	steps := []models.ProfileUpdate{
		personalUpdate(),
		locationUpdate(),
		{WorkStatus: str("employed"), ExperienceLevel: str("senior")},
	}
	for i, u := range steps {
		result, err := svc.UpdateProfile(ctx, UpdateProfileRequest{UserID: userID, Update: u})
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if result.ProfileJustCompleted {
			t.Fatalf("step %d: completion fired below threshold (progress %d)", i, result.ProfileProgress)
		}
	}

	// Adding a skill crosses the threshold: 68 + 15 = 83.
	skills := []string{"Go"}
	result, err := svc.UpdateProfile(ctx, UpdateProfileRequest{
		UserID: userID,
		Update: models.ProfileUpdate{Skills: &skills},
	})
	if err != nil {
		t.Fatalf("skill update: %v", err)
	}
	if result.ProfileProgress != 83 {
		t.Errorf("expected progress 83, got %d", result.ProfileProgress)
	}
	if !result.IsProfileComplete || !result.ProfileJustCompleted {
		t.Errorf("expected completion to fire: complete=%v just=%v", result.IsProfileComplete, result.ProfileJustCompleted)
	}

	// A later update on an already-complete profile must not re-fire.
	result, err = svc.UpdateProfile(ctx, UpdateProfileRequest{
		UserID: userID,
		Update: models.ProfileUpdate{Industry: str("software")},
	})
	if err != nil {
		t.Fatalf("followup update: %v", err)
	}
	if result.ProfileJustCompleted {
		t.Error("completion fired twice")
	}
	if !result.IsProfileComplete {
		t.Error("profile should stay complete")
	}
}

func TestUpdateProfile_ValidationRejectsAtomically(t *testing.T) {
	store := newMemProfileStore()
	userID := uuid.New()
	store.seed(userID)
	svc := NewProfileService(WithProfileStore(store))

	// Valid names alongside a bad phone: the whole update is rejected.
	update := personalUpdate()
	update.PhoneNumber = str("123")

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{UserID: userID, Update: update})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "phone_number" {
		t.Errorf("expected phone_number field, got %q", validationErr.Field)
	}

	p := store.stored(userID)
	if p.FirstName != "" || p.ProfileProgress != 0 {
		t.Errorf("partial merge persisted: first_name=%q progress=%d", p.FirstName, p.ProfileProgress)
	}
}

func TestUpdateProfile_PhoneValidation(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"plain digits", "5551234567", true},
		{"international", "+1 (555) 123-4567", true},
		{"cleared", "", true},
		{"too short", "12345", false},
		{"too long", "123456789012345678901", false},
		{"letters", "555CALLNOW", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemProfileStore()
			userID := uuid.New()
			store.seed(userID)
			svc := NewProfileService(WithProfileStore(store))

			_, err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{
				UserID: userID,
				Update: models.ProfileUpdate{PhoneNumber: &tt.phone},
			})

			var validationErr *ValidationError
			gotValid := !errors.As(err, &validationErr)
			if err != nil && gotValid {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotValid != tt.valid {
				t.Errorf("phone %q: valid=%v, want %v", tt.phone, gotValid, tt.valid)
			}
		})
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	svc := NewProfileService(WithProfileStore(newMemProfileStore()))

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{
		UserID: uuid.New(),
		Update: personalUpdate(),
	})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGetCompletion_StorageErrorSurfaces(t *testing.T) {
	store := newMemProfileStore()
	store.failWith = errors.New("connection refused")
	svc := NewProfileService(WithProfileStore(store))

	_, err := svc.GetCompletion(context.Background(), GetCompletionRequest{UserID: uuid.New()})
	if err == nil || errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected wrapped storage error, got %v", err)
	}
}

// Two concurrent updates for the same user must both survive: the
// store serializes the read-merge-write, so the second merge sees the
// first writer's fields.
func TestUpdateProfile_ConcurrentMerge(t *testing.T) {
	store := newMemProfileStore()
	userID := uuid.New()
	store.seed(userID)
	svc := NewProfileService(WithProfileStore(store))

	var wg sync.WaitGroup
	updates := []models.ProfileUpdate{personalUpdate(), locationUpdate()}
	errs := make([]error, len(updates))
	for i, u := range updates {
		wg.Add(1)
		go func(i int, u models.ProfileUpdate) {
			defer wg.Done()
			_, errs[i] = svc.UpdateProfile(context.Background(), UpdateProfileRequest{UserID: userID, Update: u})
		}(i, u)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	p := store.stored(userID)
	if p.FirstName != "Jo" || p.Country != "US" {
		t.Errorf("concurrent merge lost fields: first_name=%q country=%q", p.FirstName, p.Country)
	}
	if p.ProfileProgress != 50 {
		t.Errorf("expected progress 50 after concurrent merges, got %d", p.ProfileProgress)
	}
}
