package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile represents the authoritative profile record for one user.
// One row per user, created empty at signup.
type Profile struct {
	UserID uuid.UUID `json:"user_id"`

	// Personal
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`

	// Location
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`

	// Professional
	WorkStatus      string `json:"work_status"`
	ExperienceLevel string `json:"experience_level"`
	EducationLevel  string `json:"education_level"`
	Industry        string `json:"industry"`

	Skills []string `json:"skills"`

	// Derived. Recomputed on every update, never set directly.
	ProfileProgress   int  `json:"profile_progress"`
	IsProfileComplete bool `json:"is_profile_complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the combined first+last name, trimmed.
// Empty when neither name field is filled.
func (p *Profile) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// ProfileUpdate is a partial update to a profile. Nil fields are
// left unchanged by the merge; non-nil fields overwrite, including
// explicit empty strings (clearing a field).
type ProfileUpdate struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Gender      *string `json:"gender"`

	Country    *string `json:"country"`
	State      *string `json:"state"`
	City       *string `json:"city"`
	PostalCode *string `json:"postal_code"`

	WorkStatus      *string `json:"work_status"`
	ExperienceLevel *string `json:"experience_level"`
	EducationLevel  *string `json:"education_level"`
	Industry        *string `json:"industry"`

	Skills *[]string `json:"skills"`
}

// ApplyTo merges the update into the profile in place. Derived fields
// are not touched here; the caller recomputes them after the merge.
func (u *ProfileUpdate) ApplyTo(p *Profile) {
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.PhoneNumber != nil {
		p.PhoneNumber = *u.PhoneNumber
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Country != nil {
		p.Country = *u.Country
	}
	if u.State != nil {
		p.State = *u.State
	}
	if u.City != nil {
		p.City = *u.City
	}
	if u.PostalCode != nil {
		p.PostalCode = *u.PostalCode
	}
	if u.WorkStatus != nil {
		p.WorkStatus = *u.WorkStatus
	}
	if u.ExperienceLevel != nil {
		p.ExperienceLevel = *u.ExperienceLevel
	}
	if u.EducationLevel != nil {
		p.EducationLevel = *u.EducationLevel
	}
	if u.Industry != nil {
		p.Industry = *u.Industry
	}
	if u.Skills != nil {
		skills := make([]string, len(*u.Skills))
		copy(skills, *u.Skills)
		p.Skills = skills
	}
}

// TouchesName reports whether the update changes either name field.
func (u *ProfileUpdate) TouchesName() bool {
	return u.FirstName != nil || u.LastName != nil
}
