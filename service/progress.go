package service

import (
	"math"
	"strings"

	"interviewgenie-backend/models"
)

// Section weights for profile completion. Fixed product constants,
// must always sum to 100.
const (
	personalWeight     = 25.0
	locationWeight     = 25.0
	professionalWeight = 35.0
	skillsWeight       = 15.0
)

// CompletionThreshold is the progress value at or above which a
// profile counts as complete. Deliberately below 100 so optional
// fields can stay empty.
const CompletionThreshold = 80

// CalculateProgress computes the weighted completion percentage for a
// profile. Personal, location and professional groups score
// filled/total of their weight; skills are all-or-nothing. The summed
// score is rounded half-up to the nearest integer.
func CalculateProgress(p *models.Profile) int {
	personal := []string{p.FirstName, p.LastName, p.PhoneNumber, p.Gender}
	location := []string{p.Country, p.State, p.City, p.PostalCode}
	professional := []string{p.WorkStatus, p.ExperienceLevel, p.EducationLevel, p.Industry}

	total := groupScore(personal, personalWeight) +
		groupScore(location, locationWeight) +
		groupScore(professional, professionalWeight)

	if len(p.Skills) > 0 {
		total += skillsWeight
	}

	return int(math.Round(total))
}

// IsComplete reports whether a progress value meets the completion
// threshold.
func IsComplete(progress int) bool {
	return progress >= CompletionThreshold
}

func groupScore(fields []string, weight float64) float64 {
	filled := 0
	for _, f := range fields {
		if fieldFilled(f) {
			filled++
		}
	}
	return float64(filled) / float64(len(fields)) * weight
}

// fieldFilled treats any non-empty string after trimming as filled.
// "0" counts; whitespace-only does not.
func fieldFilled(s string) bool {
	return strings.TrimSpace(s) != ""
}
