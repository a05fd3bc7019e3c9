package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"interviewgenie-backend/models"
	"interviewgenie-backend/repository"

	"github.com/google/uuid"
)

// Cover-letter service errors
var (
	ErrJobNotFound         = errors.New("generation job not found")
	ErrMissingRequiredData = errors.New("job title and description are required")
)

// TextGenerator produces text from a prompt. Implemented by
// GeminiGenerator.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenerationJobStore defines the persistence operations the
// cover-letter service needs. Implemented by
// repository.GenerationJobRepository.
type GenerationJobStore interface {
	Create(ctx context.Context, job *models.GenerationJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.GenerationJobStatus) error
	UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.GenerationSteps) error
	Complete(ctx context.Context, id uuid.UUID, result string) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// CoverLetterService generates tailored cover letters in the
// background, tracked through generation jobs
type CoverLetterService struct {
	jobs      GenerationJobStore
	profiles  ProfileStore
	generator TextGenerator
}

// CoverLetterServiceOption is a functional option for CoverLetterService
type CoverLetterServiceOption func(*CoverLetterService)

// CoverLetterWithJobStore sets the generation job store
func CoverLetterWithJobStore(store GenerationJobStore) CoverLetterServiceOption {
	return func(s *CoverLetterService) {
		s.jobs = store
	}
}

// CoverLetterWithProfileStore sets the profile store
func CoverLetterWithProfileStore(store ProfileStore) CoverLetterServiceOption {
	return func(s *CoverLetterService) {
		s.profiles = store
	}
}

// CoverLetterWithGenerator sets the text generator
func CoverLetterWithGenerator(generator TextGenerator) CoverLetterServiceOption {
	return func(s *CoverLetterService) {
		s.generator = generator
	}
}

// NewCoverLetterService creates a new cover-letter service
func NewCoverLetterService(opts ...CoverLetterServiceOption) *CoverLetterService {
	s := &CoverLetterService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCoverLetterRequest represents a request to generate a cover letter
type CreateCoverLetterRequest struct {
	UserID         uuid.UUID
	JobTitle       string
	Company        string
	JobDescription string
}

// CreateCoverLetterResult carries the ID of the created job
type CreateCoverLetterResult struct {
	JobID uuid.UUID
}

// CreateCoverLetter creates a pending generation job. The actual work
// happens in ProcessJob, run by the caller in a background goroutine.
func (s *CoverLetterService) CreateCoverLetter(ctx context.Context, req CreateCoverLetterRequest) (*CreateCoverLetterResult, error) {
	if s.jobs == nil {
		return nil, errors.New("generation job store not set")
	}

	if strings.TrimSpace(req.JobTitle) == "" || strings.TrimSpace(req.JobDescription) == "" {
		return nil, ErrMissingRequiredData
	}

	job := &models.GenerationJob{
		ID:             uuid.New(),
		UserID:         req.UserID,
		Status:         models.JobStatusPending,
		JobTitle:       req.JobTitle,
		Company:        req.Company,
		JobDescription: req.JobDescription,
		Steps: models.GenerationSteps{
			{Name: stepAnalyzeProfile, Status: "pending"},
			{Name: stepDraftLetter, Status: "pending"},
			{Name: stepFinalize, Status: "pending"},
		},
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating generation job: %w", err)
	}

	return &CreateCoverLetterResult{JobID: job.ID}, nil
}

// GetJobStatusRequest represents a request for a job's status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult carries the job
type GetJobStatusResult struct {
	Job *models.GenerationJob
}

// GetJobStatus retrieves the status of a generation job
func (s *CoverLetterService) GetJobStatus(ctx context.Context, req GetJobStatusRequest) (*GetJobStatusResult, error) {
	if s.jobs == nil {
		return nil, errors.New("generation job store not set")
	}

	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("loading generation job: %w", err)
	}

	return &GetJobStatusResult{Job: job}, nil
}

const (
	stepAnalyzeProfile = "Analyzing Profile"
	stepDraftLetter    = "Drafting Cover Letter"
	stepFinalize       = "Finalizing"
)

// ProcessJob performs the actual generation work. Runs in a background
// goroutine with a non-request context; failures are recorded on the
// job for the client to poll.
func (s *CoverLetterService) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	if s.jobs == nil || s.profiles == nil || s.generator == nil {
		return errors.New("cover-letter service not fully configured")
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("loading generation job: %w", err)
	}

	if err := s.jobs.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("marking job in progress: %w", err)
	}

	s.advanceStep(ctx, job, stepAnalyzeProfile)
	profile, err := s.profiles.GetByUserID(ctx, job.UserID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load profile")
		return fmt.Errorf("loading profile for job %s: %w", jobID, err)
	}

	s.advanceStep(ctx, job, stepDraftLetter)
	prompt := buildCoverLetterPrompt(profile, job)
	letter, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.markJobFailed(ctx, jobID, "generation failed")
		return fmt.Errorf("generating cover letter for job %s: %w", jobID, err)
	}

	s.advanceStep(ctx, job, stepFinalize)
	if err := s.jobs.Complete(ctx, jobID, strings.TrimSpace(letter)); err != nil {
		s.markJobFailed(ctx, jobID, "failed to store result")
		return fmt.Errorf("completing job %s: %w", jobID, err)
	}

	return nil
}

// advanceStep marks the named step in progress and all earlier steps
// completed. Progress updates are advisory; failures only log.
func (s *CoverLetterService) advanceStep(ctx context.Context, job *models.GenerationJob, stepName string) {
	reached := false
	for i := range job.Steps {
		switch {
		case job.Steps[i].Name == stepName:
			job.Steps[i].Status = "in_progress"
			reached = true
		case !reached:
			job.Steps[i].Status = "completed"
		}
	}
	if err := s.jobs.UpdateProgress(ctx, job.ID, stepName, job.Steps); err != nil {
		log.Printf("Failed to update progress for job %s: %v", job.ID, err)
	}
}

func (s *CoverLetterService) markJobFailed(ctx context.Context, jobID uuid.UUID, message string) {
	if err := s.jobs.Fail(ctx, jobID, message); err != nil {
		log.Printf("Failed to mark job %s failed: %v", jobID, err)
	}
}

func buildCoverLetterPrompt(profile *models.Profile, job *models.GenerationJob) string {
	var b strings.Builder

	b.WriteString("Write a professional cover letter for the following position.\n\n")
	fmt.Fprintf(&b, "Position: %s\n", job.JobTitle)
	if strings.TrimSpace(job.Company) != "" {
		fmt.Fprintf(&b, "Company: %s\n", job.Company)
	}
	fmt.Fprintf(&b, "\nJob description:\n%s\n\n", job.JobDescription)

	b.WriteString("Candidate background:\n")
	if name := profile.DisplayName(); name != "" {
		fmt.Fprintf(&b, "- Name: %s\n", name)
	}
	if profile.Industry != "" {
		fmt.Fprintf(&b, "- Industry: %s\n", profile.Industry)
	}
	if profile.ExperienceLevel != "" {
		fmt.Fprintf(&b, "- Experience level: %s\n", profile.ExperienceLevel)
	}
	if profile.EducationLevel != "" {
		fmt.Fprintf(&b, "- Education: %s\n", profile.EducationLevel)
	}
	if profile.WorkStatus != "" {
		fmt.Fprintf(&b, "- Current status: %s\n", profile.WorkStatus)
	}
	if len(profile.Skills) > 0 {
		fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(profile.Skills, ", "))
	}
	if loc := strings.Trim(profile.City+", "+profile.Country, ", "); loc != "" {
		fmt.Fprintf(&b, "- Location: %s\n", loc)
	}

	b.WriteString("\nKeep it under 400 words, specific to the role, and free of placeholders.\n")

	return b.String()
}
