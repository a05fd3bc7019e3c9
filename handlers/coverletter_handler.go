package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"interviewgenie-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CoverLetterHandler handles HTTP requests for cover-letter generation
type CoverLetterHandler struct {
	coverLetterService *service.CoverLetterService
}

// NewCoverLetterHandler creates a new cover-letter handler
func NewCoverLetterHandler(coverLetterService *service.CoverLetterService) *CoverLetterHandler {
	return &CoverLetterHandler{
		coverLetterService: coverLetterService,
	}
}

// CreateCoverLetterRequest represents the request body for generation
type CreateCoverLetterRequest struct {
	JobTitle       string `json:"job_title" binding:"required"`
	Company        string `json:"company"`
	JobDescription string `json:"job_description" binding:"required"`
}

// Create handles POST /api/cover-letters
func (h *CoverLetterHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req CreateCoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.coverLetterService.CreateCoverLetter(c.Request.Context(), service.CreateCoverLetterRequest{
		UserID:         userID,
		JobTitle:       req.JobTitle,
		Company:        req.Company,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingRequiredData) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_FAILED",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GENERATION_FAILED",
				"message": "Failed to create generation job",
			},
		})
		return
	}

	// Background context so generation survives the request
	go func() {
		if err := h.coverLetterService.ProcessJob(context.Background(), result.JobID); err != nil {
			// Error is stored on the job; clients poll status
			log.Printf("Generation job %s failed: %v", result.JobID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id":  result.JobID,
			"status":  "pending",
			"message": "Generation started. Poll /api/jobs/:id for updates.",
		},
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *CoverLetterHandler) GetJobStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	result, err := h.coverLetterService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{
		JobID: id,
	})
	// A user can only see their own jobs
	if err != nil || result.Job.UserID != userID {
		if err != nil && !errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RETRIEVAL_FAILED",
					"message": "Failed to load generation job",
				},
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Generation job not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}
