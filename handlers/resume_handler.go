package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"interviewgenie-backend/models"
	"interviewgenie-backend/repository"
	"interviewgenie-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResumeHandler handles HTTP requests for resume files
type ResumeHandler struct {
	resumeRepo       *repository.ResumeRepository
	storage          storage.Storage
	maxFileSize      int64
	allowedMimeTypes map[string]bool
}

// NewResumeHandler creates a new resume handler
func NewResumeHandler(resumeRepo *repository.ResumeRepository, fileStorage storage.Storage) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:  resumeRepo,
		storage:     fileStorage,
		maxFileSize: 10 * 1024 * 1024, // 10MB
		allowedMimeTypes: map[string]bool{
			"application/pdf":    true,
			"text/plain":         true,
			"application/msword": true, // .doc
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true, // .docx
		},
	}
}

// Upload handles POST /api/resumes/upload
func (h *ResumeHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File exceeds maximum size of %d bytes", h.maxFileSize),
			},
		})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !h.allowedMimeTypes[mimeType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNSUPPORTED_FILE_TYPE",
				"message": "Only PDF, DOC, DOCX and TXT resumes are supported",
			},
		})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}
	defer src.Close()

	fileID := uuid.New()
	storagePath, err := h.storage.Upload(c.Request.Context(), fileID, fileHeader.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_FAILED",
				"message": "Failed to store file",
			},
		})
		return
	}

	resume := &models.ResumeFile{
		ID:          fileID,
		UserID:      userID,
		Filename:    fileHeader.Filename,
		MimeType:    mimeType,
		Size:        fileHeader.Size,
		StoragePath: storagePath,
	}
	if err := h.resumeRepo.Create(c.Request.Context(), resume); err != nil {
		// Best effort: don't leave an orphaned blob behind
		_ = h.storage.Delete(c.Request.Context(), storagePath)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_FAILED",
				"message": "Failed to record file",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    resume,
	})
}

// Download handles GET /api/resumes/:id
func (h *ResumeHandler) Download(c *gin.Context) {
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
				"message": "Invalid resume ID format",
			},
		})
		return
	}

	resume, err := h.resumeRepo.GetByID(c.Request.Context(), id)
	// Hide other users' files behind the same 404
	if err != nil || resume.UserID != userID {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STORAGE_FAILED",
					"message": "Failed to load file",
				},
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Resume not found",
			},
		})
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), resume.StoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_FAILED",
				"message": "Failed to retrieve file",
			},
		})
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, resume.Size, resume.MimeType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", resume.Filename),
	})
}

// List handles GET /api/resumes
func (h *ResumeHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	resumes, err := h.resumeRepo.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_FAILED",
				"message": "Failed to list files",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    resumes,
	})
}
