package handlers

import (
	"errors"
	"net/http"

	"interviewgenie-backend/models"
	"interviewgenie-backend/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler handles HTTP requests for profile completion
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetCompletion handles GET /api/profile-completion
func (h *ProfileHandler) GetCompletion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	result, err := h.profileService.GetCompletion(c.Request.Context(), service.GetCompletionRequest{
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Profile record not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_FAILED",
				"message": "Failed to load profile completion",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"profileProgress":   result.ProfileProgress,
			"isProfileComplete": result.IsProfileComplete,
		},
	})
}

// UpdateCompletion handles POST /api/profile-completion
func (h *ProfileHandler) UpdateCompletion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.profileService.UpdateProfile(c.Request.Context(), service.UpdateProfileRequest{
		UserID: userID,
		Update: update,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_FAILED",
					"field":   validationErr.Field,
					"message": validationErr.Message,
				},
			})
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Profile record not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STORAGE_FAILED",
					"message": "Failed to save profile",
				},
			})
		}
		return
	}

	data := gin.H{
		"profileProgress":      result.ProfileProgress,
		"isProfileComplete":    result.IsProfileComplete,
		"profileJustCompleted": result.ProfileJustCompleted,
	}
	if result.DisplayName != nil {
		data["displayName"] = *result.DisplayName
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
