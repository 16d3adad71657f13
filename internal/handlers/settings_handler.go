package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/settings"
)

// SettingsHandler serves the application settings document and the
// per-user display settings stored on the profile.
type SettingsHandler struct {
	settingsStore *settings.Store
	userService   services.UserServicer
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsStore *settings.Store, userService services.UserServicer) *SettingsHandler {
	return &SettingsHandler{settingsStore: settingsStore, userService: userService}
}

// GetSettings returns the application settings document.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	cfg, err := h.settingsStore.Load()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": cfg})
}

// UpdateSettings replaces the application settings document. Out-of-range
// values are reset to defaults rather than rejected.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req settings.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	req.Validate()
	if err := h.settingsStore.Save(req); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": req})
}

// GetDisplaySettings returns the authenticated user's display settings.
func (h *SettingsHandler) GetDisplaySettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	displaySettings, err := h.userService.GetDisplaySettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": displaySettings})
}

// UpdateDisplaySettings replaces the authenticated user's display settings.
// Missing fields are backfilled with defaults.
func (h *SettingsHandler) UpdateDisplaySettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req models.DisplaySettings
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	updated, err := h.userService.UpdateDisplaySettings(userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": updated})
}
