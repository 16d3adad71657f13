package handlers

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
	"fintrack/internal/settings"
)

// MaintenanceHandler handles store backup and restore requests
type MaintenanceHandler struct {
	backupService services.BackupServicer
	settingsStore *settings.Store
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(backupService services.BackupServicer, settingsStore *settings.Store) *MaintenanceHandler {
	return &MaintenanceHandler{backupService: backupService, settingsStore: settingsStore}
}

// BackupRequest represents the backup request payload. Destination is
// optional; when omitted the configured backup directory is used.
type BackupRequest struct {
	Destination string `json:"destination"`
}

// RestoreRequest represents the restore request payload
type RestoreRequest struct {
	Source string `json:"source" binding:"required"`
}

// Backup copies the live store to a timestamped backup file.
func (h *MaintenanceHandler) Backup(c *gin.Context) {
	var req BackupRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	dst := req.Destination
	if dst == "" {
		cfg, err := h.settingsStore.Load()
		if err != nil {
			respondWithError(c, err)
			return
		}
		name := "fintrack_backup_" + time.Now().Format("20060102_150405") + ".db"
		dst = filepath.Join(cfg.BackupDir, name)
	}

	if err := h.backupService.Backup(dst); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Backup created",
		"path":    dst,
	})
}

// Restore replaces the live store with the backup file at source. The file
// is validated before the live store is touched.
func (h *MaintenanceHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	if err := h.backupService.Restore(req.Source); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Store restored"})
}
