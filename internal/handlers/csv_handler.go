package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// CSVHandler handles CSV export and import of the ledger
type CSVHandler struct {
	csvService services.CSVServicer
}

// NewCSVHandler creates a new CSVHandler
func NewCSVHandler(csvService services.CSVServicer) *CSVHandler {
	return &CSVHandler{csvService: csvService}
}

// ExportTransactions streams the user's transactions as a CSV attachment.
// Optional start_date and end_date query parameters bound the window.
func (h *CSVHandler) ExportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := h.csvService.ExportTransactions(userID, c.Writer, startDate, endDate); err != nil {
		// Headers are already out; all we can do is abort the stream.
		c.Abort()
		return
	}
}

// ImportTransactions ingests a CSV file uploaded as the "file" multipart
// field. The import is all-or-nothing: a malformed row rejects the whole
// file and leaves the ledger untouched.
func (h *CSVHandler) ImportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "file field is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrIO, err))
		return
	}
	defer file.Close()

	imported, err := h.csvService.ImportTransactions(userID, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Import complete",
		"imported": imported,
	})
}
