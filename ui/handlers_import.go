package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"fleetops/adapters/excel"
	"fleetops/domain/core"
	"fleetops/domain/firstmile"
	"fleetops/internal/api"
	"fleetops/internal/errors"
	"fleetops/internal/importer"

	"github.com/gin-gonic/gin"
)

const (
	templateFilename = "first-mile-template.xlsx"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// ParseFailedMessage is shown when an upload is not a readable spreadsheet
	ParseFailedMessage = "The file could not be read as a spreadsheet. Please upload the first-mile template as .xlsx or .csv."
	// CommitFailedMessage is shown when any chunk of an import fails to save
	CommitFailedMessage = "Upload failed. Some tasks may already have been saved; check the task list before uploading again."
)

var allowedExtensions = []string{".xlsx", ".csv"}

// UploadResponse is the preview returned after a file is parsed
type UploadResponse struct {
	ImportID    string                     `json:"import_id"`
	Filename    string                     `json:"filename"`
	ExpiresAt   time.Time                  `json:"expires_at"`
	Summary     importer.Summary           `json:"summary"`
	BoundFields []firstmile.Field          `json:"bound_fields"`
	Tasks       []firstmile.NormalizedTask `json:"tasks"`
}

func (s *Server) handleTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := excel.WriteTemplate(&buf); err != nil {
		s.logger.Error("[handleTemplate] Failed to build template: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build template"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", templateFilename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) handleDestinations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"destinations": firstmile.Destinations})
}

// handleUpload parses the whole file and stores the preview until commit
func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "File exceeds the " + formatUploadLimit(s.config.MaxUploadBytes) + " limit",
			})
			return
		}
		s.logger.Warn("[handleUpload] No file uploaded: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if !hasAllowedExtension(header.Filename) {
		s.logger.Warn("[handleUpload] Rejected file extension: %s", header.Filename)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only Excel (.xlsx) and CSV (.csv) files are allowed"})
		return
	}

	parsed, err := s.imports.Parse(c.Request.Context(), header.Filename, file)
	if err != nil {
		s.logger.Warn("[handleUpload] Failed to parse %s: %v", header.Filename, err)
		if errors.HasCode(err, errors.CodeParseFailed) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ParseFailedMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}

	sess := s.sessions.Put(parsed)
	s.logger.Info("[handleUpload] Import %s staged from %s: %d valid, %d invalid",
		sess.ID, header.Filename, parsed.Summary.Valid, parsed.Summary.Invalid)

	c.JSON(http.StatusCreated, UploadResponse{
		ImportID:    sess.ID.String(),
		Filename:    parsed.Batch.Filename,
		ExpiresAt:   sess.ExpiresAt,
		Summary:     parsed.Summary,
		BoundFields: parsed.BoundFields,
		Tasks:       parsed.Batch.Tasks,
	})
}

// handleCommit persists the valid rows of a staged import. Progress is
// broadcast to SSE clients subscribed with the import ID.
func (s *Server) handleCommit(c *gin.Context) {
	id, err := core.ParseImportID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := s.sessions.Take(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Import not found or already committed"})
		return
	}

	reporter := api.NewProgressBroadcaster(s.hub, id.String())
	result, err := s.imports.Commit(c.Request.Context(), sess.Parsed.Batch, reporter.Progress)
	if err != nil {
		s.logger.Error("[handleCommit] Import %s failed: %v", id, err)
		reporter.Failed(CommitFailedMessage, result)

		body := gin.H{"error": CommitFailedMessage}
		if result != nil {
			body["tasks_committed"] = result.TasksCommitted
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	reporter.Committed(result)
	c.JSON(http.StatusOK, result)
}

func hasAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// formatUploadLimit renders a byte limit for error messages. Limits under
// 1 MB are stated in bytes so they never read as 0 MB.
func formatUploadLimit(limit int64) string {
	const mb = 1024 * 1024
	if limit < mb {
		return fmt.Sprintf("%d byte", limit)
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(limit)/mb), ".0") + " MB"
}
