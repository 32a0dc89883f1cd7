package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kinship/internal/service"
)

// AdminHandler handles database backup and restore
type AdminHandler struct {
	backup        *service.BackupService
	uploadMaxSize int64
	log           *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(backup *service.BackupService, uploadMaxSize int64, log *zap.Logger) *AdminHandler {
	return &AdminHandler{backup: backup, uploadMaxSize: uploadMaxSize, log: log.Named("admin")}
}

// ExportDatabase streams a backup of every collection as a download
func (h *AdminHandler) ExportDatabase(w http.ResponseWriter, r *http.Request) {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("kinship_backup_%s.json", timestamp)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	stats, err := h.backup.ExportToWriter(r.Context(), w)
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, "Failed to export database", "Error exporting database", err)
		return
	}

	h.log.Info("database exported", zap.String("by", sessionUser(r)), zap.Any("documents", stats))
}

// ImportDatabase restores a backup uploaded in the backup_file field.
// clear_data=true empties every collection first.
func (h *AdminHandler) ImportDatabase(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxSize)
	if err := r.ParseMultipartForm(h.uploadMaxSize); err != nil {
		respondWithError(w, h.log, statusForBodyError(err), "Failed to parse form", "", err)
		return
	}

	file, _, err := r.FormFile("backup_file")
	if err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, "Please select a backup file", "", err)
		return
	}
	defer file.Close()

	clearData := r.FormValue("clear_data") == "true"
	if clearData {
		h.log.Warn("database clear requested before import", zap.String("by", sessionUser(r)))
	}

	stats, err := h.backup.ImportFromReader(r.Context(), file, clearData)
	if err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, "Failed to import database", "Error importing database", err)
		return
	}

	h.log.Info("database imported", zap.String("by", sessionUser(r)), zap.Any("documents", stats))
	respondJSON(w, h.log, http.StatusOK, map[string]any{"success": true, "documents": stats})
}

func sessionUser(r *http.Request) string {
	if s := GetSessionFromContext(r.Context()); s != nil {
		return s.UserID
	}
	return ""
}
