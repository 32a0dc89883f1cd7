package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"kinship/internal/docstore"
	"kinship/internal/repository"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData is the complete export of every document collection
type BackupData struct {
	Version     string                                  `json:"version"`
	ExportedAt  time.Time                               `json:"exported_at"`
	Collections map[string]map[string]docstore.Document `json:"collections"`
}

// BackupStats counts documents per collection
type BackupStats map[string]int

// BackupService handles export and restore of the document store
type BackupService struct {
	store docstore.Store
	log   *zap.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(store docstore.Store, log *zap.Logger) *BackupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BackupService{store: store, log: log.Named("backup")}
}

// Export writes a backup of every collection to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) (BackupStats, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	stats, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return nil, err
	}

	s.log.Info("export complete", zap.String("path", outputPath), zap.Any("documents", stats))
	return stats, nil
}

// ExportToWriter writes a backup of every collection to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (BackupStats, error) {
	backup := &BackupData{
		Version:     BackupVersion,
		ExportedAt:  time.Now().UTC(),
		Collections: make(map[string]map[string]docstore.Document, len(repository.Collections)),
	}
	stats := BackupStats{}

	for _, collection := range repository.Collections {
		entries, err := s.store.List(ctx, collection)
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", collection, err)
		}
		docs := make(map[string]docstore.Document, len(entries))
		for _, e := range entries {
			docs[e.ID] = e.Document
		}
		backup.Collections[collection] = docs
		stats[collection] = len(docs)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return stats, nil
}

// Import restores a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string, clear bool) (BackupStats, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file, clear)
}

// ImportFromReader restores a backup. With clear, collections are emptied
// first; otherwise imported documents overwrite those with the same id.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader, clear bool) (BackupStats, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	s.log.Info("importing backup", zap.String("version", backup.Version), zap.Time("exported_at", backup.ExportedAt))

	if clear {
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
	}

	stats := BackupStats{}
	for collection, docs := range backup.Collections {
		for id, doc := range docs {
			if err := s.store.Set(ctx, collection, id, doc, false); err != nil {
				return nil, fmt.Errorf("failed to import %s/%s: %w", collection, id, err)
			}
		}
		stats[collection] = len(docs)
	}

	s.log.Info("import complete", zap.Any("documents", stats))
	return stats, nil
}

// Clear deletes every document of the known collections
func (s *BackupService) Clear(ctx context.Context) error {
	for _, collection := range repository.Collections {
		entries, err := s.store.List(ctx, collection)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", collection, err)
		}
		for _, e := range entries {
			if err := s.store.Delete(ctx, collection, e.ID); err != nil {
				return err
			}
		}
	}
	s.log.Warn("all collections cleared")
	return nil
}
