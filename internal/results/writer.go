package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
)

// Writer persists processing outcomes as JSON files in the output directory.
// Every call produces a new file; nothing is ever rewritten in place, so the
// directory is an append-only log of processing events.
type Writer interface {
	SaveRecord(record *domain.ProcessingRecord) (string, error)
	SaveBatch(batch *domain.BatchRecord) (string, error)
}

type jsonWriter struct {
	dir string
	log *zap.Logger
}

func NewWriter(dir string, log *zap.Logger) Writer {
	return &jsonWriter{dir: dir, log: log}
}

func (w *jsonWriter) SaveRecord(record *domain.ProcessingRecord) (string, error) {
	path, err := w.write("image_context", record)
	if err != nil {
		return "", err
	}

	w.log.Info("Processing record saved",
		zap.String("path", path),
		zap.String("image_name", record.ImageName),
		zap.String("status", record.ProcessingStatus))

	return path, nil
}

func (w *jsonWriter) SaveBatch(batch *domain.BatchRecord) (string, error) {
	path, err := w.write("batch_context", batch)
	if err != nil {
		return "", err
	}

	w.log.Info("Batch record saved",
		zap.String("path", path),
		zap.Int("total_images", batch.TotalImages),
		zap.Int("successful", batch.SuccessfulImages),
		zap.Int("failed", batch.FailedImages))

	return path, nil
}

func (w *jsonWriter) write(prefix string, v interface{}) (string, error) {
	name := fmt.Sprintf("%s_%s_%s.json",
		prefix,
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8])
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save JSON file: %w", err)
	}

	return path, nil
}
