package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
)

// Store persists uploaded image bytes to the local uploads directory.
type Store interface {
	SaveUpload(data []byte, originalName string) (*domain.StoredImage, error)
	UploadsDir() string
}

type localStore struct {
	dir string
	log *zap.Logger
}

func NewLocalStore(dir string, log *zap.Logger) Store {
	return &localStore{dir: dir, log: log}
}

// SaveUpload writes the bytes under a generated unique filename and returns
// the stored reference. The name carries a second-resolution timestamp plus a
// short uuid fragment so that identical names uploaded within the same second
// still land in distinct files.
func (s *localStore) SaveUpload(data []byte, originalName string) (*domain.StoredImage, error) {
	name := uniqueFilename(originalName)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close upload file: %w", err)
	}

	s.log.Info("Upload stored",
		zap.String("original_name", originalName),
		zap.String("path", path),
		zap.Int("size", len(data)))

	return &domain.StoredImage{
		Path:         path,
		OriginalName: originalName,
		Size:         int64(len(data)),
		UploadedAt:   time.Now(),
	}, nil
}

func (s *localStore) UploadsDir() string {
	return s.dir
}

func uniqueFilename(originalName string) string {
	base := filepath.Base(originalName)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if name == "" {
		name = "image"
	}

	timestamp := time.Now().Format("20060102_150405")
	uid := uuid.New().String()[:8]

	return fmt.Sprintf("%s_%s_%s%s", name, timestamp, uid, ext)
}
