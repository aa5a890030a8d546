package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/analysis"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/config"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/mirror"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/results"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/storage"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/pkg/utils"
)

// UploadFile is one image as received from the HTTP layer.
type UploadFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ImageService drives the processing pipeline: store locally, analyze with
// the vision model, mirror to cloud storage best-effort, assemble a record
// and persist it as JSON.
type ImageService interface {
	ProcessImage(ctx context.Context, file UploadFile, prompt string) (*domain.ProcessingRecord, string, error)
	ProcessBatch(ctx context.Context, files []UploadFile, prompt string) (*domain.BatchRecord, string, error)
	Search(query string, maxResults int) ([]domain.SearchResult, error)
	History() ([]domain.HistoryEntry, error)
	LoadRecordFile(filename string) ([]byte, error)
	ListCloudImages(ctx context.Context) ([]domain.CloudImage, error)
	CloudImageInfo(ctx context.Context, remoteID string) (*domain.CloudImage, error)
	DeleteCloudImage(ctx context.Context, remoteID string) error
}

type imageService struct {
	store    storage.Store
	analyzer analysis.Analyzer
	mirror   mirror.Mirror
	writer   results.Writer
	index    results.Index
	cfg      *config.Config
	log      *zap.Logger
}

func NewImageService(
	store storage.Store,
	analyzer analysis.Analyzer,
	m mirror.Mirror,
	writer results.Writer,
	index results.Index,
	cfg *config.Config,
	log *zap.Logger,
) ImageService {
	return &imageService{
		store:    store,
		analyzer: analyzer,
		mirror:   m,
		writer:   writer,
		index:    index,
		cfg:      cfg,
		log:      log,
	}
}

// ProcessImage runs the full pipeline for one upload and persists the record
// to its own JSON file.
func (s *imageService) ProcessImage(ctx context.Context, file UploadFile, prompt string) (*domain.ProcessingRecord, string, error) {
	record, err := s.processOne(ctx, file, prompt)
	if err != nil {
		return nil, "", err
	}

	jsonPath, err := s.writer.SaveRecord(&record)
	if err != nil {
		return nil, "", err
	}

	return &record, jsonPath, nil
}

// ProcessBatch processes every image sequentially, in submission order, and
// never stops at a failed image: one bad upload must not cost the rest of
// the batch. Only a missing analysis credential or a failure to persist the
// batch JSON aborts the request.
func (s *imageService) ProcessBatch(ctx context.Context, files []UploadFile, prompt string) (*domain.BatchRecord, string, error) {
	batch := &domain.BatchRecord{
		BatchTimestamp: time.Now().Format(time.RFC3339),
		TotalImages:    len(files),
		Images:         make([]domain.ProcessingRecord, 0, len(files)),
	}

	s.log.Info("Processing batch", zap.Int("total_images", len(files)))

	for i, file := range files {
		s.log.Info("Processing batch image",
			zap.Int("index", i+1),
			zap.Int("total", len(files)),
			zap.String("filename", file.Filename))

		record, err := s.processOne(ctx, file, prompt)
		if err != nil {
			return nil, "", err
		}

		batch.Images = append(batch.Images, record)
		if record.ProcessingStatus == domain.StatusSuccess {
			batch.SuccessfulImages++
		} else {
			batch.FailedImages++
		}
	}

	if batch.SuccessfulImages > 0 {
		batch.ProcessingStatus = domain.StatusCompleted
		batch.BatchSummary = fmt.Sprintf("Successfully processed %d out of %d images",
			batch.SuccessfulImages, batch.TotalImages)
	} else {
		batch.ProcessingStatus = domain.StatusFailed
		batch.BatchSummary = fmt.Sprintf("Failed to process any images out of %d total",
			batch.TotalImages)
	}

	jsonPath, err := s.writer.SaveBatch(batch)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("Batch processing completed",
		zap.Int("successful", batch.SuccessfulImages),
		zap.Int("failed", batch.FailedImages))

	return batch, jsonPath, nil
}

// processOne builds the record for a single image. The returned error is
// non-nil only for conditions fatal to the whole request (a missing vision
// credential); every per-image problem is folded into a failed record.
func (s *imageService) processOne(ctx context.Context, file UploadFile, prompt string) (domain.ProcessingRecord, error) {
	record := domain.ProcessingRecord{
		Timestamp: time.Now().Format(time.RFC3339),
		ImageName: filepath.Base(file.Filename),
		ImageSize: domain.ImageSize{Format: "Unknown"},
	}

	stored, err := s.store.SaveUpload(file.Data, file.Filename)
	if err != nil {
		s.log.Error("Failed to store upload",
			zap.String("filename", file.Filename),
			zap.Error(err))
		return s.failRecord(record, fmt.Sprintf("failed to store upload: %v", err)), nil
	}
	record.ImagePath = stored.Path
	record.UploadPath = stored.Path

	size, err := utils.ProbeImage(file.Data)
	if err != nil {
		s.log.Warn("Unsupported or corrupt image",
			zap.String("filename", file.Filename),
			zap.Error(err))
		return s.failRecord(record, fmt.Sprintf("unsupported or corrupt image: %v", err)), nil
	}
	record.ImageSize = size

	if prompt == "" {
		prompt = analysis.DefaultPrompt
	}
	record.PromptUsed = prompt

	contentType := file.ContentType
	if contentType == "" {
		contentType = utils.ContentTypeByExt(file.Filename)
	}

	result := s.analyzer.Describe(ctx, file.Data, contentType, prompt)
	if result.Failed() {
		if result.Err.Kind == analysis.KindConfiguration {
			return record, fmt.Errorf("analysis unavailable: %s", result.Err.Message)
		}
		record = s.failRecord(record, result.Err.Message)
	} else {
		record.Context = result.Description
		record.ProcessingStatus = domain.StatusSuccess
	}

	// Mirror regardless of analysis outcome; a mirror failure never flips
	// the processing status.
	record.CloudStorage = s.mirror.Upload(ctx, stored.Path, filepath.Base(stored.Path), contentType)

	return record, nil
}

func (s *imageService) failRecord(record domain.ProcessingRecord, message string) domain.ProcessingRecord {
	record.ProcessingStatus = domain.StatusFailed
	record.Error = message
	record.Context = "Processing failed: " + message
	return record
}

func (s *imageService) Search(query string, maxResults int) ([]domain.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = s.cfg.App.MaxSearchResults
	}
	return s.index.Search(query, maxResults)
}

func (s *imageService) History() ([]domain.HistoryEntry, error) {
	return s.index.History()
}

func (s *imageService) LoadRecordFile(filename string) ([]byte, error) {
	return s.index.Load(filename)
}

func (s *imageService) ListCloudImages(ctx context.Context) ([]domain.CloudImage, error) {
	return s.mirror.List(ctx)
}

func (s *imageService) CloudImageInfo(ctx context.Context, remoteID string) (*domain.CloudImage, error) {
	return s.mirror.Info(ctx, remoteID)
}

func (s *imageService) DeleteCloudImage(ctx context.Context, remoteID string) error {
	return s.mirror.Delete(ctx, remoteID)
}
