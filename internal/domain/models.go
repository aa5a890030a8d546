package domain

import (
	"time"
)

// Processing status values for a single image and for a batch.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusCompleted = "completed"
)

// ImageSize holds the decoded dimensions and format of an uploaded image.
type ImageSize struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// StoredImage describes a file persisted to the local uploads directory.
type StoredImage struct {
	Path         string    `json:"path"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// CloudMirrorResult is the outcome of mirroring one image to remote object
// storage. A failed mirror never changes the record's processing status.
type CloudMirrorResult struct {
	Success   bool     `json:"success"`
	RemoteURL string   `json:"remote_url,omitempty"`
	RemoteID  string   `json:"remote_id,omitempty"`
	FileName  string   `json:"file_name,omitempty"`
	Folder    string   `json:"folder,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ProcessingRecord is the persisted outcome of analyzing one image.
// Field names match the JSON files the service has always written.
type ProcessingRecord struct {
	Timestamp        string             `json:"timestamp"`
	ImagePath        string             `json:"image_path"`
	ImageName        string             `json:"image_name"`
	ImageSize        ImageSize          `json:"image_size"`
	PromptUsed       string             `json:"prompt_used,omitempty"`
	Context          string             `json:"context"`
	ProcessingStatus string             `json:"processing_status"`
	Error            string             `json:"error,omitempty"`
	UploadPath       string             `json:"upload_path,omitempty"`
	CloudStorage     *CloudMirrorResult `json:"cloud_storage,omitempty"`
}

// BatchRecord aggregates the records of one multi-image submission,
// preserving submission order.
type BatchRecord struct {
	BatchTimestamp   string             `json:"batch_timestamp"`
	TotalImages      int                `json:"total_images"`
	SuccessfulImages int                `json:"successful_images"`
	FailedImages     int                `json:"failed_images"`
	Images           []ProcessingRecord `json:"images"`
	BatchSummary     string             `json:"batch_summary"`
	ProcessingStatus string             `json:"processing_status"`
}

// SearchResult is one scored match from the persisted JSON corpus.
type SearchResult struct {
	ImageName        string    `json:"image_name"`
	ImagePath        string    `json:"image_path"`
	UploadPath       string    `json:"upload_path,omitempty"`
	Context          string    `json:"context"`
	ImageSize        ImageSize `json:"image_size"`
	Timestamp        string    `json:"timestamp"`
	RelevanceScore   float64   `json:"relevance_score"`
	SourceFile       string    `json:"source_file"`
	ProcessingStatus string    `json:"processing_status"`
}

// HistoryEntry summarizes one persisted JSON file for listings.
type HistoryEntry struct {
	Filename  string `json:"filename"`
	Filepath  string `json:"filepath"`
	Timestamp string `json:"timestamp"`
	ImageName string `json:"image_name"`
	Status    string `json:"status"`
}

// CloudImage is one object listed from the mirror folder.
type CloudImage struct {
	RemoteID  string    `json:"remote_id"`
	RemoteURL string    `json:"remote_url"`
	FileName  string    `json:"file_name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
