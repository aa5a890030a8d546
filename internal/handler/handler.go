package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/config"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/mirror"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/service"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/pkg/utils"
)

type Handler struct {
	service service.ImageService
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(service service.ImageService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

// AnalyzeImage processes a single uploaded image.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.log.Error("Failed to get file from form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	if fileHeader.Size > h.cfg.App.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	if !utils.AllowedFormat(fileHeader.Filename, h.cfg.App.AllowedFormats) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file format"})
		return
	}

	upload, err := readUpload(fileHeader)
	if err != nil {
		h.log.Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	prompt := c.PostForm("prompt")

	record, jsonPath, err := h.service.ProcessImage(c.Request.Context(), upload, prompt)
	if err != nil {
		h.log.Error("Failed to process image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if record.ProcessingStatus == domain.StatusFailed {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   record.Error,
			"result":  record,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"result":      record,
		"json_path":   jsonPath,
		"upload_path": record.UploadPath,
	})
}

// AnalyzeBatch processes every image in a multi-file upload. Individual
// failures are reported inside the batch record; only request-level errors
// produce a non-200 response.
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	fileHeaders := form.File["images"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid image files selected"})
		return
	}

	var uploads []service.UploadFile
	for _, fh := range fileHeaders {
		if fh.Filename == "" {
			continue
		}
		if fh.Size > h.cfg.App.MaxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large: " + fh.Filename})
			return
		}
		upload, err := readUpload(fh)
		if err != nil {
			h.log.Error("Failed to read uploaded file",
				zap.String("filename", fh.Filename),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file: " + fh.Filename})
			return
		}
		uploads = append(uploads, upload)
	}

	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid image files selected"})
		return
	}

	prompt := c.PostForm("prompt")

	batch, jsonPath, err := h.service.ProcessBatch(c.Request.Context(), uploads, prompt)
	if err != nil {
		h.log.Error("Failed to process batch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"result":    batch,
		"json_path": jsonPath,
	})
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// SearchImages scores the persisted corpus against a natural-language query.
func (h *Handler) SearchImages(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	results, err := h.service.Search(req.Query, req.MaxResults)
	if err != nil {
		h.log.Error("Search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"query":       req.Query,
		"results":     results,
		"total_found": len(results),
	})
}

// GetHistory lists all persisted processing records, newest first.
func (h *Handler) GetHistory(c *gin.Context) {
	history, err := h.service.History()
	if err != nil {
		h.log.Error("Failed to list history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": history,
	})
}

// DownloadRecord returns the raw JSON of one persisted result file.
func (h *Handler) DownloadRecord(c *gin.Context) {
	filename := c.Param("filename")

	content, err := h.service.LoadRecordFile(filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": filename,
		"content":  string(content),
	})
}

// ListCloudImages lists everything mirrored to cloud storage.
func (h *Handler) ListCloudImages(c *gin.Context) {
	images, err := h.service.ListCloudImages(c.Request.Context())
	if err != nil {
		h.cloudError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"total_images": len(images),
		"images":       images,
	})
}

// CloudImageInfo fetches metadata for one mirrored image.
func (h *Handler) CloudImageInfo(c *gin.Context) {
	remoteID := c.Param("id")
	if remoteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image id is required"})
		return
	}

	info, err := h.service.CloudImageInfo(c.Request.Context(), remoteID)
	if err != nil {
		h.cloudError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "image": info})
}

// DeleteCloudImage removes one mirrored image from cloud storage.
func (h *Handler) DeleteCloudImage(c *gin.Context) {
	remoteID := c.Param("id")
	if remoteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image id is required"})
		return
	}

	if err := h.service.DeleteCloudImage(c.Request.Context(), remoteID); err != nil {
		h.cloudError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"deleted_id": remoteID,
		"message":    "Image deleted successfully",
	})
}

func (h *Handler) cloudError(c *gin.Context, err error) {
	if errors.Is(err, mirror.ErrDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		return
	}
	h.log.Error("Cloud mirror operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"timestamp":         time.Now().Format(time.RFC3339),
		"gemini_configured": h.cfg.Gemini.APIKey != "",
		"mirror_enabled":    h.cfg.Mirror.Enabled(),
	})
}

func (h *Handler) GetUI(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

func readUpload(fh *multipart.FileHeader) (service.UploadFile, error) {
	file, err := fh.Open()
	if err != nil {
		return service.UploadFile{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.UploadFile{}, err
	}

	return service.UploadFile{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}
