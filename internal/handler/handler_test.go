package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/config"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/mirror"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/service"
)

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) ProcessImage(ctx context.Context, file service.UploadFile, prompt string) (*domain.ProcessingRecord, string, error) {
	args := m.Called(ctx, file, prompt)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.ProcessingRecord), args.String(1), args.Error(2)
}

func (m *MockImageService) ProcessBatch(ctx context.Context, files []service.UploadFile, prompt string) (*domain.BatchRecord, string, error) {
	args := m.Called(ctx, files, prompt)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.BatchRecord), args.String(1), args.Error(2)
}

func (m *MockImageService) Search(query string, maxResults int) ([]domain.SearchResult, error) {
	args := m.Called(query, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

func (m *MockImageService) History() ([]domain.HistoryEntry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

func (m *MockImageService) LoadRecordFile(filename string) ([]byte, error) {
	args := m.Called(filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockImageService) ListCloudImages(ctx context.Context) ([]domain.CloudImage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CloudImage), args.Error(1)
}

func (m *MockImageService) CloudImageInfo(ctx context.Context, remoteID string) (*domain.CloudImage, error) {
	args := m.Called(ctx, remoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CloudImage), args.Error(1)
}

func (m *MockImageService) DeleteCloudImage(ctx context.Context, remoteID string) error {
	args := m.Called(ctx, remoteID)
	return args.Error(0)
}

func newTestRouter(svc service.ImageService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{
			MaxUploadSize:  10 * 1024 * 1024,
			AllowedFormats: []string{".jpg", ".jpeg", ".png"},
		},
	}
	h := NewHandler(svc, cfg, zap.NewNop())

	router := gin.New()
	router.GET("/health", h.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/analyze", h.AnalyzeImage)
		api.POST("/analyze/batch", h.AnalyzeBatch)
		api.POST("/search", h.SearchImages)
		api.GET("/history", h.GetHistory)
		api.GET("/records/:filename", h.DownloadRecord)
		api.GET("/cloud/images", h.ListCloudImages)
		api.DELETE("/cloud/images/:id", h.DeleteCloudImage)
	}
	return router
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(new(MockImageService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestAnalyzeImage_NoFile(t *testing.T) {
	router := newTestRouter(new(MockImageService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeImage_RejectsUnsupportedExtension(t *testing.T) {
	router := newTestRouter(new(MockImageService))

	body, contentType := multipartUpload(t, "image", "document.pdf", []byte("%PDF"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeImage_Success(t *testing.T) {
	svc := new(MockImageService)
	svc.On("ProcessImage", mock.Anything, mock.Anything, "").
		Return(&domain.ProcessingRecord{
			ImageName:        "cat.jpg",
			Context:          "a cat",
			ProcessingStatus: domain.StatusSuccess,
			UploadPath:       "uploads/cat_20260826_100000_ab12cd34.jpg",
		}, "processed_images/image_context_x.json", nil)

	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, "image", "cat.jpg", []byte("jpegbytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["json_path"])
	svc.AssertExpectations(t)
}

func TestAnalyzeImage_FailedRecordReturns500(t *testing.T) {
	svc := new(MockImageService)
	svc.On("ProcessImage", mock.Anything, mock.Anything, "").
		Return(&domain.ProcessingRecord{
			ImageName:        "cat.jpg",
			ProcessingStatus: domain.StatusFailed,
			Error:            "quota exceeded",
		}, "processed_images/image_context_x.json", nil)

	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, "image", "cat.jpg", []byte("jpegbytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "quota exceeded")
}

func TestAnalyzeBatch_NoFiles(t *testing.T) {
	router := newTestRouter(new(MockImageService))

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze/batch", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeBatch_Success(t *testing.T) {
	svc := new(MockImageService)
	svc.On("ProcessBatch", mock.Anything, mock.MatchedBy(func(files []service.UploadFile) bool {
		return len(files) == 2
	}), "").Return(&domain.BatchRecord{
		TotalImages:      2,
		SuccessfulImages: 2,
		ProcessingStatus: domain.StatusCompleted,
	}, "processed_images/batch_context_x.json", nil)

	router := newTestRouter(svc)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range []string{"a.jpg", "b.jpg"} {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze/batch", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSearchImages(t *testing.T) {
	svc := new(MockImageService)
	svc.On("Search", "a red cat", 0).Return([]domain.SearchResult{
		{ImageName: "cat.jpg", RelevanceScore: 0.65},
	}, nil)

	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search",
		strings.NewReader(`{"query": "a red cat"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool                  `json:"success"`
		TotalFound int                   `json:"total_found"`
		Results    []domain.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.TotalFound)
}

func TestSearchImages_InvalidBody(t *testing.T) {
	router := newTestRouter(new(MockImageService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCloudImages_DisabledMirror(t *testing.T) {
	svc := new(MockImageService)
	svc.On("ListCloudImages", mock.Anything).Return(nil, mirror.ErrDisabled)

	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cloud/images", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDeleteCloudImage(t *testing.T) {
	svc := new(MockImageService)
	svc.On("DeleteCloudImage", mock.Anything, "cat_20260826_100000_ab12cd34.jpg").Return(nil)

	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/cloud/images/cat_20260826_100000_ab12cd34.jpg", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDownloadRecord_NotFound(t *testing.T) {
	svc := new(MockImageService)
	svc.On("LoadRecordFile", "missing.json").Return(nil, assert.AnError)

	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records/missing.json", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
