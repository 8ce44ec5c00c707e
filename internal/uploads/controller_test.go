package uploads

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"homestay/internal/shared/config"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, maxSize int64) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	controller := NewController(&config.Config{
		Upload: config.UploadConfig{Dir: dir, MaxSizeBytes: maxSize},
	})

	engine := gin.New()
	engine.POST("/upload", controller.Upload)
	return engine, dir
}

func multipartImage(t *testing.T, field, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadStoresImageAndReturnsURL(t *testing.T) {
	engine, dir := newTestRouter(t, 1<<20)

	body, contentType := multipartImage(t, "image", "garden.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.HasPrefix(envelope.Data.URL, URLPrefix+"/") {
		t.Fatalf("url = %q, want prefix %q", envelope.Data.URL, URLPrefix+"/")
	}
	if !strings.HasSuffix(envelope.Data.URL, ".jpg") {
		t.Errorf("url = %q, want .jpg suffix", envelope.Data.URL)
	}

	stored := filepath.Join(dir, filepath.Base(envelope.Data.URL))
	content, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(content) != "jpeg-bytes" {
		t.Errorf("stored content = %q", content)
	}
}

func TestUploadRejectsBadRequests(t *testing.T) {
	engine, _ := newTestRouter(t, 16)

	tests := []struct {
		name     string
		field    string
		filename string
		payload  []byte
	}{
		{"missing file field", "document", "garden.jpg", []byte("x")},
		{"unsupported extension", "image", "garden.gif", []byte("x")},
		{"oversized payload", "image", "garden.png", bytes.Repeat([]byte("x"), 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartImage(t, tt.field, tt.filename, tt.payload)
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
