package uploads

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"homestay/internal/shared/config"
	"homestay/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// URLPrefix is where stored images are served from.
const URLPrefix = "/uploads"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type Controller struct {
	dir     string
	maxSize int64
}

func NewController(cfg *config.Config) *Controller {
	return &Controller{
		dir:     cfg.Upload.Dir,
		maxSize: cfg.Upload.MaxSizeBytes,
	}
}

// Upload accepts a multipart image and stores it on local disk under a
// generated name, returning the URL it is served from.
func (c *Controller) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Image file is required", err.Error())
		return
	}

	if file.Size > c.maxSize {
		response.Error(ctx, http.StatusBadRequest,
			fmt.Sprintf("Image exceeds the maximum size of %d bytes", c.maxSize), nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		response.Error(ctx, http.StatusBadRequest, "Unsupported image type", nil)
		return
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to store image", nil)
		return
	}

	// Generated names keep user-controlled paths out of the store.
	name := uuid.NewString() + ext
	if err := ctx.SaveUploadedFile(file, filepath.Join(c.dir, name)); err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to store image", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Image uploaded successfully", gin.H{
		"url": URLPrefix + "/" + name,
	})
}
