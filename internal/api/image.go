package api

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pkoss/recipebook/internal/store"
)

// maxImageBytes caps uploaded recipe images at 5 MiB.
const maxImageBytes = 5 << 20

// ImageUploader abstracts the S3-backed image service so tests can fake it.
type ImageUploader interface {
	UploadRecipeImage(ctx context.Context, data []byte, contentType, ext string) (string, error)
}

// ImageHandler accepts recipe image uploads and patches the recipe's
// imageUrl with the stored object's public URL.
type ImageHandler struct {
	store    store.RecipeStore
	uploader ImageUploader
	logger   *zap.Logger
}

func NewImageHandler(st store.RecipeStore, uploader ImageUploader, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{store: st, uploader: uploader, logger: logger}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	router.PUT("/recipes/:id/image", chain(mutating, h.UploadRecipeImage)...)
}

func (h *ImageHandler) UploadRecipeImage(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	id, ok := recipeID(c)
	if !ok {
		return
	}

	// 404 before reading the body so clients don't upload into the void.
	if _, err := h.store.Get(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "an image file is required"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the 5MB limit"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only image uploads are accepted"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		h.fail(c, err)
		return
	}

	url, err := h.uploader.UploadRecipeImage(c.Request.Context(), data, contentType, filepath.Ext(fileHeader.Filename))
	if err != nil {
		h.logger.Error("image upload failed", zap.Int64("recipe_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	recipe, err := h.store.Update(c.Request.Context(), id, store.RecipeUpdate{ImageURL: &url})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// fail mirrors RecipeHandler's error translation.
func (h *ImageHandler) fail(c *gin.Context, err error) {
	(&RecipeHandler{store: h.store, logger: h.logger}).fail(c, err)
}
