package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cvforge/internal/api/middleware"
	"cvforge/internal/database"
	"cvforge/internal/storage"
)

const (
	maxThumbnailSize = 5 << 20
	presignExpiry    = 15 * time.Minute
)

var thumbnailContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// ObjectStore is the slice of blob storage the thumbnail flow needs.
type ObjectStore interface {
	UploadObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// ThumbnailHandler stores resume preview images in object storage. When
// a scanner is configured, uploads are rejected unless they come back
// clean.
type ThumbnailHandler struct {
	db      *gorm.DB
	store   ObjectStore
	scanner storage.Scanner
}

func NewThumbnailHandler(db *gorm.DB, store ObjectStore, scanner storage.Scanner) *ThumbnailHandler {
	return &ThumbnailHandler{db: db, store: store, scanner: scanner}
}

// Upload accepts a multipart "file" field, scans it, stores it and
// records the object key on the resume. The previous thumbnail object is
// removed best-effort.
func (h *ThumbnailHandler) Upload(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}
	ctx := c.Request.Context()

	var resume database.Resume
	if err := h.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxThumbnailSize {
		BadRequest(c, "file exceeds 5MB limit")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := thumbnailContentTypes[contentType]
	if !ok {
		BadRequest(c, "unsupported content type")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		Internal(c, err)
		return
	}
	defer file.Close()

	// Buffered once so the scan and the upload read the same bytes.
	data, err := io.ReadAll(io.LimitReader(file, maxThumbnailSize+1))
	if err != nil {
		Internal(c, err)
		return
	}
	if int64(len(data)) > maxThumbnailSize {
		BadRequest(c, "file exceeds 5MB limit")
		return
	}

	if h.scanner != nil {
		clean, err := h.scanner.Scan(bytes.NewReader(data))
		if err != nil {
			Upstream(c, "virus scan failed: "+err.Error())
			return
		}
		if !clean {
			BadRequest(c, "file rejected by virus scan")
			return
		}
	}

	objectKey := "thumbnails/" + uuid.NewString() + ext
	if err := h.store.UploadObject(ctx, objectKey, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		Upstream(c, "thumbnail upload failed: "+err.Error())
		return
	}

	if resume.Thumbnail != nil && *resume.Thumbnail != "" {
		if err := h.store.DeleteObject(ctx, *resume.Thumbnail); err != nil {
			h.logStorage(c, "delete previous thumbnail failed", err)
		}
	}

	if err := h.db.WithContext(ctx).Model(&resume).Updates(map[string]any{
		"thumbnail":    objectKey,
		"last_updated": time.Now(),
	}).Error; err != nil {
		Internal(c, err)
		return
	}

	url, err := h.store.PresignedURL(ctx, objectKey, presignExpiry)
	if err != nil {
		h.logStorage(c, "presign thumbnail failed", err)
		url = ""
	}

	c.JSON(http.StatusOK, gin.H{"thumbnail": objectKey, "url": url})
}

// Link returns a fresh presigned URL for the stored thumbnail.
func (h *ThumbnailHandler) Link(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}
	ctx := c.Request.Context()

	var resume database.Resume
	if err := h.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, err)
		return
	}
	if resume.Thumbnail == nil || *resume.Thumbnail == "" {
		NotFound(c, "resume has no thumbnail")
		return
	}

	url, err := h.store.PresignedURL(ctx, *resume.Thumbnail, presignExpiry)
	if err != nil {
		Upstream(c, "presign thumbnail failed: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Delete removes the stored object and clears the field.
func (h *ThumbnailHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}
	ctx := c.Request.Context()

	var resume database.Resume
	if err := h.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, err)
		return
	}
	if resume.Thumbnail == nil || *resume.Thumbnail == "" {
		NotFound(c, "resume has no thumbnail")
		return
	}

	if err := h.store.DeleteObject(ctx, *resume.Thumbnail); err != nil {
		h.logStorage(c, "delete thumbnail object failed", err)
	}
	if err := h.db.WithContext(ctx).Model(&resume).Updates(map[string]any{
		"thumbnail":    nil,
		"last_updated": time.Now(),
	}).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "thumbnail removed"})
}

func (h *ThumbnailHandler) logStorage(c *gin.Context, msg string, err error) {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		logger.Error(msg, slog.Any("error", err))
	}
}
