package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/images"
	"github.com/GreenvaleServices/lawn-portal/internal/infra/storage"
)

// 10 MB is plenty for a phone photo.
const maxUploadBytes = 10 << 20

type UploadHandler struct {
	store *storage.PhotoStore
}

func NewUploadHandler(store *storage.PhotoStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload accepts one multipart image, re-encodes it as webp and pushes it
// to the object store. Only the resulting URL goes back to the caller;
// any later mutation references that URL, so an upload failure surfaces
// before anything is written to the database.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "A file field is required.")
		return
	}

	if fileHeader.Size > maxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "Photos are limited to 10 MB.")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Something went wrong.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Something went wrong.")
		return
	}

	processed, err := images.Process(data)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "The file is not a readable image.")
		return
	}

	url, err := h.store.Upload(c.Request.Context(), processed, "image/webp")
	if err != nil {
		httperr.Internal(c, "upload_failed", "Could not store the photo.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
