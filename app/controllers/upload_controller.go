package controllers

import (
	"errors"
	"net/http"

	"github.com/telascatalogo/telas/app/services"
	"github.com/telascatalogo/telas/pkg/ctx"
	"github.com/telascatalogo/telas/pkg/storage"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 << 10

type UploadController struct {
	images   services.ImageStore
	maxBytes int64
}

func NewUploadController(images services.ImageStore, maxBytes int64) *UploadController {
	return &UploadController{images: images, maxBytes: maxBytes}
}

// Store accepts a multipart "file" field and answers with its public URL.
func (uc *UploadController) Store(c *ctx.Context) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, uc.maxBytes+multipartOverhead)
	file, header, err := c.R.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(http.StatusBadRequest, "File too large")
			return
		}
		c.Error(http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	url, err := uc.images.Store(c.Context(), header.Filename, file)
	var ue *storage.UploadError
	switch {
	case errors.As(err, &ue) && ue.Err == nil:
		c.Error(http.StatusBadRequest, ue.Reason)
		return
	case err != nil:
		fail(c, err)
		return
	}
	c.Success(map[string]string{"imageUrl": url})
}
