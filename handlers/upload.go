package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	"fixhub/services/storage"
)

// Multipart upload limits, matching the public API contract: up to 10
// image/video files, 50MB each.
const (
	maxUploadFiles    = 10
	maxUploadFileSize = 50 << 20
)

// readUploadedFiles pulls the "files" field out of a multipart request,
// enforcing count, per-file size and mime-type limits, and reads each file
// fully into memory.
func readUploadedFiles(c *gin.Context) ([]storage.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	headers := form.File["files"]
	if len(headers) > maxUploadFiles {
		return nil, fmt.Errorf("too many files: maximum is %d", maxUploadFiles)
	}

	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxUploadFileSize {
			return nil, fmt.Errorf("file %s exceeds the 50MB limit", fh.Filename)
		}
		mimeType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") && !strings.HasPrefix(mimeType, "video/") {
			return nil, fmt.Errorf("only image and video files are allowed")
		}

		data, err := readAll(fh)
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", fh.Filename, err)
		}
		files = append(files, storage.File{
			Name: fh.Filename,
			Mime: mimeType,
			Data: data,
		})
	}
	return files, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
