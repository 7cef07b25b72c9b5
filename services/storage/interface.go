package storage

import "context"

// File is an uploaded file held in memory.
type File struct {
	Name string
	Mime string
	Data []byte
}

// StorageService uploads analysis images and returns their public URLs.
type StorageService interface {
	UploadImages(ctx context.Context, files []File) ([]string, error)
	IsConfigured() bool
}
