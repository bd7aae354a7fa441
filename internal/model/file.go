package model

import (
	"context"
	"io"
)

// File is a named binary payload sent with an upload call.
type File struct {
	Name    string
	Content io.Reader
}

// MediaSource opens stored media objects for upload.
type MediaSource interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
