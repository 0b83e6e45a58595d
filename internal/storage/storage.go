// Package storage moves objects between the bucket and local scratch files.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectStore interface {
	// Download copies the object to the local file dst.
	Download(ctx context.Context, name, dst string) error
	// Upload copies the local file src to the object name.
	Upload(ctx context.Context, src, name, contentType string) error
	Put(ctx context.Context, r io.Reader, name, contentType string) error
	MakePublic(ctx context.Context, name string) error
	PublicURL(name string) string
	Bucket() string
}
