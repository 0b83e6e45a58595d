package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com"

type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Bucket() string { return s.bucket }

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Download(ctx context.Context, name, dst string) error {
	rc, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("%w: gs://%s/%s", ErrObjectNotFound, s.bucket, name)
	}
	if err != nil {
		return fmt.Errorf("opening gs://%s/%s: %w", s.bucket, name, err)
	}
	defer rc.Close()

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return fmt.Errorf("downloading %s: %w", name, err)
	}
	return f.Close()
}

func (s *GCSStore) Upload(ctx context.Context, src, name, contentType string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Put(ctx, f, name, contentType)
}

func (s *GCSStore) Put(ctx context.Context, r io.Reader, name, contentType string) error {
	return writeObject(ctx, func(ctx context.Context) io.WriteCloser {
		w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
		w.ContentType = contentType
		return w
	}, r, name)
}

// writeObject copies r into a writer bound to a cancelable context. A failed
// copy cancels that context first so Close aborts the upload instead of
// committing a truncated object.
func writeObject(ctx context.Context, open func(context.Context) io.WriteCloser, r io.Reader, name string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := open(ctx)
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", name, err)
	}
	return nil
}

func (s *GCSStore) MakePublic(ctx context.Context, name string) error {
	acl := s.client.Bucket(s.bucket).Object(name).ACL()
	if err := acl.Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return fmt.Errorf("making %s public: %w", name, err)
	}
	return nil
}

func (s *GCSStore) PublicURL(name string) string {
	return gcsPublicURL(s.bucket, name)
}

func gcsPublicURL(bucket, name string) string {
	segments := strings.Split(name, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return gcsPublicHost + "/" + bucket + "/" + strings.Join(segments, "/")
}
