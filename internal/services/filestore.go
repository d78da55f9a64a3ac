package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
)

// FileStore persists uploaded files. Paths returned by Save are relative and
// are what gets stored in the database.
type FileStore interface {
	Save(ctx context.Context, dir, name string, data []byte) (string, error)
	// Delete removes the file at p. Missing files are not an error.
	Delete(ctx context.Context, p string) error
	URL(p string) string
}

func objectPath(dir, name string) (string, error) {
	p := path.Clean(path.Join(dir, name))
	if strings.HasPrefix(p, "..") || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("invalid file path %q", p)
	}
	return p, nil
}

// LocalStore keeps files on disk under Root and serves them from BaseURL
type LocalStore struct {
	Root    string
	BaseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Save(_ context.Context, dir, name string, data []byte) (string, error) {
	p, err := objectPath(dir, name)
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.Root, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return p, nil
}

func (s *LocalStore) Delete(_ context.Context, p string) error {
	if p == "" {
		return nil
	}
	clean, err := objectPath("", p)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.Root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(p string) string {
	if p == "" {
		return ""
	}
	return s.BaseURL + "/" + p
}

// BucketStore keeps files in a Cloud Storage bucket
type BucketStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewBucketStore(bucket *storage.BucketHandle, bucketName string) *BucketStore {
	return &BucketStore{bucket: bucket, bucketName: bucketName}
}

func (s *BucketStore) Save(ctx context.Context, dir, name string, data []byte) (string, error) {
	p, err := objectPath(dir, name)
	if err != nil {
		return "", err
	}

	w := s.bucket.Object(p).NewWriter(ctx)
	w.ContentType = http.DetectContentType(data)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", p, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", p, err)
	}
	return p, nil
}

func (s *BucketStore) Delete(ctx context.Context, p string) error {
	if p == "" {
		return nil
	}
	err := s.bucket.Object(p).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", p, err)
	}
	return nil
}

func (s *BucketStore) URL(p string) string {
	if p == "" {
		return ""
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, p)
}
