// Package storage holds uploaded course and news images and hands out
// their public URLs.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const maxFileSize = 10 << 20 // 10MB

var imageBuckets = map[string]bool{
	"course_images": true,
	"news_images":   true,
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Storage is the object-storage surface the admin panel uploads through.
type Storage interface {
	Upload(bucket, path string, r io.Reader, contentType string, size int64) (string, error)
	PublicURL(bucket, path string) string
}

// FileStorage keeps objects on the local filesystem under dir and serves
// them from baseURL/storage/.
type FileStorage struct {
	dir     string
	baseURL string
}

func NewFileStorage(dir, baseURL string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &FileStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the root the HTTP server mounts under /storage/.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Upload stores the object, replacing any existing one at the same path,
// and returns its public URL. Image buckets accept only JPEG and PNG.
func (s *FileStorage) Upload(bucket, path string, r io.Reader, contentType string, size int64) (string, error) {
	if imageBuckets[bucket] && !allowedImageTypes[contentType] {
		return "", fmt.Errorf("يجب أن تكون الصورة بصيغة JPEG أو PNG")
	}
	if size > maxFileSize {
		return "", fmt.Errorf("حجم الملف كبير جدًا (الحد الأقصى 10 ميجابايت)")
	}

	dst := filepath.Join(s.dir, filepath.Base(bucket), filepath.Base(path))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating bucket directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, maxFileSize+1)); err != nil {
		return "", fmt.Errorf("writing object file: %w", err)
	}

	return s.PublicURL(bucket, path), nil
}

func (s *FileStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/%s/%s", s.baseURL, filepath.Base(bucket), filepath.Base(path))
}
