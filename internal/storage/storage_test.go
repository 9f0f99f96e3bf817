package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadImageAndPublicURL(t *testing.T) {
	s, err := NewFileStorage(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)

	url, err := s.Upload("course_images", "logo.png", strings.NewReader("png-bytes"), "image/png", 9)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/storage/course_images/logo.png", url)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "course_images", "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestUploadRejectsNonImageInImageBucket(t *testing.T) {
	s, err := NewFileStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	_, err = s.Upload("news_images", "doc.pdf", strings.NewReader("%PDF"), "application/pdf", 4)

	assert.Error(t, err)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	s, err := NewFileStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	_, err = s.Upload("course_images", "big.png", strings.NewReader(""), "image/png", 11<<20)

	assert.Error(t, err)
}

func TestUploadReplacesExistingObject(t *testing.T) {
	s, err := NewFileStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	_, err = s.Upload("course_images", "logo.png", strings.NewReader("v1"), "image/png", 2)
	require.NoError(t, err)
	_, err = s.Upload("course_images", "logo.png", strings.NewReader("v2"), "image/png", 2)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "course_images", "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}
