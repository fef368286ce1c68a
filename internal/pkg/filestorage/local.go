package filestorage

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/convenia/convenia-backend/internal/pkg/logger"
)

// LocalStorage stores uploaded documents on the local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a local storage backend rooted at basePath.
// baseURL is the public prefix under which files are served.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SaveFile writes the uploaded file under a collision-resistant name and
// returns that name. The original extension is preserved so browsers can
// infer the content type when downloading.
func (s *LocalStorage) SaveFile(file *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(s.basePath, fileName)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// Clean up the partial file; the caller only sees the copy error
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logger.Debug().Str("fileName", fileName).Int64("size", file.Size).Msg("Stored uploaded file")
	return fileName, nil
}

// DeleteFile removes a stored file. Deleting a file that is already gone
// succeeds so cleanup paths can retry safely.
func (s *LocalStorage) DeleteFile(fileName string) error {
	if fileName == "" {
		return nil
	}

	// Reject names that would escape the storage directory
	cleaned := filepath.Base(fileName)
	err := os.Remove(filepath.Join(s.basePath, cleaned))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFileURL returns the public URL for a stored file
func (s *LocalStorage) GetFileURL(fileName string) string {
	return s.baseURL + "/" + fileName
}

// GetFullPath returns the absolute path of a stored file
func (s *LocalStorage) GetFullPath(fileName string) string {
	return filepath.Join(s.basePath, filepath.Base(fileName))
}

// BasePath returns the storage root, used when mounting the static route
func (s *LocalStorage) BasePath() string {
	return s.basePath
}
