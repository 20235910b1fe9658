package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// FileService stages uploaded files so they can be parsed from storage and
// removed afterwards.
type FileService interface {
	// StageAttendanceExport stores an uploaded biometric export under a unique name
	StageAttendanceExport(ctx context.Context, file io.Reader, filename string) (string, error)

	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

// StageAttendanceExport implements FileService.
func (s *fileServiceImpl) StageAttendanceExport(ctx context.Context, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	// Generate unique filename
	newFilename := uuid.New().String() + ext
	path := filepath.Join("attendance-uploads", s.now().Format("2006-01"), newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, path)
	if err != nil {
		return "", fmt.Errorf("failed to stage attendance export: %w", err)
	}

	return uploadedPath, nil
}

// OpenFile implements FileService.
func (s *fileServiceImpl) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Open(ctx, path)
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}
