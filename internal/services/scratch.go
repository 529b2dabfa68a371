package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ScratchService owns the transient filesystem area used per request:
// the temp copy of the uploaded document and the per-request directory
// of rasterized page images. Every acquisition returns a cleanup
// function that removes the resource best-effort; deletion failures
// are logged, never escalated.
type ScratchService interface {
	SaveUpload(file *multipart.FileHeader) (string, func(), error)
	AcquireDir(label string) (string, func(), error)
	EnsureScratchDir() error
}

type scratchService struct {
	scratchPath string
}

func NewScratchService(scratchPath string) ScratchService {
	return &scratchService{
		scratchPath: scratchPath,
	}
}

// EnsureScratchDir implements ScratchService.
func (s *scratchService) EnsureScratchDir() error {
	if err := os.MkdirAll(s.scratchPath, 0755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return nil
}

// SaveUpload implements ScratchService. The uploaded document is
// written to a uuid-named temp file so concurrent requests never
// collide.
func (s *scratchService) SaveUpload(file *multipart.FileHeader) (string, func(), error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(s.scratchPath, fmt.Sprintf("upload_%s%s", uuid.New().String(), ext))

	src, err := file.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		removeLogged(path)
		return "", nil, fmt.Errorf("failed to save uploaded file: %w", err)
	}

	return path, func() { removeLogged(path) }, nil
}

// AcquireDir implements ScratchService.
func (s *scratchService) AcquireDir(label string) (string, func(), error) {
	dir := filepath.Join(s.scratchPath, fmt.Sprintf("%s_%s", label, uuid.New().String()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}

	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("⚠️  Failed to remove scratch dir %s: %v\n", dir, err)
		}
	}
	return dir, cleanup, nil
}

func removeLogged(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to remove temp file %s: %v\n", path, err)
	}
}
