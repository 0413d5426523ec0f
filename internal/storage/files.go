package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SavedImage identifies an upload persisted into the gallery image directory.
// ID is the generated UUID, FileName is ID plus the original extension.
type SavedImage struct {
	ID       string
	FileName string
	Path     string
}

// FileManager owns the gallery image directory and per-turn temporary files.
// Temporary uploads live under a .tmp subdirectory and never survive the
// turn that created them.
type FileManager struct {
	imageDir string
	tempDir  string
}

func NewFileManager(imageDir string) (*FileManager, error) {
	tempDir := filepath.Join(imageDir, ".tmp")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &FileManager{imageDir: imageDir, tempDir: tempDir}, nil
}

// TempDir returns the scratch directory turn-scoped uploads are written to.
func (m *FileManager) TempDir() string {
	return m.tempDir
}

func (m *FileManager) Dir() string {
	return m.imageDir
}

func (m *FileManager) ImagePath(fileName string) string {
	return filepath.Join(m.imageDir, fileName)
}

// SaveUpload persists an uploaded image into the gallery directory under a
// unique name.
func (m *FileManager) SaveUpload(file *multipart.FileHeader) (*SavedImage, error) {
	id := uuid.NewString()
	fileName := id + extension(file.Filename)
	dst := filepath.Join(m.imageDir, fileName)

	if err := copyUpload(file, dst); err != nil {
		return nil, err
	}

	return &SavedImage{ID: id, FileName: fileName, Path: dst}, nil
}

// SaveLocal copies an image already on disk into the gallery directory under
// a unique name. Used by the bulk seeder.
func (m *FileManager) SaveLocal(srcPath string) (*SavedImage, error) {
	id := uuid.NewString()
	fileName := id + extension(srcPath)
	dst := filepath.Join(m.imageDir, fileName)

	src, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &SavedImage{ID: id, FileName: fileName, Path: dst}, nil
}

// SaveTemp writes an uploaded image to a temporary location scoped to one
// chat turn. The caller must remove it before returning, on every path.
func (m *FileManager) SaveTemp(file *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp(m.tempDir, "turn-*"+extension(file.Filename))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmp.Close()

	if err := copyUpload(file, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// Remove deletes a file, tolerating it being already gone.
func (m *FileManager) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func copyUpload(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func extension(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}
