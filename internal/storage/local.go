// Package storage persists generated documents (contract PDFs) on the local
// filesystem. Paths handed out are relative to the storage root so the
// database rows stay valid if the root is moved.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage writes files under a single base directory
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("no se pudo crear el directorio de almacenamiento: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

// UploadFromBytes stores data under subDir, bucketed by year/month, with a
// random name that keeps the original extension. Returns the relative path.
func (s *LocalStorage) UploadFromBytes(data []byte, filename string, subDir string) (string, error) {
	dir := filepath.Join(s.root, subDir, time.Now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("no se pudo crear el directorio: %w", err)
	}

	target := filepath.Join(dir, randomName()+filepath.Ext(filename))
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("no se pudo guardar el archivo: %w", err)
	}

	rel, err := filepath.Rel(s.root, target)
	if err != nil {
		return "", err
	}
	return rel, nil
}

// Delete removes a stored file
func (s *LocalStorage) Delete(relativePath string) error {
	return os.Remove(filepath.Join(s.root, relativePath))
}

// Exists reports whether a stored file is still on disk
func (s *LocalStorage) Exists(relativePath string) bool {
	_, err := os.Stat(filepath.Join(s.root, relativePath))
	return err == nil
}

// GetFullPath resolves a relative path against the storage root for serving
func (s *LocalStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.root, relativePath)
}

func randomName() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
