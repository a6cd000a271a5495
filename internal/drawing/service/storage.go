package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ============================================================
// Export Storage
// ============================================================

// FileStorage раскладывает выгрузки по каталогам сессий:
// <root>/<sessionID>/<name>-<millis>.json|.png
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) SessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

// ExportPath возвращает путь файла выгрузки с заменой расширения на ext.
func (s *FileStorage) ExportPath(sessionID, filename, ext string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return filepath.Join(s.SessionDir(sessionID), base+ext)
}

func (s *FileStorage) EnsureDir(sessionID string) error {
	path := s.SessionDir(sessionID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir session dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveFile(sessionID, target string, data []byte) error {
	if err := s.EnsureDir(sessionID); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}
