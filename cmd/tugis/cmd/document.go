package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tugisline/internal/drawing/document"
	"tugisline/internal/drawing/service"
)

// loadDocument читает и проверяет документ с диска.
func loadDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// frameFor строит кадр так же, как его видит сессия после загрузки документа.
func frameFor(doc *document.Document, grid bool) service.Frame {
	session := service.NewSession("cli", service.DefaultOptions())
	session.Apply(doc)
	session.SetGrid(grid)
	return session.Frame()
}

// outputPath - путь рядом со входным файлом с другим расширением.
func outputPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}
