package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// ErrNotPDF содержимое не является PDF по сигнатуре.
var ErrNotPDF = errors.New("storage: содержимое не является PDF")

// PDFCache хранит готовые PDF на диске по идентификатору документа.
type PDFCache struct {
	rootPath string
	maxBytes int64
}

// NewPDFCache создаёт каталог кэша.
func NewPDFCache(rootPath string, maxMB int64) (*PDFCache, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &PDFCache{
		rootPath: rootPath,
		maxBytes: maxMB * 1024 * 1024,
	}, nil
}

// Get возвращает закэшированный PDF. Файл с неверной сигнатурой удаляется и считается промахом.
func (s *PDFCache) Get(ctx context.Context, docID uuid.UUID, watermarked bool) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	target := s.path(docID, watermarked)
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("storage: ошибка чтения файла: %w", err)
	}

	if !filetype.Is(data, "pdf") {
		_ = os.Remove(target)
		return nil, false, nil
	}
	return data, true, nil
}

// Put записывает PDF во временный файл и атомарно переименовывает его.
func (s *PDFCache) Put(ctx context.Context, docID uuid.UUID, watermarked bool, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	targetPath := s.path(docID, watermarked)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = os.Remove(tempPath)
		return 0, fmt.Errorf("storage: ошибка чтения данных: %w", err)
	}
	if !filetype.Is(head[:n], "pdf") {
		_ = os.Remove(tempPath)
		return 0, ErrNotPDF
	}

	limitedReader := io.LimitedReader{R: io.MultiReader(bytes.NewReader(head[:n]), r), N: s.maxBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxBytes {
		_ = os.Remove(tempPath)
		return 0, fmt.Errorf("storage: размер файла превышает лимит %d байт", s.maxBytes)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return written, nil
}

// Delete удаляет оба варианта PDF документа.
func (s *PDFCache) Delete(ctx context.Context, docID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, watermarked := range []bool{true, false} {
		if err := os.Remove(s.path(docID, watermarked)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage: не удалось удалить файл: %w", err)
		}
	}
	return nil
}

func (s *PDFCache) path(docID uuid.UUID, watermarked bool) string {
	suffix := "clean"
	if watermarked {
		suffix = "wm"
	}
	return filepath.Join(s.rootPath, fmt.Sprintf("%s-%s.pdf", docID.String(), suffix))
}
