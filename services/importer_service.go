package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"

	"healthsearch/embedding"
)

// NoteImporterService bulk-ingests note files from a directory. The file
// stem is the patient id; long files are split into chunks and each chunk
// becomes its own note. Stored notes are append-only, so removed or renamed
// files are logged and left in the store.
type NoteImporterService struct {
	notes        NoteService
	logger       *zap.Logger
	chunkSize    int
	chunkOverlap int

	mu       sync.Mutex
	imported map[string]string // path -> content hash at last import
}

// NewNoteImporterService creates a new importer.
func NewNoteImporterService(notes NoteService, chunkSize, chunkOverlap int, logger *zap.Logger) *NoteImporterService {
	return &NoteImporterService{
		notes:        notes,
		logger:       logger,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		imported:     make(map[string]string),
	}
}

// ScanDirectory walks dirPath once and imports every supported note file
// whose content changed since the last import.
func (s *NoteImporterService) ScanDirectory(ctx context.Context, dirPath string) error {
	s.logger.Info("scanning notes directory", zap.String("dir", dirPath))

	return filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSupportedFile(path) {
			return nil
		}
		if err := s.importFile(ctx, path); err != nil {
			s.logger.Error("failed to import note file",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return nil
	})
}

// WatchDirectory blocks watching dirPath for changes until ctx is cancelled,
// importing files as they are created or written.
func (s *NoteImporterService) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Error("failed to create file watcher", zap.Error(err))
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isSupportedFile(event.Name) {
					continue
				}

				// Many editors write via a temp file plus rename, which
				// fires several events; Create and Write are handled the
				// same and the content hash dedups the rest.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					if err := s.importFile(ctx, event.Name); err != nil {
						s.logger.Error("failed to import modified file",
							zap.String("path", event.Name),
							zap.Error(err),
						)
					}
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					s.logger.Info("note file removed, stored notes are kept",
						zap.String("path", event.Name),
					)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("watcher error", zap.Error(err))

			case <-ctx.Done():
				return
			}
		}
	}()

	if err := watcher.Add(dirPath); err != nil {
		s.logger.Error("failed to watch directory",
			zap.String("dir", dirPath),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("watching notes directory", zap.String("dir", dirPath))

	<-ctx.Done()
}

// importFile splits one note file into chunks and adds each chunk as a note
// for the patient named by the file stem. Unchanged files are skipped.
func (s *NoteImporterService) importFile(ctx context.Context, path string) error {
	hash, err := fileHash(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.imported[path] == hash {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	patientID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.chunkOverlap),
	)
	chunks, err := splitter.SplitText(string(content))
	if err != nil {
		return err
	}

	added := 0
	for _, chunk := range chunks {
		if _, err := s.notes.AddNote(ctx, patientID, chunk); err != nil {
			if errors.Is(err, embedding.ErrEmptyInput) {
				continue
			}
			return err
		}
		added++
	}

	s.mu.Lock()
	s.imported[path] = hash
	s.mu.Unlock()

	s.logger.Info("imported note file",
		zap.String("path", path),
		zap.String("patient_id", patientID),
		zap.Int("chunks", added),
	)
	return nil
}

func isSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	default:
		return false
	}
}

func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
