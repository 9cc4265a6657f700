package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

// FileStore is an append-only interaction log backed by a local JSONL
// file: one record per line, appended with O_APPEND so a crash can at
// worst truncate the final line. Reads tolerate corruption by skipping
// unparseable lines instead of failing.
type FileStore struct {
	path   string
	mu     sync.Mutex
	file   *os.File
	logger *logger.Logger
}

// NewFileStore opens (creating if needed) the record log at path.
func NewFileStore(path string, log *logger.Logger) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open record log: %w", err)
	}

	return &FileStore{
		path:   path,
		file:   f,
		logger: log.WithComponent("file-store"),
	}, nil
}

// Append writes one record as a single JSON line.
func (s *FileStore) Append(ctx context.Context, record models.InteractionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(data); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// LoadAll reads every parseable record from the log in append order.
// Corrupt lines are counted and skipped; a missing file yields an empty
// slice. Never returns nil on success.
func (s *FileStore) LoadAll(ctx context.Context) ([]models.InteractionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.InteractionRecord{}, nil
		}
		return nil, fmt.Errorf("failed to open record log: %w", err)
	}
	defer f.Close()

	records := []models.InteractionRecord{}
	corrupt := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec models.InteractionRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			corrupt++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read record log: %w", err)
	}

	if corrupt > 0 {
		s.logger.Warn().Int("skipped", corrupt).Msg("skipped corrupt lines in record log")
	}

	return records, nil
}

// Close closes the underlying log file.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
