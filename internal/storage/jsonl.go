package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"listingScope/internal/model"
)

// JsonlStorage appends records to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutEventBatch appends interpreted events as JSON lines.
func (s *JsonlStorage) PutEventBatch(events []model.InterpretedEvent) error {
	if len(events) == 0 {
		return nil
	}
	values := make([]interface{}, len(events))
	for i := range events {
		values[i] = events[i]
	}
	return s.appendLines(values)
}

// PutCycleBatch appends resolved listing cycles as JSON lines.
func (s *JsonlStorage) PutCycleBatch(cycles []model.ListingCycle) error {
	if len(cycles) == 0 {
		return nil
	}
	values := make([]interface{}, len(cycles))
	for i := range cycles {
		values[i] = cycles[i]
	}
	return s.appendLines(values)
}

func (s *JsonlStorage) appendLines(values []interface{}) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, value := range values {
		line, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
