package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"nearActivity/internal/model"
)

// JsonlStorage appends activity elements to a file, one JSON object per line.
// Each batch is encoded in memory first, so a bad element leaves the file untouched.
type JsonlStorage struct {
	path string

	mu      sync.Mutex
	written int
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// Written reports how many elements were appended by this instance.
func (s *JsonlStorage) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

func (s *JsonlStorage) PutElements(elements []model.ActivityElement) error {
	if len(elements) == 0 {
		return nil
	}

	lines := make([][]byte, 0, len(elements))
	for i, element := range elements {
		line, err := json.Marshal(element)
		if err != nil {
			return fmt.Errorf("marshal element %d: %w", i, err)
		}
		lines = append(lines, line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}

	writer := bufio.NewWriter(file)
	for _, line := range lines {
		writer.Write(line)
		writer.WriteByte('\n')
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}

	s.written += len(lines)
	return nil
}
