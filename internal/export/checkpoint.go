package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint records how far an account's feed has been exported.
// NextCursor is nil once the feed is exhausted.
type Checkpoint struct {
	AccountID  string  `json:"account_id"`
	NextCursor *uint64 `json:"next_cursor,omitempty"`
	Pages      int     `json:"pages"`
	Done       bool    `json:"done"`
	UpdatedAt  string  `json:"updated_at"`
}

func (cp Checkpoint) validate() error {
	if cp.AccountID == "" {
		return fmt.Errorf("checkpoint has no account id")
	}
	if cp.Pages < 0 {
		return fmt.Errorf("checkpoint has negative page count %d", cp.Pages)
	}
	if !cp.Done && cp.NextCursor == nil && cp.Pages > 0 {
		return fmt.Errorf("checkpoint for %s has %d pages but no cursor", cp.AccountID, cp.Pages)
	}
	return nil
}

// CheckpointStore keeps a single checkpoint in a JSON file.
// A disabled store loads nothing and drops every save.
type CheckpointStore struct {
	path    string
	enabled bool
}

func NewCheckpointStore(path string, enabled bool) *CheckpointStore {
	return &CheckpointStore{path: path, enabled: enabled}
}

// Load returns the stored checkpoint. ok is false when none exists.
func (c *CheckpointStore) Load() (cp Checkpoint, ok bool, err error) {
	if !c.enabled {
		return Checkpoint{}, false, nil
	}

	data, err := os.ReadFile(c.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Checkpoint{}, false, nil
	case err != nil:
		return Checkpoint{}, false, fmt.Errorf("read checkpoint %s: %w", c.path, err)
	}

	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, false, fmt.Errorf("parse checkpoint %s: %w", c.path, err)
	}
	if err := cp.validate(); err != nil {
		return Checkpoint{}, false, err
	}
	return cp, true, nil
}

// Save replaces the stored checkpoint. Readers never observe a partial file.
func (c *CheckpointStore) Save(cp Checkpoint) error {
	if !c.enabled {
		return nil
	}
	if err := cp.validate(); err != nil {
		return err
	}
	cp.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create checkpoint tmp: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync checkpoint tmp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}
