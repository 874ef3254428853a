// Package history persists the stores created on each sandbox.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Record is one created store. Email is the unique key within a
// sandbox; saving the same email again replaces the comment in place.
type Record struct {
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

type fileData struct {
	SandboxData map[string][]Record `json:"sandboxData"`
}

// Store keeps all records in a single JSON file. Every mutation is a
// read-modify-write of the whole file; concurrent writers are not
// guarded against (single-operator tool, last writer wins).
type Store struct {
	Path string
}

// Save upserts the record for (sandbox, email). The sandbox's list is
// created lazily; an existing email keeps its position.
func (s *Store) Save(sandbox, email, comment string) error {
	data, err := s.load()
	if err != nil {
		return err
	}
	records := data.SandboxData[sandbox]
	found := false
	for i := range records {
		if records[i].Email == email {
			records[i].Comment = comment
			found = true
			break
		}
	}
	if !found {
		records = append(records, Record{Email: email, Comment: comment})
	}
	data.SandboxData[sandbox] = records
	return s.write(data)
}

// Records returns the sandbox's records in insertion order.
func (s *Store) Records(sandbox string) ([]Record, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.SandboxData[sandbox], nil
}

func (s *Store) load() (*fileData, error) {
	data := &fileData{SandboxData: map[string][]Record{}}
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store history: %w", err)
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("parse store history: %w", err)
	}
	if data.SandboxData == nil {
		data.SandboxData = map[string][]Record{}
	}
	return data, nil
}

func (s *Store) write(data *fileData) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, raw, 0o600); err != nil {
		return fmt.Errorf("write store history: %w", err)
	}
	return nil
}
