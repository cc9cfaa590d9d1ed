package store

import (
	"encoding/json"
	"errors"
	"os"
)

// jsonFile reads and writes a single JSON document at a fixed path. Each
// store owns one jsonFile per concern and serializes access with its own
// mutex.
type jsonFile struct {
	path string
}

// load unmarshals the document into out and reports whether the file
// existed. State that was never written is not an error.
func (f jsonFile) load(out any) (bool, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, out)
}

// store marshals v and replaces the document atomically: write to a
// sibling temp file, then rename over the target. A crashed write leaves
// the previous document intact, never a torn one.
func (f jsonFile) store(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
