package vehicle

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Drafts persists half-filled confirmation forms per task, so a form
// survives the process being killed mid-entry. Submitting drops the
// draft.
type Drafts struct {
	d *diskv.Diskv
}

// Task IDs come from the server; base64 keeps them filesystem-safe.
func draftKeyTransform(key string) []string {
	return []string{}
}

func NewDrafts(basePath string) (*Drafts, error) {
	if basePath == "" {
		return nil, errors.New("vehicle: drafts need a base path")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("vehicle: creating draft dir: %w", err)
	}
	return &Drafts{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    draftKeyTransform,
		CacheSizeMax: 64 * 1024,
	})}, nil
}

func draftKey(taskID string) string {
	return base64.URLEncoding.EncodeToString([]byte(taskID)) + ".json"
}

// Save writes the current form state for a task.
func (s *Drafts) Save(taskID string, form ConfirmForm) error {
	raw, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return s.d.Write(draftKey(taskID), raw)
}

// Load reads a saved draft; a missing draft is (nil, nil).
func (s *Drafts) Load(taskID string) (*ConfirmForm, error) {
	raw, err := s.d.Read(draftKey(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var form ConfirmForm
	if err := json.Unmarshal(raw, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// Drop deletes a task's draft; missing drafts are fine.
func (s *Drafts) Drop(taskID string) error {
	err := s.d.Erase(draftKey(taskID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
