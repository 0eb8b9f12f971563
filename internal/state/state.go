package state

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState represents the state of a single source page
type FileState struct {
	MTime  int64  `json:"mtime"`
	Hash   string `json:"hash"`
	Output string `json:"output"`
}

// State is the build manifest: what was rendered, from what, with which template
type State struct {
	Files        map[string]*FileState `json:"files"`
	TemplateHash string                `json:"template_hash"`

	mu sync.Mutex
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*FileState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewState(), nil
		}
		return nil, err
	}

	st := NewState()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if st.Files == nil {
		st.Files = make(map[string]*FileState)
	}

	return st, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// SetTemplate records the template hash. It reports whether the template
// changed, in which case every page entry is dropped.
func (s *State) SetTemplate(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.TemplateHash == hash {
		return false
	}
	s.TemplateHash = hash
	s.Files = make(map[string]*FileState)
	return true
}

// Template returns the recorded template hash
func (s *State) Template() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TemplateHash
}

// HasChanged checks if a page needs rebuilding since the last build
// Uses hybrid mtime + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().Unix()

	s.mu.Lock()
	fileState, exists := s.Files[path]
	s.mu.Unlock()
	if !exists {
		// New file
		return true, nil
	}

	// A deleted output needs regenerating even if the source is unchanged
	if _, err := os.Stat(fileState.Output); err != nil {
		return true, nil
	}

	// Fast path: check mtime first
	if mtime == fileState.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// Update records the state for a source page and its output
func (s *State) Update(path, output string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[path] = &FileState{
		MTime:  info.ModTime().Unix(),
		Hash:   hash,
		Output: output,
	}

	return nil
}

// Forget removes a page entry, e.g. after a failed render
func (s *State) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Files, path)
}

// GetMTime returns the recorded modification time for a page
func (s *State) GetMTime(path string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fileState, exists := s.Files[path]; exists {
		return time.Unix(fileState.MTime, 0)
	}
	return time.Time{}
}
