// Package store is the single source of truth for everything the
// service persists: system prompts, chat history, notes, provider
// configurations and the usage ledger. Collections live in memory and
// every mutation rewrites the owning JSON file in full.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when an operation references an id that does
// not exist in the targeted collection.
var ErrNotFound = errors.New("store: not found")

// Seeded credentials. There is no registration flow.
const (
	seedUsername = "admin"
	seedPassword = "admin123"
)

// User is the single seeded account. The password never leaves the
// process.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Store keeps every collection in memory and writes the owning file
// through on each mutation. Write failures are logged and tolerated:
// the in-memory state is already updated and the next successful write
// catches up.
type Store struct {
	mu  sync.RWMutex
	dir string
	log zerolog.Logger

	user User

	prompts      map[int]SystemPrompt
	nextPromptID int

	messages      map[int]ChatMessage
	nextMessageID int

	notes      map[int]Note
	nextNoteID int

	configs map[Namespace]*configSet

	// usage is keyed by day, then by token hash plus optional config id.
	usage map[string]map[string]*UsageRecord
}

// Open loads every collection from dir. Missing or unreadable files are
// logged and replaced with empty collections so a fresh checkout starts
// clean.
func Open(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0755); err != nil {
		return nil, err
	}
	s := &Store{
		dir:           dir,
		log:           logger,
		user:          User{ID: 1, Username: seedUsername, Password: seedPassword},
		prompts:       make(map[int]SystemPrompt),
		nextPromptID:  1,
		messages:      make(map[int]ChatMessage),
		nextMessageID: 1,
		notes:         make(map[int]Note),
		nextNoteID:    1,
		configs: map[Namespace]*configSet{
			NamespaceGeneric: {items: make(map[int]APIConfig), nextID: 1},
			NamespaceGoogle:  {items: make(map[int]APIConfig), nextID: 1},
		},
		usage: make(map[string]map[string]*UsageRecord),
	}
	s.loadPrompts()
	s.loadMessages()
	s.loadNotes()
	s.loadConfigs(NamespaceGeneric)
	s.loadConfigs(NamespaceGoogle)
	s.loadUsage()
	return s, nil
}

// User returns the seeded account.
func (s *Store) User() User {
	return s.user
}

// readJSON loads path into v. A missing file is not an error; any other
// failure is logged and the caller keeps its empty collection.
func (s *Store) readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("file", path).Msg("read failed, starting empty")
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn().Err(err).Str("file", path).Msg("parse failed, starting empty")
		return false
	}
	return true
}

// writeJSON rewrites path with the pretty-printed serialization of v.
// Failures are logged only: the in-memory mutation already happened.
func (s *Store) writeJSON(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Str("file", path).Msg("marshal failed")
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.log.Error().Err(err).Str("file", path).Msg("write failed")
	}
}

func (s *Store) promptsPath() string  { return filepath.Join(s.dir, "prompts.json") }
func (s *Store) messagesPath() string { return filepath.Join(s.dir, "messages.json") }
func (s *Store) notesPath() string    { return filepath.Join(s.dir, "notes.json") }
func (s *Store) usagePath() string    { return filepath.Join(s.dir, "data", "usage.json") }

func (s *Store) configsPath(ns Namespace) string {
	if ns == NamespaceGoogle {
		return filepath.Join(s.dir, "google-configs.json")
	}
	return filepath.Join(s.dir, "api-configs.json")
}
