// Package session implements cookie-based login sessions persisted to
// a JSON file with debounced writes.
package session

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Data is the payload carried by an authenticated session.
type Data struct {
	Username      string `json:"username"`
	Authenticated bool   `json:"authenticated"`
}

// Record is one stored session. ExpiresAt is epoch milliseconds; zero
// means the session never expires.
type Record struct {
	Data      Data  `json:"data"`
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}

func (r Record) expired(now time.Time) bool {
	return r.ExpiresAt != 0 && r.ExpiresAt <= now.UnixMilli()
}

// Store keeps sessions in memory and flushes them to a single JSON
// file. Mutations restart a one-shot timer so a burst of changes
// produces one write.
type Store struct {
	mu      sync.Mutex
	path    string
	delay   time.Duration
	log     zerolog.Logger
	records map[string]Record
	timer   *time.Timer
}

// NewStore loads path if it exists and returns a store that flushes
// delay after the last mutation of a burst.
func NewStore(path string, delay time.Duration, logger zerolog.Logger) *Store {
	s := &Store{
		path:    path,
		delay:   delay,
		log:     logger,
		records: make(map[string]Record),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("file", path).Msg("session read failed, starting empty")
		}
		return s
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		s.log.Warn().Err(err).Str("file", path).Msg("session parse failed, starting empty")
		s.records = make(map[string]Record)
	}
	// A file holding the literal null decodes into a nil map.
	if s.records == nil {
		s.records = make(map[string]Record)
	}
	return s
}

// Get returns sid's record. An expired record is evicted and reported
// as absent.
func (s *Store) Get(sid string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[sid]
	if !ok {
		return Record{}, false
	}
	if rec.expired(time.Now()) {
		delete(s.records, sid)
		s.scheduleFlush()
		return Record{}, false
	}
	return rec, true
}

// Set stores sid's record and schedules a flush.
func (s *Store) Set(sid string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sid] = rec
	s.scheduleFlush()
}

// Touch refreshes an existing session. Destroyed or expired sessions
// are not resurrected.
func (s *Store) Touch(sid string, rec Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.records[sid]
	if !ok || old.expired(time.Now()) {
		return false
	}
	s.records[sid] = rec
	s.scheduleFlush()
	return true
}

// Destroy removes sid immediately and schedules a flush.
func (s *Store) Destroy(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sid)
	s.scheduleFlush()
}

// Flush cancels any pending timer and writes the file now. Called on
// shutdown.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.flushLocked()
}

// scheduleFlush restarts the debounce timer. Callers must hold mu.
func (s *Store) scheduleFlush() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.timer = nil
		s.flushLocked()
	})
}

// flushLocked prunes expired sessions and rewrites the file. Callers
// must hold mu.
func (s *Store) flushLocked() {
	now := time.Now()
	for sid, rec := range s.records {
		if rec.expired(now) {
			delete(s.records, sid)
		}
	}
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Msg("session marshal failed")
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.log.Error().Err(err).Str("file", s.path).Msg("session write failed")
	}
}
