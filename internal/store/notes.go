package store

import (
	"sort"
	"strings"
	"time"
)

// Note is a free-form text note with an optional background-generated
// summary.
type Note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// noteTitleLimit caps derived titles at a readable length.
const noteTitleLimit = 80

// untitledNote is the title for notes whose content is blank.
const untitledNote = "Untitled note"

// DeriveNoteTitle extracts a title from note content: the first
// non-blank line, trimmed and capped at noteTitleLimit runes, or a
// placeholder when nothing usable exists.
func DeriveNoteTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > noteTitleLimit {
			return string(r[:noteTitleLimit])
		}
		return line
	}
	return untitledNote
}

func (s *Store) loadNotes() {
	var list []Note
	if !s.readJSON(s.notesPath(), &list) {
		return
	}
	for _, n := range list {
		s.notes[n.ID] = n
		if n.ID >= s.nextNoteID {
			s.nextNoteID = n.ID + 1
		}
	}
}

// Notes returns all notes ordered by update time, oldest first.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.noteList()
}

// Note returns one note by id.
func (s *Store) Note(id int) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	return n, ok
}

// CreateNote stores a new note, deriving the title from the content
// when none is supplied.
func (s *Store) CreateNote(title, content string) Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(title) == "" {
		title = DeriveNoteTitle(content)
	}
	now := time.Now().UTC()
	n := Note{
		ID:        s.nextNoteID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextNoteID++
	s.notes[n.ID] = n
	s.persistNotes()
	return n
}

// UpdateNote overwrites title and content and bumps the update time.
// The creation time and any existing summary are kept; the summary is
// replaced separately once regeneration finishes.
func (s *Store) UpdateNote(id int, title, content string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	if strings.TrimSpace(title) == "" {
		title = DeriveNoteTitle(content)
	}
	n.Title = title
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	s.notes[id] = n
	s.persistNotes()
	return n, nil
}

// SetNoteSummary attaches a generated summary without touching the
// update time, so summarization does not reorder the listing.
func (s *Store) SetNoteSummary(id int, summary string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return false
	}
	n.Summary = summary
	s.notes[id] = n
	s.persistNotes()
	return true
}

// DeleteNote removes a note, reporting whether it existed.
func (s *Store) DeleteNote(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return false
	}
	delete(s.notes, id)
	s.persistNotes()
	return true
}

// noteList builds the sorted slice. Callers must hold the lock.
func (s *Store) noteList() []Note {
	list := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.Before(list[j].UpdatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// persistNotes must be called with the write lock held.
func (s *Store) persistNotes() {
	s.writeJSON(s.notesPath(), s.noteList())
}
