package store

import (
	"sort"
	"time"
)

// SystemPrompt is a reusable system instruction for chat requests.
type SystemPrompt struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Store) loadPrompts() {
	var list []SystemPrompt
	if !s.readJSON(s.promptsPath(), &list) {
		return
	}
	for _, p := range list {
		s.prompts[p.ID] = p
		if p.ID >= s.nextPromptID {
			s.nextPromptID = p.ID + 1
		}
	}
}

// Prompts returns all prompts in creation order.
func (s *Store) Prompts() []SystemPrompt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.promptList()
}

// Prompt returns one prompt by id.
func (s *Store) Prompt(id int) (SystemPrompt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[id]
	return p, ok
}

// CreatePrompt assigns the next id and persists the collection.
func (s *Store) CreatePrompt(name, content string) SystemPrompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := SystemPrompt{
		ID:        s.nextPromptID,
		Name:      name,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.nextPromptID++
	s.prompts[p.ID] = p
	s.persistPrompts()
	return p
}

// UpdatePrompt overwrites name and content, keeping the original
// creation time. Returns ErrNotFound for an unknown id.
func (s *Store) UpdatePrompt(id int, name, content string) (SystemPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prompts[id]
	if !ok {
		return SystemPrompt{}, ErrNotFound
	}
	p.Name = name
	p.Content = content
	s.prompts[id] = p
	s.persistPrompts()
	return p, nil
}

// DeletePrompt removes a prompt, reporting whether it existed.
func (s *Store) DeletePrompt(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prompts[id]; !ok {
		return false
	}
	delete(s.prompts, id)
	s.persistPrompts()
	return true
}

// promptList builds the sorted slice. Callers must hold the lock.
func (s *Store) promptList() []SystemPrompt {
	list := make([]SystemPrompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// persistPrompts must be called with the write lock held.
func (s *Store) persistPrompts() {
	s.writeJSON(s.promptsPath(), s.promptList())
}
