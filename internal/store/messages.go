package store

import (
	"sort"
	"time"
)

// ChatMessage is one turn of the stored conversation history.
type ChatMessage struct {
	ID        int       `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Store) loadMessages() {
	var list []ChatMessage
	if !s.readJSON(s.messagesPath(), &list) {
		return
	}
	for _, m := range list {
		s.messages[m.ID] = m
		if m.ID >= s.nextMessageID {
			s.nextMessageID = m.ID + 1
		}
	}
}

// Messages returns the conversation history in append order.
func (s *Store) Messages() []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messageList()
}

// AppendMessage adds one turn to the history and persists it.
func (s *Store) AppendMessage(role, content string) ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := ChatMessage{
		ID:        s.nextMessageID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	s.nextMessageID++
	s.messages[m.ID] = m
	s.persistMessages()
	return m
}

// ClearMessages empties the history and persists the empty collection.
func (s *Store) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make(map[int]ChatMessage)
	s.persistMessages()
}

// messageList builds the sorted slice. Callers must hold the lock.
func (s *Store) messageList() []ChatMessage {
	list := make([]ChatMessage, 0, len(s.messages))
	for _, m := range s.messages {
		list = append(list, m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// persistMessages must be called with the write lock held.
func (s *Store) persistMessages() {
	s.writeJSON(s.messagesPath(), s.messageList())
}
