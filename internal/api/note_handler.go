package api

import "github.com/gin-gonic/gin"

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListNotesHandler returns all notes, least recently updated first.
func (s *Server) ListNotesHandler(c *gin.Context) {
	c.JSON(200, s.store.Notes())
}

// GetNoteHandler returns one note by id.
func (s *Server) GetNoteHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(400, gin.H{"message": "Invalid id"})
		return
	}
	n, ok := s.store.Note(id)
	if !ok {
		c.JSON(404, gin.H{"message": "Note not found"})
		return
	}
	c.JSON(200, n)
}

// CreateNoteHandler stores a new note and kicks off summarization in
// the background. Empty content is allowed; the title falls back to a
// placeholder.
func (s *Server) CreateNoteHandler(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}
	n := s.store.CreateNote(req.Title, req.Content)
	s.scheduleSummary(n)
	c.JSON(201, n)
}

// UpdateNoteHandler overwrites a note and regenerates its summary.
func (s *Server) UpdateNoteHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(400, gin.H{"message": "Invalid id"})
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}
	n, err := s.store.UpdateNote(id, req.Title, req.Content)
	if err != nil {
		c.JSON(404, gin.H{"message": "Note not found"})
		return
	}
	s.scheduleSummary(n)
	c.JSON(200, n)
}

// DeleteNoteHandler removes a note.
func (s *Server) DeleteNoteHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(400, gin.H{"message": "Invalid id"})
		return
	}
	if !s.store.DeleteNote(id) {
		c.JSON(404, gin.H{"message": "Note not found"})
		return
	}
	c.Status(204)
}
