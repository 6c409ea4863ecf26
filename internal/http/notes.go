package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/services"
)

const myNotesPath = "/mynotes"

// NotesController serves the caller's notes.
type NotesController struct {
	notes *services.NotesService
}

func NewNotesController(notes *services.NotesService) *NotesController {
	return &NotesController{notes: notes}
}

// MyNotes renders the note form and the caller's notes.
func (nc *NotesController) MyNotes(c *gin.Context) {
	nc.render(c, forms.Note{}, nil)
}

// AddNote stores a new note for the caller.
func (nc *NotesController) AddNote(c *gin.Context) {
	var form forms.Note
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if _, err := nc.notes.Add(auth.GetIdentity(c), &form); err != nil {
		if ve, ok := forms.AsValidationError(err); ok {
			nc.render(c, form, ve.Messages())
			return
		}
		respondServiceError(c, err, "Note", "add note")
		return
	}
	c.Redirect(http.StatusFound, myNotesPath)
}

// DeleteNote removes one of the caller's notes.
func (nc *NotesController) DeleteNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Note")
	if !ok {
		return
	}
	if err := nc.notes.Remove(auth.GetIdentity(c), id); err != nil {
		respondServiceError(c, err, "Note", "delete note")
		return
	}
	c.Redirect(http.StatusFound, myNotesPath)
}

func (nc *NotesController) render(c *gin.Context, form forms.Note, errs map[string]string) {
	notes, err := nc.notes.List(auth.GetIdentity(c))
	if err != nil {
		respondServiceError(c, err, "Notes", "list notes")
		return
	}
	auth.Render(c, http.StatusOK, "mynotes.html", gin.H{
		"Title":     "My Notes",
		"Form":      form,
		"Errors":    errs,
		"Notes":     notes,
		"MaxLength": forms.NoteMaxLength,
	})
}
