package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/services"
)

const myBooksPath = "/mybooks"

// CollectionController serves the caller's own shelf.
type CollectionController struct {
	collection *services.CollectionService
}

func NewCollectionController(collection *services.CollectionService) *CollectionController {
	return &CollectionController{collection: collection}
}

// MyBooks lists the caller's owned books.
func (cc *CollectionController) MyBooks(c *gin.Context) {
	books, err := cc.collection.List(auth.GetIdentity(c))
	if err != nil {
		respondServiceError(c, err, "Books", "list owned books")
		return
	}
	auth.Render(c, http.StatusOK, "mybooks.html", gin.H{
		"Title": "My Books",
		"Books": books,
	})
}

// AddBook copies a catalog book onto the caller's shelf.
func (cc *CollectionController) AddBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Book")
	if !ok {
		return
	}
	if _, err := cc.collection.Add(auth.GetIdentity(c), id); err != nil {
		respondServiceError(c, err, "Book", "add owned book")
		return
	}
	c.Redirect(http.StatusFound, myBooksPath)
}

// DeleteBook removes one of the caller's owned books.
func (cc *CollectionController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Book")
	if !ok {
		return
	}
	if err := cc.collection.Remove(auth.GetIdentity(c), id); err != nil {
		respondServiceError(c, err, "Book", "delete owned book")
		return
	}
	c.Redirect(http.StatusFound, myBooksPath)
}
