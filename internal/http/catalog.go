package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/services"
)

// CatalogController serves the shared catalog pages.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// MainPage lists every catalog book.
func (cc *CatalogController) MainPage(c *gin.Context) {
	books, err := cc.catalog.ListAll()
	if err != nil {
		respondInternalError(c, err, "list catalog")
		return
	}
	genres, err := cc.catalog.Genres()
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	auth.Render(c, http.StatusOK, "main-page.html", gin.H{
		"Title":  "Catalog",
		"Books":  books,
		"Genres": genres,
	})
}

// BookPage shows a single catalog book.
func (cc *CatalogController) BookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Book")
	if !ok {
		return
	}
	book, err := cc.catalog.Get(id)
	if err != nil {
		respondServiceError(c, err, "Book", "get book")
		return
	}
	auth.Render(c, http.StatusOK, "book.html", gin.H{
		"Title": book.Title,
		"Book":  book,
	})
}

// GenrePage lists the books of one genre. An unknown genre renders an
// empty list.
func (cc *CatalogController) GenrePage(c *gin.Context) {
	genre := c.Param("genre")
	books, err := cc.catalog.ListByGenre(genre)
	if err != nil {
		respondInternalError(c, err, "list books by genre")
		return
	}
	auth.Render(c, http.StatusOK, "book-list.html", gin.H{
		"Title": genre,
		"Genre": genre,
		"Books": books,
	})
}
