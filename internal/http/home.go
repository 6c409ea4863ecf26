package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
)

// Home renders the landing page.
func Home(c *gin.Context) {
	auth.Render(c, http.StatusOK, "home.html", gin.H{"Title": "Bookshelf"})
}
