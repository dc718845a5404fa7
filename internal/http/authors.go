package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthorsController handles the user-facing author creation form.
// The form opens in a popup from the book form, so a successful POST
// renders a window-closing snippet rather than redirecting.
type AuthorsController struct {
	store AuthorStore
}

func NewAuthorsController(store AuthorStore) *AuthorsController {
	return &AuthorsController{store: store}
}

// AddAuthorPage renders the popup form.
// GET /authors/add
func (ac *AuthorsController) AddAuthorPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add_author.html", templateData(c, gin.H{
		"Title": "Add author",
	}))
}

// AddAuthor creates the author and closes the popup.
// POST /authors/add
func (ac *AuthorsController) AddAuthor(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.HTML(http.StatusBadRequest, "add_author.html", templateData(c, gin.H{
			"Title": "Add author",
			"Error": "This field is required.",
		}))
		return
	}

	if _, err := ac.store.CreateAuthor(name); err != nil {
		renderInternalError(c, err, "create author")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<script>window.close();</script>"))
}
