package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pkowalczyk/booktracker/internal/auth"
)

// ProfileController renders the profile page (the favorites list) and
// handles password changes and account deletion.
type ProfileController struct {
	favorites   FavouritesStore
	authService *auth.Service
	sessions    *auth.SessionManager
}

func NewProfileController(favorites FavouritesStore, authService *auth.Service, sessions *auth.SessionManager) *ProfileController {
	return &ProfileController{
		favorites:   favorites,
		authService: authService,
		sessions:    sessions,
	}
}

// ProfilePage shows the acting user's favorite books, title ascending.
// GET /profile
func (pc *ProfileController) ProfilePage(c *gin.Context) {
	favorites, err := pc.favorites.ListBooks(GetUserID(c))
	if err != nil {
		renderInternalError(c, err, "list favorites")
		return
	}

	c.HTML(http.StatusOK, "user_profile.html", templateData(c, gin.H{
		"Title":     "Profile",
		"Favorites": favorites,
		"Error":     c.Query("error"),
	}))
}

// ChangePassword updates the password and, as the original flow did,
// logs the user out afterwards so every session re-authenticates.
// POST /profile/password
func (pc *ProfileController) ChangePassword(c *gin.Context) {
	oldPassword := c.PostForm("old_password")
	newPassword := c.PostForm("new_password1")
	confirm := c.PostForm("new_password2")

	if newPassword != confirm {
		c.Redirect(http.StatusFound, "/profile?error=The+two+password+fields+didn%27t+match.")
		return
	}

	err := pc.authService.ChangePassword(GetUserID(c), oldPassword, newPassword)
	if err != nil {
		message := "Could+not+change+password."
		if errors.Is(err, auth.ErrInvalidPassword) {
			message = "Your+old+password+was+entered+incorrectly."
		} else if errors.Is(err, auth.ErrPasswordTooShort) || errors.Is(err, auth.ErrPasswordTooLong) {
			message = "The+new+password+is+not+acceptable."
		}
		c.Redirect(http.StatusFound, "/profile?error="+message)
		return
	}

	_ = pc.sessions.DestroySession(c.Request)
	c.HTML(http.StatusOK, "password_change_done.html", gin.H{
		"Title": "Password changed",
	})
}

// DeleteAccount removes the acting user. Their books stay in the
// catalog without an owner; their favorites disappear with them.
// POST /profile/delete
func (pc *ProfileController) DeleteAccount(c *gin.Context) {
	if err := pc.authService.DeleteAccount(GetUserID(c)); err != nil {
		renderInternalError(c, err, "delete account")
		return
	}

	_ = pc.sessions.DestroySession(c.Request)
	c.Redirect(http.StatusFound, "/")
}
