package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// isLocalPath validates that a redirect path is local to prevent open
// redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/"
// if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// Controller handles the login, logout and registration endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout) // Support GET for simple logout links
}

// LoginPage renders the login form.
// GET /login
func (ac *Controller) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":     "Login",
		"Next":      sanitizeRedirectPath(c.Query("next")),
		"CSRFToken": GetCSRFToken(c),
		"Error":     c.Query("error"),
	})
}

// Login handles the login form submission.
// POST /login
func (ac *Controller) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		message := "Invalid username or password."
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrInvalidPassword) {
			message = "Login failed. Please try again."
		}
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Title":     "Login",
			"Next":      next,
			"CSRFToken": GetCSRFToken(c),
			"Error":     message,
			"Username":  username,
		})
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Title": "Error",
			"Error": "Could not create session.",
		})
		return
	}

	c.Redirect(http.StatusFound, next)
}

// RegisterPage renders the registration form.
// GET /register
func (ac *Controller) RegisterPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "register.html", gin.H{
		"Title":     "Register",
		"CSRFToken": GetCSRFToken(c),
	})
}

// Register handles the registration form submission. A freshly created
// user is logged in immediately and sent to the catalog.
// POST /register
func (ac *Controller) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password1")
	passwordConfirm := c.PostForm("password2")

	renderError := func(message string) {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Title":     "Register",
			"CSRFToken": GetCSRFToken(c),
			"Error":     message,
			"Username":  username,
			"Email":     email,
		})
	}

	if password != passwordConfirm {
		renderError("The two password fields didn't match.")
		return
	}

	user, err := ac.service.Register(username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			renderError("A user with that username already exists.")
		case errors.Is(err, ErrUsernameRequired),
			errors.Is(err, ErrUsernameInvalid),
			errors.Is(err, ErrEmailInvalid),
			errors.Is(err, ErrPasswordRequired),
			errors.Is(err, ErrPasswordTooShort),
			errors.Is(err, ErrPasswordTooLong):
			renderError(err.Error())
		default:
			renderError("Registration failed. Please try again.")
		}
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		// Account exists; let the user log in manually
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout destroys the session and shows the logged-out page.
// GET|POST /logout
func (ac *Controller) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	c.HTML(http.StatusOK, "logout.html", gin.H{
		"Title": "Logged out",
	})
}
