package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pkowalczyk/booktracker/internal/auth"
)

// GetUserID extracts the authenticated actor's ID from the Gin
// context. Returns 0 for anonymous requests.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// AuthTemplateData holds the actor info every page template needs.
type AuthTemplateData struct {
	LoggedIn  bool
	Username  string
	CSRFToken string
}

// getAuthTemplateData builds the per-request auth block for templates.
func getAuthTemplateData(c *gin.Context) AuthTemplateData {
	return AuthTemplateData{
		LoggedIn:  auth.IsAuthenticated(c),
		Username:  auth.GetUsername(c),
		CSRFToken: auth.GetCSRFToken(c),
	}
}

// templateData merges the common auth block into page-specific data.
func templateData(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Auth"] = getAuthTemplateData(c)
	return data
}

// parseIDParam extracts a record id from the URL. A non-numeric id is
// indistinguishable from a missing record, so it renders the not-found
// page and reports false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		renderNotFound(c)
		return 0, false
	}
	return uint(id), true
}

// parseIDList parses a multi-select form field of record ids, dropping
// malformed entries.
func parseIDList(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// renderNotFound renders the generic 404 page.
func renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", templateData(c, gin.H{
		"Title": "Not found",
	}))
}

// renderInternalError logs the error and renders the generic error
// page. The underlying error is never shown to the client.
func renderInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.HTML(http.StatusInternalServerError, "error.html", templateData(c, gin.H{
		"Title": "Error",
		"Error": "Something went wrong. Please try again.",
	}))
}

// renderAccessDenied renders the access-denied page with the offending
// record's context.
func renderAccessDenied(c *gin.Context, message string) {
	c.HTML(http.StatusForbidden, "access_denied.html", templateData(c, gin.H{
		"Title":   "Access denied",
		"Message": message,
	}))
}
