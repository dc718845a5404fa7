package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is the slice of the database the health endpoint needs.
type Pinger interface {
	Ping() error
}

type HealthController struct {
	db      Pinger
	version string
}

func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status reports liveness and database connectivity.
// GET /health
func (hc *HealthController) Status(c *gin.Context) {
	if err := hc.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"version": hc.version,
			"error":   "database unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": hc.version,
	})
}
