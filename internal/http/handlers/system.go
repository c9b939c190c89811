package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /api/health
func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/db-check
func (a *API) DBCheck(c *gin.Context) {
	if a.Store == nil || a.Store.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"database": "not configured"})
		return
	}
	if err := a.Store.DB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"database": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"database": "up"})
}
