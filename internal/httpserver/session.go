package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) createSession(c *gin.Context) {
	sess, err := h.SessionSvc.Issue(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"token":     sess.Token,
		"expiresIn": h.SessionSvc.TTLSeconds(),
	})
}
