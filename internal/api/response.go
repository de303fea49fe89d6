package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// fail aborts with the error envelope. extra keys are merged into it.
func fail(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"ok": 0, "code": status, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, err.Error(), nil)
}

func notFound(c *gin.Context, err error) {
	fail(c, http.StatusNotFound, err.Error(), nil)
}

// internalError records err on the context for the request logger and
// hides it from the client.
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, "internal error", nil)
}
