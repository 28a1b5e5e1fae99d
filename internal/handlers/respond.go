package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
)

// respondError maps the error taxonomy onto HTTP and surfaces any structured
// detail (remaining capacity, shortfall) alongside the message.
func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body["kind"] = string(appErr.Kind)
		for key, value := range appErr.Fields {
			body[key] = value
		}
	}

	c.JSON(apperr.HTTPStatus(err), body)
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
