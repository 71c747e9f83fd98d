// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/services"
	"github.com/Jadeja143/ghost/internal/transport/httpdto"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

// writeServiceError translates a service error into the uniform error
// response envelope.
func writeServiceError(c *gin.Context, err error) {
	c.JSON(services.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), services.ErrorCode(err)))
}
