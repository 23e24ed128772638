package handlers

import (
	"strconv"

	"foodgram-backend/models"

	"github.com/gin-gonic/gin"
)

// parseID reads a numeric path parameter; anything else names no resource.
func parseID(c *gin.Context, name, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, models.ErrorNotFound{Message: resource + " not found"}
	}
	return uint(id), nil
}
