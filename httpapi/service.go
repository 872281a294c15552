// Package httpapi provides the HTTP API controllers of the algebra practice backend.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Service is the interface that should be registered to the router.
type Service interface {
	// Register registers the service with the given router.
	Register(app gin.IRouter)
}

// Register registers the services with the given router.
func Register(app gin.IRouter, services ...Service) {
	for _, service := range services {
		service.Register(app)
	}
}

// ParamID parses the positive integer path parameter name. On failure it
// writes a 400 response and returns false.
func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid " + name + ".",
			"detail": "The " + name + " must be a positive integer.",
		})
		return 0, false
	}

	return id, true
}

// QueryInt parses the non-negative integer query parameter name, returning
// fallback when it is absent. On failure it writes a 400 response and
// returns false.
func QueryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid " + name + ".",
			"detail": "The " + name + " must be a non-negative integer.",
		})
		return 0, false
	}

	return value, true
}
