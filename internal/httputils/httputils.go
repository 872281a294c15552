// Package httputils provides utilities for HTTP requests.
package httputils

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// httputilsContextKey is the key type of the values this package puts into the context.
type httputilsContextKey string

const (
	// contextKeyClient is the key for the client identifier in the context.
	contextKeyClient httputilsContextKey = "httputils:client"
	// contextKeyRequestID is the key for the request id in the context.
	contextKeyRequestID httputilsContextKey = "httputils:request-id"
)

const (
	// ClientHeader identifies the learner's client. It falls back to User-Agent.
	ClientHeader = "X-Client-ID"
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
)

// AnonymousClient is the client name used when a request identifies nothing.
const AnonymousClient = "anonymous"

// ClientMiddleware puts the client identifier into the context.
func ClientMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := c.GetHeader(ClientHeader)
		if client == "" {
			client = c.GetHeader("User-Agent")
		}

		newCtx := context.WithValue(c.Request.Context(), contextKeyClient, client)
		c.Request = c.Request.WithContext(newCtx)
		c.Next()
	}
}

// GetClient returns the client identifier from the context.
func GetClient(ctx context.Context) string {
	if client, ok := ctx.Value(contextKeyClient).(string); ok && client != "" {
		return client
	}

	return AnonymousClient
}

// RequestIDMiddleware reuses a well-formed incoming request id or generates
// a new one, and echoes it in the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		c.Header(RequestIDHeader, requestID)
		newCtx := context.WithValue(c.Request.Context(), contextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(newCtx)
		c.Next()
	}
}

// GetRequestID returns the request id from the context, or an empty string.
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(contextKeyRequestID).(string)
	return requestID
}
