package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Error writes the common error body.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Internal logs err with the request id and answers 500 without leaking it.
func Internal(c *gin.Context, op string, err error) {
	log.Ctx(c.Request.Context()).Error().Err(err).
		Str("op", op).
		Str("path", c.FullPath()).
		Msg("request failed")
	Error(c, http.StatusInternalServerError, "Internal Server Error")
}
