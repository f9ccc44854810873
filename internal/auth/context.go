package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID    = "auth_user_id"
	CtxUserEmail = "auth_email"
)

// UserEmail returns the email of the verified bearer token, or "" when the
// request was not authenticated.
func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserEmail))
}

// EmailAllowed reports whether the caller may act on email. Requests that
// passed through no token check are always allowed.
func EmailAllowed(c *gin.Context, email string) bool {
	tokenEmail := UserEmail(c)
	if tokenEmail == "" {
		return true
	}
	return strings.EqualFold(tokenEmail, strings.TrimSpace(email))
}
