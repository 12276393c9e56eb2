package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response wrapper used on every endpoint:
// {ok: bool, data?: ..., error?: string, token?: string}.
// Success bodies always carry data, even an empty collection; failure
// bodies carry error and never a data key.
type Envelope[T any] struct {
	OK    bool   `json:"ok"`
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
	Token string `json:"token,omitempty"`
}

// Success writes a success envelope with the given status and data.
func Success[T any](c *gin.Context, status int, data T) {
	c.JSON(status, Envelope[T]{OK: true, Data: data})
}

// SuccessWithToken writes a success envelope carrying a bearer token
// (register and login responses).
func SuccessWithToken[T any](c *gin.Context, status int, data T, token string) {
	c.JSON(status, Envelope[T]{OK: true, Data: data, Token: token})
}

// Error writes a failure envelope with the given status and message.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// AbortError writes a failure envelope and aborts the handler chain.
// Used by middleware.
func AbortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": msg})
}
