package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-dwarfs/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextSpectatorClaims is the key used to store spectator claims in the Gin context.
	ContextSpectatorClaims = "spectatorClaims"

	// tokenQueryParam carries the token for clients that cannot set headers,
	// such as browser websockets.
	tokenQueryParam = "token"
)

// Authoriz accepts a bearer token from the Authorization header or the
// token query parameter.
func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := ts.Decode(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextSpectatorClaims, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query(tokenQueryParam)
		return token, token != ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
