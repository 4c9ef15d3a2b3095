package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turboapi/turbo/pkg/auth"
)

const requesterKey = "requester"

// Authentication resolves the requester from a bearer token. Requests
// without a token continue anonymously; per-collection policy decides what
// anonymous requesters may do. An invalid token is rejected outright.
func Authentication(authn auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			c.Abort()
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), bearerToken[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(requesterKey, user)
		c.Next()
	}
}

// RequesterFrom returns the authenticated requester, or nil for anonymous.
func RequesterFrom(c *gin.Context) *auth.User {
	value, ok := c.Get(requesterKey)
	if !ok {
		return nil
	}
	user, _ := value.(*auth.User)
	return user
}
