package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

const (
	ownerKey       = "owner"
	accessTokenKey = "access_token"
)

// Authorizer turns an access token into the identity it was issued for.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) (model.Owner, error)
}

func AuthMiddleware(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := BearerToken(c)
		if !ok {
			utils.TrackAuthAttempt("failure", "access")
			utils.AbortUnauthorized(c, "Missing or invalid token")
			return
		}

		owner, err := auth.Authorize(c.Request.Context(), tokenString)
		if err != nil {
			utils.TrackAuthAttempt("failure", "access")
			if errors.Is(err, usecase.ErrTokenRevoked) {
				utils.AbortUnauthorized(c, "Token has been invalidated")
				return
			}
			utils.AbortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(ownerKey, owner)
		c.Set(accessTokenKey, tokenString)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// Owner returns the identity set by AuthMiddleware, or the zero Owner on
// routes it does not guard.
func Owner(c *gin.Context) model.Owner {
	if v, ok := c.Get(ownerKey); ok {
		if owner, ok := v.(model.Owner); ok {
			return owner
		}
	}
	return model.Owner{}
}

// AccessToken returns the raw token AuthMiddleware verified.
func AccessToken(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}
