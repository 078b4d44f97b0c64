package middleware

import (
	"log"
	"strings"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/auth"

	"github.com/gin-gonic/gin"
)

// claimsKey is where verified token claims live in the Gin context
const claimsKey = "auth.claims"

// Authenticate requires a valid bearer token. Any failure aborts with the
// same 401 so a caller cannot probe which part of the token was wrong.
func Authenticate(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verifyRequest(c, issuer)
		if !ok {
			c.AbortWithStatusJSON(401, apperr.Authentication(""))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuthenticate attaches claims when a valid token is present but
// lets anonymous requests through
func OptionalAuthenticate(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := verifyRequest(c, issuer); ok {
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

// RequireAdmin gates a route to admin users. Must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(401, apperr.Authentication(""))
			return
		}
		if claims.Role != "admin" {
			log.Printf("[auth] admin route denied user=%s role=%s path=%s", claims.UserID, claims.Role, c.Request.URL.Path)
			c.AbortWithStatusJSON(403, apperr.Authorization(""))
			return
		}
		c.Next()
	}
}

// GetClaims returns the verified claims for the request, or nil when the
// request is anonymous
func GetClaims(c *gin.Context) *auth.Claims {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func verifyRequest(c *gin.Context, issuer *auth.TokenIssuer) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, false
	}

	claims, err := issuer.VerifyToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
