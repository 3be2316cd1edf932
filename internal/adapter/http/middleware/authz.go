package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quangdm/freshcart-api/configs"
)

// UserIDKey is where Require stores the authenticated storefront user id.
const UserIDKey = "auth.user_id"

type Authz struct {
	cfg configs.Config
}

func NewAuthz(cfg configs.Config) *Authz {
	return &Authz{cfg: cfg}
}

// Require checks the bearer JWT, ensures all required permissions are
// present, and stashes the subject (the storefront user id) in the context.
func (a *Authz) Require(requiredPerms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.cfg.Security.JWTSecret), nil
		}, jwt.WithLeeway(30*time.Second)) // small clock skew

		if err != nil || !token.Valid {
			unauth(c, "invalid_token", "invalid jwt")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauth(c, "invalid_token", "claims parsing error")
			return
		}

		if claims["iss"] != a.cfg.Security.Issuer || claims["aud"] != a.cfg.Security.Audience {
			unauth(c, "invalid_token", "iss/aud mismatch")
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			unauth(c, "invalid_token", "missing subject")
			return
		}

		perms := extractPerms(claims)
		if !hasAll(perms, requiredPerms) {
			forbidden(c, "insufficient_scope", "missing required permissions")
			return
		}

		c.Set(UserIDKey, sub)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Require.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func extractPerms(claims jwt.MapClaims) map[string]bool {
	out := map[string]bool{}
	raw, ok := claims["perms"].([]any)
	if !ok {
		return out
	}
	for _, p := range raw {
		if s, ok := p.(string); ok {
			out[s] = true
		}
	}
	return out
}

func hasAll(have map[string]bool, want []string) bool {
	for _, p := range want {
		if !have[p] {
			return false
		}
	}
	return true
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code, "error_description": desc})
}

func forbidden(c *gin.Context, code, desc string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": code, "error_description": desc})
}
