package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quangdm/freshcart-api/configs"
	"github.com/quangdm/freshcart-api/internal/security"
)

type TokenHandler struct {
	cfg configs.Config
}

func NewTokenHandler(cfg configs.Config) *TokenHandler {
	return &TokenHandler{cfg: cfg}
}

// POST /v1/token (form or JSON)
// Accepts: client_id, client_secret, user_id
// The client acts on behalf of the storefront user named in user_id; the
// issued token carries that user as its subject.
func (h *TokenHandler) IssueToken(c *gin.Context) {
	clientID := c.PostForm("client_id")
	clientSecret := c.PostForm("client_secret")
	userID := c.PostForm("user_id")
	if clientID == "" || clientSecret == "" || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid client"})
		return
	}

	cl, ok := security.Clients[clientID]
	if !ok || !cl.Enabled || clientSecret != cl.Secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid client"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":      h.cfg.Security.Issuer,
		"aud":      h.cfg.Security.Audience,
		"sub":      userID,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      now.Add(h.cfg.Security.TTL).Unix(),
		"clientID": clientID,
		"perms":    cl.Perms,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(h.cfg.Security.TTL.Seconds()),
	})
}
