package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
)

// Token roles
const (
	roleAdmin    = "admin"
	roleMerchant = "merchant"

	tokenLifetime = 12 * time.Hour

	merchantIDKey = "merchant_id"
)

// claims is the JWT payload for both admin and merchant tokens
type claims struct {
	Role       string `json:"role"`
	MerchantID int64  `json:"merchant_id,omitempty"`
	jwt.RegisteredClaims
}

func (h *Handler) issueToken(role string, merchantID int64) (string, error) {
	now := h.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:       role,
		MerchantID: merchantID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	})
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// requireRole verifies the bearer token and matches its role
func (h *Handler) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == "" || raw == header {
			fail(c, errors.Unauthenticated("auth required"))
			c.Abort()
			return
		}
		var cl claims
		token, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Unauthenticated("unexpected signing method")
			}
			return h.jwtSecret, nil
		}, jwt.WithTimeFunc(h.clock.Now))
		if err != nil || !token.Valid || cl.Role != role {
			fail(c, errors.Unauthenticated("auth required"))
			c.Abort()
			return
		}
		c.Set(merchantIDKey, cl.MerchantID)
		c.Next()
	}
}

func merchantIDFrom(c *gin.Context) int64 {
	if v, ok := c.Get(merchantIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
