package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nomadecampers/nomade-api/internal/models"
)

// Context keys set by Auth for downstream handlers
const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
	ctxUserRole  = "userRole"
)

// Claims is the token payload issued at login
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token and stores the caller's identity in the
// request context. PDF download links carry the token as a ?token query
// parameter instead, since the browser cannot set headers on a plain link.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := parseClaims(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", errors.New("token de autorización requerido")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("cabecera de autorización inválida")
	}
	return token, nil
}

func parseClaims(raw, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("método de firma inválido")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("la sesión ha expirado")
		}
		return nil, errors.New("token inválido")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token inválido")
	}
	return claims, nil
}

// GetUserID returns the authenticated user's id, or 0 outside an
// authenticated request.
func GetUserID(c *gin.Context) uint {
	id, _ := c.Get(ctxUserID)
	if id, ok := id.(uint); ok {
		return id
	}
	return 0
}

// GetUserRole returns the authenticated user's role
func GetUserRole(c *gin.Context) string {
	role, _ := c.Get(ctxUserRole)
	if role, ok := role.(string); ok {
		return role
	}
	return ""
}

// IsAdmin reports whether the caller has the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == models.RoleAdmin
}

// RequireAdmin guards admin-only routes: catalog writes, user management,
// destructive deletes and the audit trail.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No tienes acceso a esta sección"})
			return
		}
		c.Next()
	}
}

// RequireRole guards routes open to any of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := GetUserRole(c)
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No tienes acceso a esta sección"})
	}
}

// RequireAdminOrOwner guards profile routes: admins may act on anyone, every
// other caller only on their own user record (the user_id path param).
func RequireAdminOrOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) {
			c.Next()
			return
		}
		target, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
		if err == nil && uint(target) == GetUserID(c) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No tienes acceso a esta sección"})
	}
}
