package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadecampers/nomade-api/internal/models"
)

const testSecret = "secreto-de-pruebas"

func signToken(t *testing.T, userID uint, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Email:  "vendedor@nomadecampers.test",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(testSecret))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetUserRole(c)})
	})
	return r
}

func TestAuth_BearerToken(t *testing.T) {
	router := authRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7, models.RoleSeller, time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"role":"seller"`)
}

func TestAuth_QueryParamTokenForDownloads(t *testing.T) {
	router := authRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami?token="+signToken(t, 7, models.RoleSeller, time.Hour), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_Rejections(t *testing.T) {
	router := authRouter()

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer no-es-un-jwt"},
		{"expired token", "Bearer " + signToken(t, 7, models.RoleSeller, -time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code, tt.name)
		})
	}
}

func TestRequireAdmin_BlocksSellers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(testSecret), RequireAdmin())
	r.GET("/solo-admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/solo-admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7, models.RoleSeller, time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/solo-admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, models.RoleAdmin, time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminOrOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(testSecret), RequireAdminOrOwner())
	r.PUT("/users/:user_id", func(c *gin.Context) { c.Status(http.StatusOK) })

	// A seller may edit their own profile
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/users/7", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7, models.RoleSeller, time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// But not anyone else's
	w = httptest.NewRecorder()
	req = httptest.NewRequest("PUT", "/users/8", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7, models.RoleSeller, time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins may edit anyone
	w = httptest.NewRecorder()
	req = httptest.NewRequest("PUT", "/users/8", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, models.RoleAdmin, time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
