package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a middleware configured for the given allowed origins.
// A single "*" entry allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowCredentials = !cfg.AllowAllOrigins
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
