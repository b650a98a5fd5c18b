package cors

import (
	"net/http"
	"strings"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	allowHeaders  = []string{"Origin", "Authorization", "Content-Type", "X-Admin-Password", "X-Request-ID"}
	allowMethods  = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	exposeHeaders = []string{"Content-Disposition", "Retry-After", "X-Request-ID"}
)

// Config translates the ALLOWED_ORIGINS list into a gin-contrib/cors config.
// An empty list (or one containing "*") admits every origin; otherwise
// origins match case-insensitively, ignoring a trailing slash.
func Config(allowedOrigins []string) gincors.Config {
	cfg := gincors.Config{
		AllowMethods:  allowMethods,
		AllowHeaders:  allowHeaders,
		ExposeHeaders: exposeHeaders,
		MaxAge:        10 * time.Minute,
	}

	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = normalize(origin)
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
		if origin != "" {
			origins[origin] = struct{}{}
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOriginFunc = func(origin string) bool {
		_, ok := origins[normalize(origin)]
		return ok
	}
	return cfg
}

// New returns the CORS middleware for the browser client.
func New(allowedOrigins []string) gin.HandlerFunc {
	return gincors.New(Config(allowedOrigins))
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
