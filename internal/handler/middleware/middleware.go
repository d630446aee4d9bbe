package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

const (
	// TokenCookie carries the session token issued at signup and login.
	TokenCookie = "token"

	UserIDKey   = "userID"
	UserNameKey = "userName"
)

type Verifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware admits requests whose session cookie verifies and stores
// the user id and username in the gin context.
func AuthMiddleware(verifier Verifier, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(TokenCookie)
		if err != nil || token == "" {
			log.Warn("auth middleware: session cookie is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not authenticated",
			})
			return
		}

		user, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			log.Warn("auth middleware: session rejected", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid session",
			})
			return
		}

		c.Set(UserIDKey, user.ID.String())
		c.Set(UserNameKey, user.Username)
		c.Next()
	}
}

func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http_request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// CORS wraps next so that a request carrying an Origin outside origins is
// refused with 403. Requests without an Origin (curl, server to server)
// pass through.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return func(next http.Handler) http.Handler {
		h := c.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := allowed[origin]; !ok {
					http.Error(w, "CORS not allowed for this origin", http.StatusForbidden)
					return
				}
			}
			h.ServeHTTP(w, r)
		})
	}
}
