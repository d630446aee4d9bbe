package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/handler/middleware"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/service"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/websocket"
	"github.com/DineshPrabhakaran22/Zerodha1/lib/errs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) signup(c *gin.Context) {
	var in models.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{Message: "Invalid request body"})
		return
	}

	_, token, err := h.authService.Signup(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, authResponse{Message: "All fields are required"})
		case errors.Is(err, errs.ErrAlreadyExists):
			c.JSON(http.StatusConflict, authResponse{Message: "User already exists"})
		default:
			h.log.Error("signup failed", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, authResponse{Message: "Internal server error"})
		}
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, authResponse{Success: true, Message: "User signed in successfully"})
}

func (h *Handler) login(c *gin.Context) {
	var in models.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{Message: "Invalid request body"})
		return
	}

	_, token, err := h.authService.Login(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, authResponse{Message: "All fields are required"})
		case errors.Is(err, errs.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, authResponse{Message: "Incorrect password or email"})
		default:
			h.log.Error("login failed", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, authResponse{Message: "Internal server error"})
		}
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, authResponse{Success: true, Message: "User logged in successfully"})
}

func (h *Handler) logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.TokenCookie)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.log.Error("logout failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, authResponse{Message: "Internal server error"})
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, authResponse{Success: true, Message: "Logged out"})
}

// verify backs the dashboard's "who am I" check.
func (h *Handler) verify(c *gin.Context) {
	token, err := c.Cookie(middleware.TokenCookie)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": false})
		return
	}

	user, err := h.authService.Verify(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, errs.ErrInvalidToken) {
			h.log.Error("session verification failed", slog.Any("error", err))
		}
		c.JSON(http.StatusOK, gin.H{"status": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "user": user.Username})
}

func (h *Handler) wsConnect(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString(middleware.UserIDKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := websocket.NewClient(h.wsManager, conn, userID, c.GetString(middleware.UserNameKey))
	if !h.wsManager.Register(client) {
		conn.Close()
		return
	}

	go client.Writer()
	go client.Reader()
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	if h.cookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	}
	c.SetCookie(middleware.TokenCookie, token, int(h.authService.TokenTTL().Seconds()), "/", "", h.cookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	if h.cookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	}
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cookieSecure, true)
}
