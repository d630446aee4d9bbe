package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/DineshPrabhakaran22/Zerodha1/lib/errs"
	"github.com/gin-gonic/gin"
)

const (
	msgOrderPlaced   = "Order and Holdings updated successfully!"
	msgNotEnough     = "Not enough stock to sell"
	msgInvalidOrder  = "Invalid order"
	msgServerFailure = "Server error"
)

func (h *Handler) allHoldings(c *gin.Context) {
	holdings, err := h.ledgerService.ListHoldings(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list holdings", slog.Any("error", err))
		c.String(http.StatusInternalServerError, msgServerFailure)
		return
	}
	c.JSON(http.StatusOK, holdings)
}

func (h *Handler) allPositions(c *gin.Context) {
	positions, err := h.ledgerService.ListPositions(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list positions", slog.Any("error", err))
		c.String(http.StatusInternalServerError, msgServerFailure)
		return
	}
	c.JSON(http.StatusOK, positions)
}

func (h *Handler) allOrders(c *gin.Context) {
	orders, err := h.ledgerService.ListOrders(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list orders", slog.Any("error", err))
		c.String(http.StatusInternalServerError, msgServerFailure)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) newOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, msgInvalidOrder)
		return
	}

	if _, err := h.ledgerService.PlaceOrder(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, errs.ErrInsufficientHolding):
			c.String(http.StatusBadRequest, msgNotEnough)
		case errors.Is(err, errs.ErrInvalidOrder):
			c.String(http.StatusBadRequest, msgInvalidOrder)
		default:
			h.log.Error("order update error", slog.String("name", req.Name), slog.Any("error", err))
			c.String(http.StatusInternalServerError, msgServerFailure)
		}
		return
	}

	c.String(http.StatusOK, msgOrderPlaced)
}
