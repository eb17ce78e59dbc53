package handler

import (
	"net/http"

	"planner/internal/calendar"
	"planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type OrderRequest struct {
	TaskIDs []uuid.UUID `json:"task_ids" binding:"required"`
}

type OrderResponse struct {
	Date    string      `json:"date"`
	TaskIDs []uuid.UUID `json:"task_ids"`
}

// Get godoc
// @Summary      Display order of a day
// @Tags         days
// @Produce      json
// @Security     BearerAuth
// @Param        date  path      string  true  "Date (YYYY-MM-DD)"
// @Success      200   {object}  OrderResponse
// @Router       /days/{date}/order [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	ids, err := h.orders.GetOrder(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderResponse{Date: calendar.Format(date), TaskIDs: ids})
}

// Set godoc
// @Summary      Replace the display order of a day
// @Tags         days
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        date     path      string        true  "Date (YYYY-MM-DD)"
// @Param        request  body      OrderRequest  true  "Every task id of the day, once"
// @Success      200      {object}  OrderResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Router       /days/{date}/order [put]
func (h *OrderHandler) Set(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "task_ids must be a list of task ids", Code: "invalid_order_payload"})
		return
	}

	if err := h.orders.SetOrder(c.Request.Context(), userID, date, req.TaskIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderResponse{Date: calendar.Format(date), TaskIDs: req.TaskIDs})
}
