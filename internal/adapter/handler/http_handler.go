package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/cims/internal/core/domain"
	"github.com/rl1809/cims/internal/core/dto"
	"github.com/rl1809/cims/internal/core/service"
)

type Services struct {
	Users        *service.UserService
	ActivityLogs *service.ActivityLogService
	Categories   *service.CategoryService
	Items        *service.ItemService
	Orders       *service.OrderService
	OrderItems   *service.OrderItemService
}

type HTTPHandler struct {
	svc Services
}

// APIError is the body of every failed request.
type APIError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Errors    []string  `json:"errors"`
}

func NewHTTPHandler(svc Services) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Routes builds the gin engine serving the REST surface.
func (h *HTTPHandler) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")

	api.GET("/users", h.listUsers)
	api.GET("/activity-logs", h.listActivityLogs)

	categories := api.Group("/categories")
	categories.GET("", h.listCategories)
	categories.POST("", h.createCategory)
	categories.PUT("/:id", h.updateCategory)
	categories.DELETE("/:id", h.deleteCategory)

	items := api.Group("/items")
	items.GET("", h.listItems)
	items.POST("", h.createItem)
	items.PUT("/:id", h.updateItem)
	items.DELETE("/:id", h.deleteItem)

	orders := api.Group("/orders")
	orders.GET("", h.listOrders)
	orders.POST("", h.createOrder)
	orders.PUT("/:id", h.updateOrder)
	orders.DELETE("/:id", h.deleteOrder)

	orderItems := api.Group("/order-items")
	orderItems.GET("", h.listOrderItems)
	orderItems.POST("", h.createOrderItem)
	orderItems.PUT("/:id", h.updateOrderItem)
	orderItems.DELETE("/:id", h.deleteOrderItem)

	return r
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) listUsers(c *gin.Context) {
	body, err := h.svc.Users.List(c.Request.Context())
	respond(c, body, err)
}

func (h *HTTPHandler) listActivityLogs(c *gin.Context) {
	body, err := h.svc.ActivityLogs.List(c.Request.Context())
	respond(c, body, err)
}

func (h *HTTPHandler) listCategories(c *gin.Context) {
	body, err := h.svc.Categories.List(c.Request.Context())
	respond(c, body, err)
}

func (h *HTTPHandler) createCategory(c *gin.Context) {
	var req dto.Category
	if !bind(c, &req) {
		return
	}
	body, err := h.svc.Categories.Create(c.Request.Context(), req)
	respond(c, body, err)
}

func (h *HTTPHandler) updateCategory(c *gin.Context) {
	var req dto.Category
	if !bind(c, &req) {
		return
	}
	body, err := h.svc.Categories.Update(c.Request.Context(), c.Param("id"), req)
	respond(c, body, err)
}

func (h *HTTPHandler) deleteCategory(c *gin.Context) {
	respondEmpty(c, h.svc.Categories.Delete(c.Request.Context(), c.Param("id")))
}

func (h *HTTPHandler) listItems(c *gin.Context) {
	body, err := h.svc.Items.List(c.Request.Context())
	respond(c, body, err)
}

func (h *HTTPHandler) createItem(c *gin.Context) {
	var req dto.Item
	if !bind(c, &req) {
		return
	}
	body, err := h.svc.Items.Create(c.Request.Context(), req)
	respond(c, body, err)
}

func (h *HTTPHandler) updateItem(c *gin.Context) {
	var req dto.Item
	if !bind(c, &req) {
		return
	}
	body, err := h.svc.Items.Update(c.Request.Context(), c.Param("id"), req)
	respond(c, body, err)
}

func (h *HTTPHandler) deleteItem(c *gin.Context) {
	respondEmpty(c, h.svc.Items.Delete(c.Request.Context(), c.Param("id")))
}

func (h *HTTPHandler) listOrders(c *gin.Context) {
	body, err := h.svc.Orders.List(c.Request.Context())
	respond(c, body, err)
}

func (h *HTTPHandler) createOrder(c *gin.Context) {
	var req dto.Order
	if !bind(c, &req) {
		return
	}
	body, err := h.svc.Orders.Create(c.Request.Context(), req)
	respond(c, body, err)
}

func (h *HTTPHandler) updateOrder(c *gin.Context) {
	var req dto.Order
	if !bind(c, &req) {
		return
	}
	body, err := h.svc.Orders.Update(c.Request.Context(), c.Param("id"), req)
	respond(c, body, err)
}

func (h *HTTPHandler) deleteOrder(c *gin.Context) {
	respondEmpty(c, h.svc.Orders.Delete(c.Request.Context(), c.Param("id")))
}

func (h *HTTPHandler) listOrderItems(c *gin.Context) {
	body, err := h.svc.OrderItems.List(c.Request.Context())
	respond(c, body, err)
}

func (h *HTTPHandler) createOrderItem(c *gin.Context) {
	var req dto.OrderItem
	if !bind(c, &req) {
		return
	}
	body, err := h.svc.OrderItems.Create(c.Request.Context(), req)
	respond(c, body, err)
}

func (h *HTTPHandler) updateOrderItem(c *gin.Context) {
	var req dto.OrderItem
	if !bind(c, &req) {
		return
	}
	body, err := h.svc.OrderItems.Update(c.Request.Context(), c.Param("id"), req)
	respond(c, body, err)
}

func (h *HTTPHandler) deleteOrderItem(c *gin.Context) {
	respondEmpty(c, h.svc.OrderItems.Delete(c.Request.Context(), c.Param("id")))
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body", []string{err.Error()})
		return false
	}
	return true
}

func respond(c *gin.Context, body any, err error) {
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

func respondEmpty(c *gin.Context, err error) {
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// writeServiceError maps domain error kinds onto HTTP statuses. Unclassified
// failures are logged and answered without detail.
func writeServiceError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "resource not found", []string{err.Error()})
	case errors.Is(err, domain.ErrConflict):
		writeError(c, http.StatusBadRequest, "conflict", []string{err.Error()})
	case errors.Is(err, domain.ErrReferentialIntegrity):
		writeError(c, http.StatusBadRequest, "referential integrity violation", []string{err.Error()})
	case errors.Is(err, domain.ErrValidation):
		writeError(c, http.StatusBadRequest, "validation failed", []string{err.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		writeError(c, http.StatusInternalServerError, "internal error", []string{"an unexpected error occurred"})
	}
}

func writeError(c *gin.Context, status int, message string, errs []string) {
	c.AbortWithStatusJSON(status, APIError{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Message:   message,
		Errors:    errs,
	})
}
