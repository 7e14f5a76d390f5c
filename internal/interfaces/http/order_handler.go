package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/orders"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// OrderHandler maneja el ciclo de vida de las órdenes.
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create crea una orden desde el carrito del cliente autenticado; la factura
// espejo viene adjunta en la respuesta.
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	clientID := GetClientID(c)
	if clientID == "" {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo un cliente autenticado puede crear órdenes"})
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.CreateFromCart(c.Context(), clientID, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID obtiene la orden con sus snapshots y la factura adjunta.
// Un cliente solo puede ver sus propias órdenes.
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if GetRole(c) == entity.RoleClient && resp.ClientID != GetClientID(c) {
		return respondError(c, domain.ErrForbidden)
	}
	return c.JSON(resp)
}

// List lista las órdenes del cliente autenticado (o las de ?client_id= para personal).
// GET /api/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	clientID := GetClientID(c)
	if GetRole(c) != entity.RoleClient {
		clientID = c.Query("client_id")
	}
	if clientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "client_id requerido"})
	}
	list, err := h.uc.ListByClient(c.Context(), clientID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// UpdateStatus aplica una transición de estado con restricción por rol y
// propiedad (un cliente solo opera sus propias órdenes).
// PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ord, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in.Status, GetRole(c), GetClientID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ord)
}
