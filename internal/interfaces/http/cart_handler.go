package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/cart"
	"github.com/jhoicas/comercio-api/internal/application/dto"
)

// CartHandler maneja el carrito del cliente autenticado. Todas las rutas operan
// sobre el ClientID del token: un cliente no puede tocar el carrito de otro.
type CartHandler struct {
	uc *cart.UseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Get devuelve el carrito valorizado (líneas sin precio resuelto van en cero).
// GET /api/cart
func (h *CartHandler) Get(c *fiber.Ctx) error {
	priced, err := h.uc.PriceCart(c.Context(), GetClientID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(priced)
}

// AddItem agrega (o acumula) un producto en el carrito.
// POST /api/cart/items
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.AddItem(c.Context(), GetClientID(c), in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// UpdateItem fija la cantidad de una línea.
// PUT /api/cart/items/:productId
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.UpdateItem(c.Context(), GetClientID(c), c.Params("productId"), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(line)
}

// RemoveItem elimina una línea.
// DELETE /api/cart/items/:productId
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.uc.RemoveItem(c.Context(), GetClientID(c), c.Params("productId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear vacía el carrito.
// DELETE /api/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.Context(), GetClientID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
