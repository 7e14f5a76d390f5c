package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/billing"
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// InvoiceHandler maneja las facturas. Las mutaciones son solo para personal
// (admin/empleado); la lectura permite al cliente ver sus propias facturas.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// GetByID obtiene la factura con sus líneas.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if GetRole(c) == entity.RoleClient && resp.ClientID != GetClientID(c) {
		return respondError(c, domain.ErrForbidden)
	}
	return c.JSON(resp)
}

// AddItem agrega una línea a la factura (solo mientras está en QUOTE).
// POST /api/invoices/:id/items
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddInvoiceItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.AddItem(c.Context(), c.Params("id"), in.ProductID, in.Quantity, in.DiscountPercent)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// SetDiscount fija el descuento a nivel factura y recomputa totales.
// PATCH /api/invoices/:id/discount
func (h *InvoiceHandler) SetDiscount(c *fiber.Ctx) error {
	var in dto.SetInvoiceDiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.SetDiscount(c.Context(), c.Params("id"), in.Percent)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Recompute fuerza la recomputación determinista de totales (idempotente).
// POST /api/invoices/:id/recompute
func (h *InvoiceHandler) Recompute(c *fiber.Ctx) error {
	inv, err := h.uc.Recompute(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Issue emite la factura (QUOTE → ISSUED).
// POST /api/invoices/:id/issue
func (h *InvoiceHandler) Issue(c *fiber.Ctx) error {
	inv, err := h.uc.Issue(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// MarkPaid registra el pago (ISSUED → PAID).
// POST /api/invoices/:id/payments
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	inv, err := h.uc.MarkPaid(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}
