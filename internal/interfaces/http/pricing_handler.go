package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	appPricing "github.com/jhoicas/comercio-api/internal/application/pricing"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// PricingHandler maneja la resolución de precio y la administración de reglas.
type PricingHandler struct {
	resolver *appPricing.Resolver
	admin    *appPricing.Admin
}

// NewPricingHandler construye el handler.
func NewPricingHandler(resolver *appPricing.Resolver, admin *appPricing.Admin) *PricingHandler {
	return &PricingHandler{resolver: resolver, admin: admin}
}

// Resolve resuelve el precio vigente para producto/cliente/instante.
// Un actor con rol cliente siempre resuelve con su propia identidad.
// GET /api/pricing/resolve?product_id=&client_id=&as_of=
func (h *PricingHandler) Resolve(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id requerido"})
	}
	clientID := c.Query("client_id")
	if GetRole(c) == entity.RoleClient {
		clientID = GetClientID(c)
	}
	var asOf time.Time
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of debe ser RFC 3339"})
		}
		asOf = parsed
	}

	resolved, err := h.resolver.Resolve(c.Context(), productID, clientID, asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toResolveResponse(resolved))
}

// CreateRule crea una regla de precio (admin).
// POST /api/pricing/rules
func (h *PricingHandler) CreateRule(c *fiber.Ctx) error {
	var in dto.CreatePricingRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rule, err := h.admin.CreateRule(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// UpdateRule actualiza una regla de precio (admin).
// PUT /api/pricing/rules/:id
func (h *PricingHandler) UpdateRule(c *fiber.Ctx) error {
	var in dto.CreatePricingRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rule, err := h.admin.UpdateRule(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rule)
}

// DeleteRule elimina una regla de precio (admin).
// DELETE /api/pricing/rules/:id
func (h *PricingHandler) DeleteRule(c *fiber.Ctx) error {
	if err := h.admin.DeleteRule(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListRules lista las reglas de un producto (admin).
// GET /api/pricing/rules?product_id=&limit=&offset=
func (h *PricingHandler) ListRules(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	rules, err := h.admin.ListByProduct(c.Context(), c.Query("product_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rules)
}

func toResolveResponse(r *entity.ResolvedPrice) dto.ResolvePriceResponse {
	resp := dto.ResolvePriceResponse{
		ProductID:       r.ProductID,
		Price:           r.Price,
		Currency:        r.Currency,
		TaxRatePercent:  r.TaxRatePercent,
		DiscountPercent: r.DiscountPercent,
		Source:          r.Source,
		EffectiveFrom:   r.EffectiveFrom.Format(time.RFC3339),
	}
	if r.EffectiveTo != nil {
		resp.EffectiveTo = r.EffectiveTo.Format(time.RFC3339)
	}
	return resp
}
