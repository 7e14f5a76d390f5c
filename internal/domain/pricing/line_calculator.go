package pricing

import "github.com/shopspring/decimal"

// Aritmética de línea de venta (servicio de dominio, funciones puras sobre decimal).
// La misma composición la usan el carrito (transitorio) y la factura (persistido):
// vive aquí una sola vez para que ambos sean bit a bit consistentes.
//
// Orden de operaciones: el descuento se aplica sobre el subtotal y el impuesto
// sobre la base ya descontada. Total = Subtotal + Tax − Discount.

var hundred = decimal.NewFromInt(100)

// Subtotal = cantidad * precio unitario.
func Subtotal(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice)
}

// Discount = subtotal * descuento% / 100.
func Discount(subtotal, discountPercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(discountPercent).Div(hundred)
}

// Tax = (subtotal − descuento) * tarifa% / 100. El impuesto se cobra sobre la base descontada.
func Tax(subtotal, discount, taxRatePercent decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Mul(taxRatePercent).Div(hundred)
}

// Total = subtotal + impuesto − descuento.
func Total(subtotal, tax, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax).Sub(discount)
}

// Line agrupa el resultado de la aritmética completa de una línea.
type Line struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeLine compone las cuatro operaciones para una línea.
func ComputeLine(qty, unitPrice, taxRatePercent, discountPercent decimal.Decimal) Line {
	subtotal := Subtotal(qty, unitPrice)
	discount := Discount(subtotal, discountPercent)
	tax := Tax(subtotal, discount, taxRatePercent)
	return Line{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    Total(subtotal, tax, discount),
	}
}
