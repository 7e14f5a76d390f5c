package dto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Nombres del conjunto cerrado de herramientas del asistente.
// El LLM solo puede planificar estas; cualquier otro nombre se rechaza en el borde.
const (
	ToolResolvePrice       = "resolve_price"
	ToolGetPricedCart      = "get_priced_cart"
	ToolAddCartItem        = "add_cart_item"
	ToolCreateOrder        = "create_order_from_cart"
	ToolAddInvoiceItem     = "add_invoice_item"
	ToolSetInvoiceDiscount = "set_invoice_discount"
	ToolIssueInvoice       = "issue_invoice"
	ToolMarkInvoicePaid    = "mark_invoice_paid"
	ToolUpdateOrderStatus  = "update_order_status"
)

// Argumentos tipados por herramienta (unión discriminada, validada en el borde).

type ResolvePriceArgs struct {
	ProductID string `json:"product_id"`
	ClientID  string `json:"client_id,omitempty"`
	AsOf      string `json:"as_of,omitempty"` // RFC 3339; vacío = ahora
}

type AddCartItemArgs struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type CreateOrderArgs struct {
	Notes string `json:"notes,omitempty"`
}

type AddInvoiceItemArgs struct {
	InvoiceID       string           `json:"invoice_id"`
	ProductID       string           `json:"product_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
}

type SetInvoiceDiscountArgs struct {
	InvoiceID string          `json:"invoice_id"`
	Percent   decimal.Decimal `json:"percent"`
}

type InvoiceIDArgs struct {
	InvoiceID string `json:"invoice_id"`
}

type UpdateOrderStatusArgs struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// ToolCall es la unión etiquetada que produce el planificador: Name discrimina y
// exactamente un payload debe estar presente y coincidir con el nombre.
type ToolCall struct {
	Name string `json:"tool"`

	ResolvePrice       *ResolvePriceArgs       `json:"resolve_price,omitempty"`
	GetPricedCart      *struct{}               `json:"get_priced_cart,omitempty"`
	AddCartItem        *AddCartItemArgs        `json:"add_cart_item,omitempty"`
	CreateOrder        *CreateOrderArgs        `json:"create_order_from_cart,omitempty"`
	AddInvoiceItem     *AddInvoiceItemArgs     `json:"add_invoice_item,omitempty"`
	SetInvoiceDiscount *SetInvoiceDiscountArgs `json:"set_invoice_discount,omitempty"`
	IssueInvoice       *InvoiceIDArgs          `json:"issue_invoice,omitempty"`
	MarkInvoicePaid    *InvoiceIDArgs          `json:"mark_invoice_paid,omitempty"`
	UpdateOrderStatus  *UpdateOrderStatusArgs  `json:"update_order_status,omitempty"`
}

// Validate verifica que el nombre pertenezca al conjunto cerrado y que el payload
// presente sea exactamente el que corresponde al nombre.
func (t *ToolCall) Validate() error {
	payloads := map[string]bool{
		ToolResolvePrice:       t.ResolvePrice != nil,
		ToolGetPricedCart:      t.GetPricedCart != nil,
		ToolAddCartItem:        t.AddCartItem != nil,
		ToolCreateOrder:        t.CreateOrder != nil,
		ToolAddInvoiceItem:     t.AddInvoiceItem != nil,
		ToolSetInvoiceDiscount: t.SetInvoiceDiscount != nil,
		ToolIssueInvoice:       t.IssueInvoice != nil,
		ToolMarkInvoicePaid:    t.MarkInvoicePaid != nil,
		ToolUpdateOrderStatus:  t.UpdateOrderStatus != nil,
	}
	present, known := payloads[t.Name]
	if !known {
		return fmt.Errorf("herramienta desconocida: %q", t.Name)
	}
	if !present {
		return fmt.Errorf("herramienta %q sin argumentos", t.Name)
	}
	count := 0
	for _, p := range payloads {
		if p {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("herramienta %q con payloads ambiguos (%d)", t.Name, count)
	}
	return nil
}

// ChatRequest mensaje libre del usuario hacia el asistente.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse herramienta planificada + resultado de su ejecución.
type ChatResponse struct {
	Tool   string      `json:"tool"`
	Result interface{} `json:"result"`
}
