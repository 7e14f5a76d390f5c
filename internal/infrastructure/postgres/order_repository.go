package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, order_number, client_id, status, COALESCE(notes, ''), COALESCE(invoice_id, ''),
	subtotal, tax_total, grand_total, created_at, updated_at`

// Create persiste la cabecera de la orden. ErrDuplicate si el consecutivo ya existe.
func (r *OrderRepo) Create(order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO orders (id, order_number, client_id, status, notes, invoice_id,
			subtotal, tax_total, grand_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.ClientID, order.Status, nullIfEmpty(order.Notes),
		nullIfEmpty(order.InvoiceID), order.Subtotal, order.TaxTotal, order.GrandTotal,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste un snapshot de línea de la orden.
func (r *OrderRepo) CreateItem(item *entity.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price,
			tax_rate_percent, discount_percent, line_subtotal, line_discount, line_tax, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
		item.TaxRatePercent, item.DiscountPercent, item.LineSubtotal, item.LineDiscount,
		item.LineTax, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID. Retorna (nil, nil) si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(query, id)
}

// GetByInvoiceID obtiene la orden enlazada a una factura (relación 1:1).
func (r *OrderRepo) GetByInvoiceID(invoiceID string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE invoice_id = $1`
	return r.getOne(query, invoiceID)
}

func (r *OrderRepo) getOne(query, arg string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&o.ID, &o.OrderNumber, &o.ClientID, &o.Status, &o.Notes, &o.InvoiceID,
		&o.Subtotal, &o.TaxTotal, &o.GrandTotal, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// ListItems obtiene los snapshots de línea de una orden.
func (r *OrderRepo) ListItems(orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price,
		       tax_rate_percent, discount_percent, line_subtotal, line_discount, line_tax, line_total
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice,
			&item.TaxRatePercent, &item.DiscountPercent, &item.LineSubtotal, &item.LineDiscount,
			&item.LineTax, &item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// ListByClient lista órdenes de un cliente, de la más reciente a la más antigua.
func (r *OrderRepo) ListByClient(clientID string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.ClientID, &o.Status, &o.Notes, &o.InvoiceID,
			&o.Subtotal, &o.TaxTotal, &o.GrandTotal, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// UpdateStatus persiste el cambio de estado de la orden.
func (r *OrderRepo) UpdateStatus(order *entity.Order) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, order.ID, order.Status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetInvoice enlaza la factura a la orden. Solo procede si la orden no tiene factura.
func (r *OrderRepo) SetInvoice(orderID, invoiceID string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE orders SET invoice_id = $2, updated_at = now() WHERE id = $1 AND invoice_id IS NULL`,
		orderID, invoiceID)
	if err != nil {
		return fmt.Errorf("set order invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// UpdateTotals espeja los totales propagados desde la factura.
func (r *OrderRepo) UpdateTotals(order *entity.Order) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE orders SET subtotal = $2, tax_total = $3, grand_total = $4, updated_at = now() WHERE id = $1`,
		order.ID, order.Subtotal, order.TaxTotal, order.GrandTotal)
	if err != nil {
		return fmt.Errorf("update order totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
