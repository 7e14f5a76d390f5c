package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación de CartRepository (un carrito activo por cliente).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// GetOrCreateByClient devuelve el carrito del cliente, creándolo si no existe.
// El upsert con DO NOTHING + re-select tolera la creación concurrente del mismo carrito.
func (r *CartRepo) GetOrCreateByClient(clientID string) (*entity.Cart, error) {
	insert := `
		INSERT INTO carts (id, client_id, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (client_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, uuid.New().String(), clientID); err != nil {
		return nil, fmt.Errorf("upsert cart: %w", err)
	}
	var c entity.Cart
	err := r.q.QueryRow(context.Background(),
		`SELECT id, client_id, created_at, updated_at FROM carts WHERE client_id = $1`, clientID,
	).Scan(&c.ID, &c.ClientID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

// AddOrIncrement suma qty a la línea (cartID, productID) o la crea. Una sola
// sentencia: dos adds concurrentes del mismo producto no pierden actualizaciones.
func (r *CartRepo) AddOrIncrement(cartID, productID string, qty decimal.Decimal) (*entity.CartLine, error) {
	query := `
		INSERT INTO cart_lines (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING id, cart_id, product_id, quantity, created_at, updated_at`
	var line entity.CartLine
	err := r.q.QueryRow(context.Background(), query, uuid.New().String(), cartID, productID, qty).Scan(
		&line.ID, &line.CartID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}
	return &line, nil
}

// SetQuantity fija la cantidad de una línea existente. ErrNotFound si no existe.
func (r *CartRepo) SetQuantity(cartID, productID string, qty decimal.Decimal) (*entity.CartLine, error) {
	query := `
		UPDATE cart_lines SET quantity = $3, updated_at = now()
		WHERE cart_id = $1 AND product_id = $2
		RETURNING id, cart_id, product_id, quantity, created_at, updated_at`
	var line entity.CartLine
	err := r.q.QueryRow(context.Background(), query, cartID, productID, qty).Scan(
		&line.ID, &line.CartID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set cart line quantity: %w", err)
	}
	return &line, nil
}

// RemoveLine elimina una línea del carrito.
func (r *CartRepo) RemoveLine(cartID, productID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

// Clear elimina todas las líneas del carrito.
func (r *CartRepo) Clear(cartID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// ListLines lista las líneas del carrito en orden de inserción.
func (r *CartRepo) ListLines(cartID string) ([]*entity.CartLine, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_lines WHERE cart_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartLine
	for rows.Next() {
		var line entity.CartLine
		if err := rows.Scan(&line.ID, &line.CartID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		list = append(list, &line)
	}
	return list, rows.Err()
}
