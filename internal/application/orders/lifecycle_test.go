package orders_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/application/cart"
	"github.com/jhoicas/comercio-api/internal/application/orders"
	appPricing "github.com/jhoicas/comercio-api/internal/application/pricing"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	domorder "github.com/jhoicas/comercio-api/internal/domain/order"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

// ── fakes en memoria ──────────────────────────────────────────────────────────

type memOrderRepo struct {
	orders map[string]*entity.Order
	items  map[string][]*entity.OrderItem
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]*entity.Order{}, items: map[string][]*entity.OrderItem{}}
}

func (m *memOrderRepo) Create(o *entity.Order) error {
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) CreateItem(item *entity.OrderItem) error {
	cp := *item
	m.items[item.OrderID] = append(m.items[item.OrderID], &cp)
	return nil
}

func (m *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) GetByInvoiceID(invoiceID string) (*entity.Order, error) {
	for _, o := range m.orders {
		if o.InvoiceID == invoiceID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memOrderRepo) ListItems(orderID string) ([]*entity.OrderItem, error) {
	out := make([]*entity.OrderItem, 0, len(m.items[orderID]))
	for _, it := range m.items[orderID] {
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (m *memOrderRepo) ListByClient(clientID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range m.orders {
		if o.ClientID == clientID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOrderRepo) UpdateStatus(o *entity.Order) error {
	stored, ok := m.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = o.Status
	return nil
}

func (m *memOrderRepo) SetInvoice(orderID, invoiceID string) error {
	stored, ok := m.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.InvoiceID = invoiceID
	return nil
}

func (m *memOrderRepo) UpdateTotals(o *entity.Order) error {
	stored, ok := m.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Subtotal = o.Subtotal
	stored.TaxTotal = o.TaxTotal
	stored.GrandTotal = o.GrandTotal
	return nil
}

type memInvoiceRepo struct {
	invoices   map[string]*entity.Invoice
	items      map[string][]*entity.InvoiceItem
	failCreate bool
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: map[string]*entity.Invoice{}, items: map[string][]*entity.InvoiceItem{}}
}

func (m *memInvoiceRepo) Create(inv *entity.Invoice) error {
	if m.failCreate {
		return fmt.Errorf("base de datos no disponible")
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *memInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	cp := *item
	m.items[item.InvoiceID] = append(m.items[item.InvoiceID], &cp)
	return nil
}

func (m *memInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoiceRepo) ListItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	out := make([]*entity.InvoiceItem, 0, len(m.items[invoiceID]))
	for _, it := range m.items[invoiceID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memInvoiceRepo) UpdateTotals(inv *entity.Invoice) error {
	stored, ok := m.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.DiscountPercent = inv.DiscountPercent
	stored.Subtotal = inv.Subtotal
	stored.TaxTotal = inv.TaxTotal
	stored.DiscountTotal = inv.DiscountTotal
	stored.GrandTotal = inv.GrandTotal
	return nil
}

func (m *memInvoiceRepo) UpdateStatus(inv *entity.Invoice) error {
	stored, ok := m.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = inv.Status
	stored.IssuedAt = inv.IssuedAt
	stored.PaidAt = inv.PaidAt
	return nil
}

type memSeq struct{ counters map[string]int64 }

func (m *memSeq) Next(kind string, year int) (int64, error) {
	key := fmt.Sprintf("%s-%d", kind, year)
	m.counters[key]++
	return m.counters[key], nil
}

type memTx struct {
	orders   *memOrderRepo
	invoices *memInvoiceRepo
	seq      *memSeq
}

func (m *memTx) RunOrder(_ context.Context, fn func(repository.OrderRepository, repository.InvoiceRepository, repository.SequenceRepository) error) error {
	return fn(m.orders, m.invoices, m.seq)
}

type memCartRepo struct {
	carts map[string]*entity.Cart
	lines map[string]map[string]*entity.CartLine
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: map[string]*entity.Cart{}, lines: map[string]map[string]*entity.CartLine{}}
}

func (m *memCartRepo) GetOrCreateByClient(clientID string) (*entity.Cart, error) {
	if c, ok := m.carts[clientID]; ok {
		return c, nil
	}
	c := &entity.Cart{ID: uuid.New().String(), ClientID: clientID}
	m.carts[clientID] = c
	m.lines[c.ID] = map[string]*entity.CartLine{}
	return c, nil
}

func (m *memCartRepo) AddOrIncrement(cartID, productID string, qty decimal.Decimal) (*entity.CartLine, error) {
	if line, ok := m.lines[cartID][productID]; ok {
		line.Quantity = line.Quantity.Add(qty)
		return line, nil
	}
	line := &entity.CartLine{ID: uuid.New().String(), CartID: cartID, ProductID: productID, Quantity: qty}
	m.lines[cartID][productID] = line
	return line, nil
}

func (m *memCartRepo) SetQuantity(cartID, productID string, qty decimal.Decimal) (*entity.CartLine, error) {
	line, ok := m.lines[cartID][productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	line.Quantity = qty
	return line, nil
}

func (m *memCartRepo) RemoveLine(cartID, productID string) error {
	delete(m.lines[cartID], productID)
	return nil
}

func (m *memCartRepo) Clear(cartID string) error {
	m.lines[cartID] = map[string]*entity.CartLine{}
	return nil
}

func (m *memCartRepo) ListLines(cartID string) ([]*entity.CartLine, error) {
	var out []*entity.CartLine
	for _, l := range m.lines[cartID] {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

type memProductRepo struct{ products map[string]*entity.Product }

func (m *memProductRepo) Create(p *entity.Product) error { m.products[p.ID] = p; return nil }
func (m *memProductRepo) Update(p *entity.Product) error { m.products[p.ID] = p; return nil }
func (m *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return m.products[id], nil
}
func (m *memProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }
func (m *memProductRepo) List(int, int) ([]*entity.Product, error) { return nil, nil }

type memRuleRepo struct{ rules []*entity.PricingRule }

func (m *memRuleRepo) Create(r *entity.PricingRule) error          { m.rules = append(m.rules, r); return nil }
func (m *memRuleRepo) Update(*entity.PricingRule) error            { return nil }
func (m *memRuleRepo) Delete(string) error                         { return nil }
func (m *memRuleRepo) GetByID(string) (*entity.PricingRule, error) { return nil, domain.ErrNotFound }
func (m *memRuleRepo) ListActiveForProduct(productID string, asOf time.Time) ([]*entity.PricingRule, error) {
	var out []*entity.PricingRule
	for _, r := range m.rules {
		if r.ProductID == productID && r.ActiveAt(asOf) {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *memRuleRepo) ListByProduct(string, int, int) ([]*entity.PricingRule, error) {
	return nil, nil
}

type nopAudit struct{ events []entity.AuditEvent }

func (n *nopAudit) Record(ev entity.AuditEvent) { n.events = append(n.events, ev) }

// ── armado ────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	uc       *orders.UseCase
	cartUC   *cart.UseCase
	orders   *memOrderRepo
	invoices *memInvoiceRepo
	carts    *memCartRepo
}

func newFixture(products []*entity.Product, rules []*entity.PricingRule) *fixture {
	pr := &memProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		pr.products[p.ID] = p
	}
	resolver := appPricing.NewResolver(&memRuleRepo{rules: rules}, pr)
	carts := newMemCartRepo()
	cartUC := cart.NewUseCase(carts, pr, resolver, &nopAudit{}, logger.Nop())

	orderRepo := newMemOrderRepo()
	invoiceRepo := newMemInvoiceRepo()
	tx := &memTx{orders: orderRepo, invoices: invoiceRepo, seq: &memSeq{counters: map[string]int64{}}}
	uc := orders.NewUseCase(orderRepo, invoiceRepo, cartUC, tx, &nopAudit{}, logger.Nop())
	return &fixture{uc: uc, cartUC: cartUC, orders: orderRepo, invoices: invoiceRepo, carts: carts}
}

func baseRule(productID, price, tax, disc string) *entity.PricingRule {
	return &entity.PricingRule{
		ID:              uuid.New().String(),
		ProductID:       productID,
		Price:           dec(price),
		Currency:        "COP",
		TaxRatePercent:  dec(tax),
		DiscountPercent: dec(disc),
		EffectiveFrom:   time.Now().AddDate(-1, 0, 0),
	}
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestCreateFromCart_CarritoVacio(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.uc.CreateFromCart(context.Background(), "cli-1", "")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, f.orders.orders, "un carrito vacío no persiste nada")
	assert.Empty(t, f.invoices.invoices)
}

// TestCreateFromCart_FlujoCompleto: 2×(90, 20%, 5%) → orden en INVOICE_CREATED con
// snapshots congelados, factura espejo en QUOTE con los mismos totales (180 / 34.2 /
// 9 / 205.2), consecutivos por año y carrito vacío al final.
func TestCreateFromCart_FlujoCompleto(t *testing.T) {
	f := newFixture(
		[]*entity.Product{{ID: "p1", Active: true}},
		[]*entity.PricingRule{baseRule("p1", "90", "20", "5")},
	)
	_, err := f.cartUC.AddItem(context.Background(), "cli-1", "p1", dec("2"))
	require.NoError(t, err)

	resp, err := f.uc.CreateFromCart(context.Background(), "cli-1", "entrega en bodega")
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("ORD-%d-000001", year), resp.OrderNumber)
	assert.Equal(t, string(domorder.StatusInvoiceCreated), resp.Status)
	assert.Equal(t, "entrega en bodega", resp.Notes)
	require.Len(t, resp.Items, 1)
	assert.True(t, dec("90").Equal(resp.Items[0].UnitPrice), "precio congelado")
	assert.True(t, dec("180").Equal(resp.Subtotal))
	assert.True(t, dec("34.2").Equal(resp.TaxTotal))
	assert.True(t, dec("205.2").Equal(resp.GrandTotal))

	require.NotNil(t, resp.Invoice, "la factura viene adjunta")
	assert.Equal(t, fmt.Sprintf("INV-%d-000001", year), resp.Invoice.InvoiceNumber)
	assert.Equal(t, entity.InvoiceStatusQuote, resp.Invoice.Status)
	assert.True(t, dec("205.2").Equal(resp.Invoice.GrandTotal))

	stored, err := f.orders.GetByID(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusInvoiceCreated), stored.Status)
	assert.Equal(t, resp.Invoice.ID, stored.InvoiceID)

	priced, err := f.cartUC.PriceCart(context.Background(), "cli-1")
	require.NoError(t, err)
	assert.Empty(t, priced.Items, "el carrito queda vacío")
}

// TestCreateFromCart_PrecioCongelado: cambiar la regla después de crear la orden no
// altera los snapshots.
func TestCreateFromCart_PrecioCongelado(t *testing.T) {
	rule := baseRule("p1", "90", "20", "5")
	f := newFixture(
		[]*entity.Product{{ID: "p1", Active: true}},
		[]*entity.PricingRule{rule},
	)
	_, err := f.cartUC.AddItem(context.Background(), "cli-1", "p1", dec("2"))
	require.NoError(t, err)

	resp, err := f.uc.CreateFromCart(context.Background(), "cli-1", "")
	require.NoError(t, err)

	rule.Price = dec("999")

	again, err := f.uc.GetOrder(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, dec("90").Equal(again.Items[0].UnitPrice))
	assert.True(t, dec("205.2").Equal(again.GrandTotal))
}

// TestCreateFromCart_FallaParcialFactura: si la factura falla después de escribir la
// orden, la orden queda en PENDING sin factura, el error se propaga y el carrito NO
// se vacía.
func TestCreateFromCart_FallaParcialFactura(t *testing.T) {
	f := newFixture(
		[]*entity.Product{{ID: "p1", Active: true}},
		[]*entity.PricingRule{baseRule("p1", "10", "0", "0")},
	)
	_, err := f.cartUC.AddItem(context.Background(), "cli-1", "p1", dec("1"))
	require.NoError(t, err)

	f.invoices.failCreate = true
	_, err = f.uc.CreateFromCart(context.Background(), "cli-1", "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "crear factura"), "el error nombra la fase que falló: %v", err)

	require.Len(t, f.orders.orders, 1, "la orden ya escrita persiste")
	for _, o := range f.orders.orders {
		assert.Equal(t, string(domorder.StatusPending), o.Status)
		assert.Empty(t, o.InvoiceID)
	}
	assert.Empty(t, f.invoices.invoices)

	priced, err := f.cartUC.PriceCart(context.Background(), "cli-1")
	require.NoError(t, err)
	assert.Len(t, priced.Items, 1, "el carrito se conserva para reintentar")
}

// TestCreateFromCart_LineaSinPrecio: una línea sin regla de precio vigente se
// degrada a cero para VISUALIZAR el carrito, pero el checkout la rechaza: la orden
// no se crea, nada se persiste y el carrito se conserva.
func TestCreateFromCart_LineaSinPrecio(t *testing.T) {
	f := newFixture(
		[]*entity.Product{{ID: "p1", Active: true}},
		nil, // sin reglas: la resolución falla
	)
	_, err := f.cartUC.AddItem(context.Background(), "cli-1", "p1", dec("3"))
	require.NoError(t, err)

	priced, err := f.cartUC.PriceCart(context.Background(), "cli-1")
	require.NoError(t, err)
	require.Len(t, priced.Items, 1)
	assert.True(t, priced.Items[0].PriceMissing, "la línea degradada queda marcada")
	assert.True(t, decimal.Zero.Equal(priced.Items[0].LineTotal))

	_, err = f.uc.CreateFromCart(context.Background(), "cli-1", "")
	assert.ErrorIs(t, err, domain.ErrPricingNotFound, "no se vende a precio cero")
	assert.Empty(t, f.orders.orders, "nada persistido")
	assert.Empty(t, f.invoices.invoices)

	again, err := f.cartUC.PriceCart(context.Background(), "cli-1")
	require.NoError(t, err)
	assert.Len(t, again.Items, 1, "el carrito se conserva")
}

func crearOrden(t *testing.T, f *fixture) *entity.Order {
	t.Helper()
	_, err := f.cartUC.AddItem(context.Background(), "cli-1", "p1", dec("1"))
	require.NoError(t, err)
	resp, err := f.uc.CreateFromCart(context.Background(), "cli-1", "")
	require.NoError(t, err)
	ord, err := f.orders.GetByID(resp.ID)
	require.NoError(t, err)
	return ord
}

func fixtureConProducto() *fixture {
	return newFixture(
		[]*entity.Product{{ID: "p1", Active: true}},
		[]*entity.PricingRule{baseRule("p1", "100", "19", "0")},
	)
}

func TestUpdateStatus_RestriccionPorRol(t *testing.T) {
	f := fixtureConProducto()
	ord := crearOrden(t, f) // queda en INVOICE_CREATED

	// Un cliente no puede avanzar la orden ni cancelarla fuera de PENDING.
	_, err := f.uc.UpdateStatus(context.Background(), ord.ID, string(domorder.StatusInvoiceIssued), entity.RoleClient, "cli-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.UpdateStatus(context.Background(), ord.ID, string(domorder.StatusCancelled), entity.RoleClient, "cli-1")
	assert.ErrorIs(t, err, domain.ErrForbidden, "cancelación de cliente solo desde PENDING")

	// El personal sí puede cancelar desde INVOICE_CREATED.
	upd, err := f.uc.UpdateStatus(context.Background(), ord.ID, string(domorder.StatusCancelled), entity.RoleEmployee, "")
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusCancelled), upd.Status)
}

// TestUpdateStatus_PropiedadDelCliente: un cliente solo opera sus PROPIAS órdenes;
// otro cliente recibe ErrForbidden aunque la transición fuera legal para el rol.
func TestUpdateStatus_PropiedadDelCliente(t *testing.T) {
	f := fixtureConProducto()

	// Orden en PENDING de cli-1 (la factura falló; la cancelación de cliente
	// desde PENDING es legal para el rol).
	_, err := f.cartUC.AddItem(context.Background(), "cli-1", "p1", dec("1"))
	require.NoError(t, err)
	f.invoices.failCreate = true
	_, err = f.uc.CreateFromCart(context.Background(), "cli-1", "")
	require.Error(t, err)

	var ord *entity.Order
	for _, o := range f.orders.orders {
		ord = o
	}
	require.NotNil(t, ord)
	require.Equal(t, string(domorder.StatusPending), ord.Status)

	// Otro cliente no puede cancelarla.
	_, err = f.uc.UpdateStatus(context.Background(), ord.ID, string(domorder.StatusCancelled), entity.RoleClient, "cli-2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	stored, err := f.orders.GetByID(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusPending), stored.Status, "la orden no se mueve")

	// El dueño sí.
	upd, err := f.uc.UpdateStatus(context.Background(), ord.ID, string(domorder.StatusCancelled), entity.RoleClient, "cli-1")
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusCancelled), upd.Status)
}

func TestUpdateStatus_TransicionIlegal(t *testing.T) {
	f := fixtureConProducto()
	ord := crearOrden(t, f)

	_, err := f.uc.UpdateStatus(context.Background(), ord.ID, string(domorder.StatusDelivered), entity.RoleAdmin, "")
	var invalid *domorder.InvalidTransitionError
	require.True(t, errors.As(err, &invalid), "salto INVOICE_CREATED→DELIVERED: %v", err)
	assert.Equal(t, domorder.StatusInvoiceCreated, invalid.From)

	_, err = f.uc.UpdateStatus(context.Background(), ord.ID, "ESTADO_RARO", entity.RoleAdmin, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateStatus(context.Background(), "no-existe", string(domorder.StatusShipped), entity.RoleAdmin, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// avanzar lleva la orden por la ruta feliz hasta el estado pedido.
func avanzar(t *testing.T, f *fixture, orderID string, hasta ...domorder.Status) {
	t.Helper()
	for _, s := range hasta {
		_, err := f.uc.UpdateStatus(context.Background(), orderID, string(s), entity.RoleAdmin, "")
		require.NoError(t, err)
	}
}

// TestConvergencia_PagoLuegoEntrega: el pago llega antes de la entrega; el pago solo
// no mueve la orden, y la entrega posterior auto-completa.
func TestConvergencia_PagoLuegoEntrega(t *testing.T) {
	f := fixtureConProducto()
	ord := crearOrden(t, f)
	avanzar(t, f, ord.ID, domorder.StatusInvoiceIssued, domorder.StatusShipped)

	// Marcar la factura como pagada y aplicar el evento.
	inv, err := f.invoices.GetByID(ord.InvoiceID)
	require.NoError(t, err)
	inv.Status = entity.InvoiceStatusPaid
	require.NoError(t, f.invoices.UpdateStatus(inv))
	require.NoError(t, f.uc.ApplyInvoicePaid(ord.InvoiceID))

	mid, err := f.orders.GetByID(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusShipped), mid.Status, "pagada pero no entregada: no se mueve")

	_, err = f.uc.UpdateStatus(context.Background(), ord.ID, string(domorder.StatusDelivered), entity.RoleAdmin, "")
	require.NoError(t, err)

	final, err := f.orders.GetByID(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusCompleted), final.Status)
}

// TestConvergencia_EntregaLuegoPago: la entrega llega antes del pago; el evento de
// pago posterior auto-completa. Ambos órdenes convergen a COMPLETED.
func TestConvergencia_EntregaLuegoPago(t *testing.T) {
	f := fixtureConProducto()
	ord := crearOrden(t, f)
	avanzar(t, f, ord.ID, domorder.StatusInvoiceIssued, domorder.StatusShipped, domorder.StatusDelivered)

	mid, err := f.orders.GetByID(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusDelivered), mid.Status, "entregada pero sin pagar: espera")

	require.NoError(t, f.uc.ApplyInvoicePaid(ord.InvoiceID))

	final, err := f.orders.GetByID(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusCompleted), final.Status)
}

func TestApplyInvoiceIssued_Idempotente(t *testing.T) {
	f := fixtureConProducto()
	ord := crearOrden(t, f)

	require.NoError(t, f.uc.ApplyInvoiceIssued(ord.InvoiceID))
	upd, err := f.orders.GetByID(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusInvoiceIssued), upd.Status)

	// Re-aplicar (o aplicar tarde, con la orden ya avanzada) es un no-op.
	require.NoError(t, f.uc.ApplyInvoiceIssued(ord.InvoiceID))
	avanzar(t, f, ord.ID, domorder.StatusShipped)
	require.NoError(t, f.uc.ApplyInvoiceIssued(ord.InvoiceID))
	upd, err = f.orders.GetByID(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domorder.StatusShipped), upd.Status)

	// Una factura sin orden enlazada es un error (reintentable por el despachador).
	assert.Error(t, f.uc.ApplyInvoiceIssued("inv-huerfana"))
}

func TestApplyInvoiceTotals_EspejaTotales(t *testing.T) {
	f := fixtureConProducto()
	ord := crearOrden(t, f)

	require.NoError(t, f.uc.ApplyInvoiceTotals(ord.InvoiceID, dec("300"), dec("57"), dec("357")))

	upd, err := f.orders.GetByID(ord.ID)
	require.NoError(t, err)
	assert.True(t, dec("300").Equal(upd.Subtotal))
	assert.True(t, dec("57").Equal(upd.TaxTotal))
	assert.True(t, dec("357").Equal(upd.GrandTotal))

	// Totales de una factura aún no enlazada: no-op silencioso.
	require.NoError(t, f.uc.ApplyInvoiceTotals("inv-suelta", dec("1"), dec("0"), dec("1")))
}
