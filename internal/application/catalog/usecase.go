package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// UseCase administra el catálogo de soporte: productos, clientes y proveedores.
// Es deliberadamente delgado; el precio del producto vive en las reglas de precio.
type UseCase struct {
	products  repository.ProductRepository
	clients   repository.ClientRepository
	suppliers repository.SupplierRepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(products repository.ProductRepository, clients repository.ClientRepository, suppliers repository.SupplierRepository) *UseCase {
	return &UseCase{products: products, clients: clients, suppliers: suppliers}
}

// CreateProduct valida y persiste un producto. El SKU es único.
func (uc *UseCase) CreateProduct(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	if p.SKU == "" || p.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if p.SupplierID != "" {
		supplier, err := uc.suppliers.GetByID(p.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	p.ID = uuid.New().String()
	p.Active = true
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := uc.products.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct actualiza nombre, descripción, proveedor y flag activo.
func (uc *UseCase) UpdateProduct(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	existing, err := uc.products.GetByID(p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	p.SKU = existing.SKU // el SKU es inmutable
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	if err := uc.products.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct obtiene un producto por ID.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ListProducts lista productos paginados.
func (uc *UseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return uc.products.List(limit, offset)
}

// CreateClient valida y persiste un cliente.
func (uc *UseCase) CreateClient(ctx context.Context, c *entity.Client) (*entity.Client, error) {
	if c.Name == "" || c.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c.ID = uuid.New().String()
	c.Active = true
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := uc.clients.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetClient obtiene un cliente por ID.
func (uc *UseCase) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	c, err := uc.clients.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// ListClients lista clientes paginados.
func (uc *UseCase) ListClients(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	return uc.clients.List(limit, offset)
}

// CreateSupplier valida y persiste un proveedor.
func (uc *UseCase) CreateSupplier(ctx context.Context, s *entity.Supplier) (*entity.Supplier, error) {
	if s.Name == "" || s.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s.ID = uuid.New().String()
	s.Active = true
	s.CreatedAt = now
	s.UpdatedAt = now
	if err := uc.suppliers.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListSuppliers lista proveedores paginados.
func (uc *UseCase) ListSuppliers(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	return uc.suppliers.List(limit, offset)
}
