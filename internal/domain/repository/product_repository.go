package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// ListLowStock productos con (stock - reservado) <= minimum_stock_level.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	// UpdateStock escribe los dos agregados que mantiene el ledger. Solo lo usa el motor de inventario.
	UpdateStock(ctx context.Context, productID string, stockQuantity, reservedStock int) error
	UpdateLastPurchasePrice(ctx context.Context, productID string, price decimal.Decimal) error
}
