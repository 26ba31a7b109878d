package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/domain/ledger"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
)

// LowStockUseCase genera la lista de reposición: productos en stock bajo o agotados.
type LowStockUseCase struct {
	products  repository.ProductRepository
	opTimeout time.Duration
}

// NewLowStockUseCase construye el caso de uso de reposición.
func NewLowStockUseCase(products repository.ProductRepository, opTimeout time.Duration) *LowStockUseCase {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &LowStockUseCase{products: products, opTimeout: opTimeout}
}

// List devuelve los productos con disponible <= minimum_stock_level, con la cantidad sugerida
// de pedido y una prioridad (1 = más urgente).
func (uc *LowStockUseCase) List(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opTimeout)
	defer cancel()

	products, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	hundred := decimal.NewFromInt(100)

	items := make([]dto.LowStockItemDTO, 0, len(products))
	for _, p := range products {
		status := ledger.Status(p)
		if status == ledger.StatusInStock {
			continue
		}
		available := ledger.Available(p)
		deficit := p.MinimumStockLevel - available
		suggested := p.ReorderQuantity
		if deficit > suggested {
			suggested = deficit
		}
		if suggested < 0 {
			suggested = 0
		}

		var margin decimal.Decimal
		if p.Price.GreaterThan(decimal.Zero) && p.LastPurchasePrice.GreaterThan(decimal.Zero) {
			margin = p.Price.Sub(p.LastPurchasePrice).Div(p.Price).Mul(hundred).Round(2)
		}

		items = append(items, dto.LowStockItemDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			Category:           p.Category,
			StockQuantity:      p.StockQuantity,
			ReservedStock:      p.ReservedStock,
			Available:          available,
			MinimumStockLevel:  p.MinimumStockLevel,
			Status:             status,
			SuggestedOrderQty:  suggested,
			LastPurchasePrice:  p.LastPurchasePrice,
			EstimatedOrderCost: p.LastPurchasePrice.Mul(decimal.NewFromInt(int64(suggested))),
			GrossMarginPct:     margin,
			Deficit:            deficit,
		})
	}

	// Agotados primero, luego mayor déficit, luego mayor margen.
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		aOut, bOut := a.Status == ledger.StatusOutOfStock, b.Status == ledger.StatusOutOfStock
		if aOut != bOut {
			return aOut
		}
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
	})
	for i := range items {
		items[i].Priority = i + 1
	}
	return items, nil
}
