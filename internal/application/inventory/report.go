package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/cctv-stock-api/internal/application/ports"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
)

// MovementReportUseCase genera el kárdex en PDF de un producto a partir de su ledger completo.
type MovementReportUseCase struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	generator ports.MovementReportGenerator
}

// NewMovementReportUseCase construye el caso de uso.
func NewMovementReportUseCase(products repository.ProductRepository, movements repository.StockMovementRepository, generator ports.MovementReportGenerator) *MovementReportUseCase {
	return &MovementReportUseCase{products: products, movements: movements, generator: generator}
}

// Generate devuelve los bytes del PDF.
func (uc *MovementReportUseCase) Generate(ctx context.Context, productID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.movements.ListByProduct(ctx, productID, 0, 0)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateMovementReport(ctx, p, movs)
}
