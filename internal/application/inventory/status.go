package inventory

import (
	"context"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

// GetStatus devuelve stock, reservado, disponible y estado del producto. Usa la cache si está configurada.
func (uc *StockLedgerUseCase) GetStatus(ctx context.Context, productID string) (*dto.StockStatusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opTimeout)
	defer cancel()

	var gen int64
	fill := false
	if uc.cache != nil {
		st, g, hit, err := uc.cache.Get(ctx, productID)
		switch {
		case err != nil:
			uc.log.Debug().Err(err).Str("product_id", productID).Msg("cache de estado no disponible")
		case hit:
			return st, nil
		default:
			gen, fill = g, true
		}
	}

	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	st := toStatus(p)
	if fill {
		stored, err := uc.cache.Set(ctx, st, gen)
		switch {
		case err != nil:
			uc.log.Debug().Err(err).Str("product_id", productID).Msg("guardar estado en cache")
		case !stored:
			// hubo un commit entre Get y Set: la próxima lectura irá a la base
			uc.log.Debug().Str("product_id", productID).Int64("gen", gen).Msg("estado en cache descartado")
		}
	}
	return st, nil
}

// ListMovements historial del producto en orden de creación, paginado.
func (uc *StockLedgerUseCase) ListMovements(ctx context.Context, productID string, page dto.PageRequest) ([]*entity.StockMovement, int, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opTimeout)
	defer cancel()

	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	if p == nil {
		return nil, 0, domain.ErrNotFound
	}
	page.Normalize()
	movs, err := uc.movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.movements.CountByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	return movs, total, nil
}
