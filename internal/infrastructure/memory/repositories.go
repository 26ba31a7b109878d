package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/ledger"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository         = (*ProductRepo)(nil)
	_ repository.StockMovementRepository   = (*StockMovementRepo)(nil)
	_ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)
	_ repository.ReservationRepository     = (*ReservationRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.skus[p.SKU]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[p.ID] = copyProduct(p)
		st.skus[p.SKU] = p.ID
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = copyProduct(p)
		}
	})
	return out, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(st *state) {
		if id, ok := st.skus[sku]; ok {
			out = copyProduct(st.products[id])
		}
	})
	return out, nil
}

// GetForUpdate en memoria el bloqueo lo da el mutex de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	r.v.read(func(st *state) {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			all = append(all, p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
		for _, p := range page(all, limit, offset) {
			out = append(out, copyProduct(p))
		}
	})
	return out, nil
}

func (r *ProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	r.v.read(func(st *state) {
		for _, p := range st.products {
			if ledger.Available(p) <= p.MinimumStockLevel {
				out = append(out, copyProduct(p))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		di := out[i].MinimumStockLevel - ledger.Available(out[i])
		dj := out[j].MinimumStockLevel - ledger.Available(out[j])
		if di != dj {
			return di > dj
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

// UpdateStock replica los CHECK de la tabla: ambos agregados >= 0 y reservado <= stock.
func (r *ProductRepo) UpdateStock(_ context.Context, productID string, stockQuantity, reservedStock int) error {
	return r.v.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		if stockQuantity < 0 || reservedStock < 0 || reservedStock > stockQuantity {
			return domain.ErrInvalidQuantity
		}
		p.StockQuantity = stockQuantity
		p.ReservedStock = reservedStock
		return nil
	})
}

func (r *ProductRepo) UpdateLastPurchasePrice(_ context.Context, productID string, price decimal.Decimal) error {
	return r.v.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.LastPurchasePrice = price
		return nil
	})
}

// StockMovementRepo ledger en memoria. Solo inserción y lectura.
type StockMovementRepo struct{ v view }

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.products[m.ProductID]; !ok {
			return domain.ErrNotFound
		}
		st.seq++
		m.Seq = st.seq
		st.movements[m.ProductID] = append(st.movements[m.ProductID], copyMovement(m))
		return nil
	})
}

func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var all []*entity.StockMovement
	r.v.read(func(st *state) {
		for _, m := range st.movements[productID] {
			all = append(all, copyMovement(m))
		}
	})
	ledger.SortMovements(all)
	if limit <= 0 {
		return all, nil
	}
	return page(all, limit, offset), nil
}

func (r *StockMovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	var n int
	r.v.read(func(st *state) { n = len(st.movements[productID]) })
	return n, nil
}

// StockAdjustmentRepo ajustes en memoria.
type StockAdjustmentRepo struct{ v view }

func (r *StockAdjustmentRepo) Create(_ context.Context, a *entity.StockAdjustment) error {
	return r.v.write(func(st *state) error {
		cp := *a
		cp.SerialNumbers = append([]string(nil), a.SerialNumbers...)
		st.adjustments[a.ProductID] = append(st.adjustments[a.ProductID], &cp)
		return nil
	})
}

func (r *StockAdjustmentRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	var out []*entity.StockAdjustment
	r.v.read(func(st *state) {
		list := st.adjustments[productID]
		for i := len(list) - 1; i >= 0; i-- {
			cp := *list[i]
			out = append(out, &cp)
		}
	})
	if limit <= 0 {
		limit = 50
	}
	return page(out, limit, offset), nil
}

// ReservationRepo reservas en memoria.
type ReservationRepo struct{ v view }

func (r *ReservationRepo) Create(_ context.Context, res *entity.QuotationReservation) error {
	return r.v.write(func(st *state) error {
		for _, other := range st.reservations {
			if other.IsActive() && other.QuotationID == res.QuotationID && other.ProductID == res.ProductID {
				return domain.ErrConflict
			}
		}
		st.reservations[res.ID] = copyReservation(res)
		return nil
	})
}

func (r *ReservationRepo) GetByID(_ context.Context, id string) (*entity.QuotationReservation, error) {
	var out *entity.QuotationReservation
	r.v.read(func(st *state) {
		if res, ok := st.reservations[id]; ok {
			out = copyReservation(res)
		}
	})
	return out, nil
}

func (r *ReservationRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.QuotationReservation, error) {
	return r.GetByID(ctx, id)
}

func (r *ReservationRepo) FindActiveForUpdate(_ context.Context, quotationID, productID string) (*entity.QuotationReservation, error) {
	var out *entity.QuotationReservation
	r.v.read(func(st *state) {
		for _, res := range st.reservations {
			if res.IsActive() && res.QuotationID == quotationID && res.ProductID == productID {
				out = copyReservation(res)
				return
			}
		}
	})
	return out, nil
}

func (r *ReservationRepo) FindLatest(_ context.Context, quotationID, productID string) (*entity.QuotationReservation, error) {
	var out *entity.QuotationReservation
	r.v.read(func(st *state) {
		for _, res := range st.reservations {
			if res.QuotationID != quotationID || res.ProductID != productID {
				continue
			}
			if out == nil || res.ReservedAt.After(out.ReservedAt) {
				out = copyReservation(res)
			}
		}
	})
	return out, nil
}

func (r *ReservationRepo) ListActiveByQuotation(_ context.Context, quotationID string) ([]*entity.QuotationReservation, error) {
	var out []*entity.QuotationReservation
	r.v.read(func(st *state) {
		for _, res := range st.reservations {
			if res.IsActive() && res.QuotationID == quotationID {
				out = append(out, copyReservation(res))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *ReservationRepo) SumActiveByProduct(_ context.Context, productID string) (int, error) {
	var n int
	r.v.read(func(st *state) {
		for _, res := range st.reservations {
			if res.IsActive() && res.ProductID == productID {
				n += res.Quantity
			}
		}
	})
	return n, nil
}

func (r *ReservationRepo) UpdateStatus(_ context.Context, res *entity.QuotationReservation) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.reservations[res.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = res.Status
		if res.ReleasedAt != nil {
			t := *res.ReleasedAt
			cur.ReleasedAt = &t
		}
		return nil
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
