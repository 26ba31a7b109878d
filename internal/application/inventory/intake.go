package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/ledger"
)

// PurchaseInput recepción de mercancía de un proveedor.
type PurchaseInput struct {
	ProductID     string
	Quantity      int
	UnitCost      decimal.Decimal
	Reason        string
	Notes         string
	ReferenceType string
	ReferenceID   string
	UserID        string
}

// AdjustmentInput corrección manual de inventario.
type AdjustmentInput struct {
	ProductID     string
	Type          string // add | remove
	Quantity      int
	Reason        string
	Notes         string
	SerialNumbers []string
	UserID        string
}

// StockOutInput venta directa o devolución de cliente.
type StockOutInput struct {
	ProductID   string
	Quantity    int
	ReferenceID string
	Notes       string
	UserID      string
}

// MovementResult movimiento confirmado junto con el producto ya actualizado.
type MovementResult struct {
	Movement *entity.StockMovement
	Product  *entity.Product
}

// ReceivePurchase suma la cantidad recibida y fija last_purchase_price = unit_cost.
func (uc *StockLedgerUseCase) ReceivePurchase(ctx context.Context, in PurchaseInput) (*MovementResult, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if err := ledger.CheckQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
	}
	refType := in.ReferenceType
	if refType == "" && in.ReferenceID != "" {
		refType = entity.ReferencePurchase
	}
	reason := in.Reason
	if reason == "" {
		reason = "purchase_received"
	}

	var res MovementResult
	err := uc.execute(ctx, func(ctx context.Context, repos Repos) error {
		p, err := lockProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		mov, err := uc.appendLocked(ctx, repos, p, movementDraft{
			action:  entity.ActionPurchase,
			change:  in.Quantity,
			reason:  reason,
			notes:   in.Notes,
			refType: refType,
			refID:   in.ReferenceID,
			userID:  in.UserID,
		}, uc.now())
		if err != nil {
			return err
		}
		if err := repos.Products.UpdateLastPurchasePrice(ctx, p.ID, in.UnitCost); err != nil {
			return err
		}
		p.LastPurchasePrice = in.UnitCost
		res = MovementResult{Movement: mov, Product: clone(p)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, res.Product, res.Movement)
	return &res, nil
}

// ApplyAdjustment registra un ajuste manual: un movimiento de tipo adjustment y su StockAdjustment.
// Los números de serie se guardan en el ajuste y también quedan en las notas del movimiento.
func (uc *StockLedgerUseCase) ApplyAdjustment(ctx context.Context, in AdjustmentInput) (*MovementResult, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if err := ledger.CheckQuantity(in.Quantity); err != nil {
		return nil, err
	}
	var change int
	switch in.Type {
	case entity.AdjustmentAdd:
		change = in.Quantity
	case entity.AdjustmentRemove:
		change = -in.Quantity
	default:
		return nil, fmt.Errorf("%w: type debe ser add o remove", domain.ErrInvalidInput)
	}
	if !entity.IsValidAdjustmentReason(in.Reason) {
		return nil, fmt.Errorf("%w: reason %q no válido", domain.ErrInvalidInput, in.Reason)
	}
	serials := cleanSerials(in.SerialNumbers)
	notes := notesWithSerials(in.Notes, serials)

	var res MovementResult
	err := uc.execute(ctx, func(ctx context.Context, repos Repos) error {
		p, err := lockProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		now := uc.now()
		adjID := uuid.New().String()
		mov, err := uc.appendLocked(ctx, repos, p, movementDraft{
			action:  entity.ActionAdjustment,
			change:  change,
			reason:  in.Reason,
			notes:   notes,
			refType: entity.ReferenceAdjustment,
			refID:   adjID,
			userID:  in.UserID,
		}, now)
		if err != nil {
			return err
		}
		adj := &entity.StockAdjustment{
			ID:             adjID,
			ProductID:      p.ID,
			MovementID:     mov.ID,
			AdjustmentType: in.Type,
			Quantity:       in.Quantity,
			Reason:         in.Reason,
			Notes:          notes,
			SerialNumbers:  serials,
			UserID:         in.UserID,
			CreatedAt:      now,
		}
		if err := repos.Adjustments.Create(ctx, adj); err != nil {
			return err
		}
		res = MovementResult{Movement: mov, Product: clone(p)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, res.Product, res.Movement)
	return &res, nil
}

// RegisterSale venta directa sin reserva previa: solo puede tomar stock disponible.
func (uc *StockLedgerUseCase) RegisterSale(ctx context.Context, in StockOutInput) (*MovementResult, error) {
	return uc.stockOut(ctx, in, entity.ActionSale, -in.Quantity, "direct_sale")
}

// RegisterReturn devolución de cliente; vuelve al stock físico.
func (uc *StockLedgerUseCase) RegisterReturn(ctx context.Context, in StockOutInput) (*MovementResult, error) {
	return uc.stockOut(ctx, in, entity.ActionReturn, in.Quantity, "customer_return")
}

func (uc *StockLedgerUseCase) stockOut(ctx context.Context, in StockOutInput, action string, change int, reason string) (*MovementResult, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if err := ledger.CheckQuantity(in.Quantity); err != nil {
		return nil, err
	}
	refType := ""
	if in.ReferenceID != "" {
		refType = entity.ReferenceOrder
	}

	var res MovementResult
	err := uc.execute(ctx, func(ctx context.Context, repos Repos) error {
		p, err := lockProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		// una venta directa no puede tomar unidades reservadas para cotizaciones
		if change < 0 && -change > ledger.Available(p) {
			return domain.ErrInsufficientAvailable
		}
		mov, err := uc.appendLocked(ctx, repos, p, movementDraft{
			action:  action,
			change:  change,
			reason:  reason,
			notes:   in.Notes,
			refType: refType,
			refID:   in.ReferenceID,
			userID:  in.UserID,
		}, uc.now())
		if err != nil {
			return err
		}
		res = MovementResult{Movement: mov, Product: clone(p)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, res.Product, res.Movement)
	return &res, nil
}

func cleanSerials(serials []string) []string {
	out := make([]string, 0, len(serials))
	seen := make(map[string]bool, len(serials))
	for _, s := range serials {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func notesWithSerials(notes string, serials []string) string {
	notes = strings.TrimSpace(notes)
	if len(serials) == 0 {
		return notes
	}
	line := "S/N: " + strings.Join(serials, ", ")
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
