// Package ledger contiene las reglas puras del ledger de stock: aplicación de un cambio,
// disponible, estado y reproducción de movimientos para conciliación.
package ledger

import (
	"math"
	"sort"

	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

// Estados de stock derivados.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// MaxQuantity tope de cualquier cantidad o agregado: las columnas son INTEGER en PostgreSQL.
const MaxQuantity = math.MaxInt32

// CheckQuantity valida la cantidad de una operación: positiva y dentro de MaxQuantity.
func CheckQuantity(q int) error {
	if q <= 0 || q > MaxQuantity {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// Apply calcula quantity_after para un cambio. Falla con ErrInvalidQuantity si el resultado es
// negativo o supera MaxQuantity.
func Apply(before, change int) (int, error) {
	after := before + change
	if after < 0 || after > MaxQuantity {
		return before, domain.ErrInvalidQuantity
	}
	return after, nil
}

// Available = stock físico - reservado. Puede ser negativo si las reservas quedaron inconsistentes.
func Available(p *entity.Product) int {
	return p.StockQuantity - p.ReservedStock
}

// Status deriva el estado a partir de los agregados del producto.
func Status(p *entity.Product) string {
	available := Available(p)
	switch {
	case available <= 0:
		return StatusOutOfStock
	case available <= p.MinimumStockLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ReplayResult resultado de reproducir el ledger de un producto desde cero.
type ReplayResult struct {
	Quantity    int // stock reconstruido
	Count       int // movimientos reproducidos
	ChainBreaks int // movimientos cuyo before/after no encadena con el anterior
}

// Replay reproduce los movimientos en orden de Seq a partir de 0.
// La cantidad se reconstruye solo con QuantityChange; before/after se verifican como cadena.
func Replay(movements []*entity.StockMovement) ReplayResult {
	ordered := make([]*entity.StockMovement, len(movements))
	copy(ordered, movements)
	SortMovements(ordered)

	var res ReplayResult
	for _, m := range ordered {
		if m.QuantityBefore != res.Quantity || m.QuantityAfter != m.QuantityBefore+m.QuantityChange {
			res.ChainBreaks++
		}
		res.Quantity += m.QuantityChange
		res.Count++
	}
	return res
}

// SortMovements ordena por Seq. CreatedAt no participa: con varias instancias los relojes
// pueden diferir y el orden de commit es el de Seq.
func SortMovements(movements []*entity.StockMovement) {
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Seq < movements[j].Seq
	})
}
