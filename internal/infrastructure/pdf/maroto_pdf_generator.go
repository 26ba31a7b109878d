// Package pdf genera el kardex (reporte de auditoría de movimientos) de un producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + SKU        │  KARDEX + fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Stock / Reservado / Disponible / Mínimo           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Acción | Antes | Cambio | Después | Ref      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de movimientos + leyenda                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/cctv-stock-api/internal/application/ports"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/ledger"
)

var _ ports.MovementReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 50}
)

var actionLabels = map[string]string{
	entity.ActionPurchase:          "Compra",
	entity.ActionSale:              "Venta",
	entity.ActionAdjustment:        "Ajuste",
	entity.ActionTransfer:          "Traslado",
	entity.ActionReturn:            "Devolución",
	entity.ActionQuotationReserved: "Reserva",
	entity.ActionQuotationReleased: "Liberación",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.MovementReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer string
	now    func() time.Time
}

// NewMarotoPDFGenerator construye el generador. issuer aparece como autor del documento.
func NewMarotoPDFGenerator(issuer string) *MarotoPDFGenerator {
	if issuer == "" {
		issuer = "cctv-stock-api"
	}
	return &MarotoPDFGenerator{issuer: issuer, now: time.Now}
}

// GenerateMovementReport genera el kardex y devuelve sus bytes. Los movimientos se ordenan
// en orden de reproducción del ledger.
func (g *MarotoPDFGenerator) GenerateMovementReport(
	ctx context.Context,
	product *entity.Product,
	movements []*entity.StockMovement,
) ([]byte, error) {
	if product == nil {
		return nil, fmt.Errorf("pdf: producto requerido")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sorted := append([]*entity.StockMovement(nil), movements...)
	ledger.SortMovements(sorted)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+product.SKU, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(sorted) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	m.AddRows(movementRows(sorted)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRows(product, sorted)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(p *entity.Product, issuedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("SKU: %s   |   Categoría: %s", p.SKU, p.Category), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+issuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(p *entity.Product) core.Row {
	cell := func(label string, value int) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Center, Color: colorGray, Top: 1,
			}),
			text.New(strconv.Itoa(value), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 5,
			}),
		)
	}
	return row.New(14).Add(
		cell("STOCK FÍSICO", p.StockQuantity),
		cell("RESERVADO", p.ReservedStock),
		cell("DISPONIBLE", ledger.Available(p)),
		cell("MÍNIMO", p.MinimumStockLevel),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Acción", 2, align.Left),
		h("Antes", 1, align.Right),
		h("Cambio", 1, align.Right),
		h("Después", 1, align.Right),
		h("Motivo", 3, align.Left),
		h("Referencia", 2, align.Left),
	)
}

// movementRows una fila por movimiento. Las reservas muestran la cantidad comprometida en notas.
func movementRows(movements []*entity.StockMovement) []core.Row {
	rows := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		changeColor := colorGray
		switch {
		case mv.QuantityChange > 0:
			changeColor = colorGreen
		case mv.QuantityChange < 0:
			changeColor = colorRed
		}
		reason := mv.Reason
		if mv.Notes != "" {
			reason = nonEmpty(reason, "—") + "\n" + mv.Notes
		}
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(mv.CreatedAt.Format("02/01/06 15:04"),
				props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(actionLabel(mv.ActionType),
				props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(mv.QuantityBefore),
				props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(signed(mv.QuantityChange),
				props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1, Color: changeColor, Style: fontstyle.Bold})),
			col.New(1).Add(text.New(strconv.Itoa(mv.QuantityAfter),
				props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(nonEmpty(reason, "—"),
				props.Text{Size: 6.5, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(reference(mv),
				props.Text{Size: 6.5, Top: 1, Left: 1, Color: colorGray})),
		))
	}
	return rows
}

func footerRows(p *entity.Product, movements []*entity.StockMovement) []core.Row {
	final := 0
	if n := len(movements); n > 0 {
		final = movements[n-1].QuantityAfter
	}
	legend := fmt.Sprintf("Movimientos: %d   |   Stock según ledger: %d   |   Stock registrado: %d",
		len(movements), final, p.StockQuantity)
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(legend, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
		)),
	}
	if len(movements) > 0 && final != p.StockQuantity {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("ATENCIÓN: el stock registrado no coincide con la reproducción del ledger.", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorRed, Top: 1,
			}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Los movimientos del ledger son inmutables. Las correcciones se registran como ajustes.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func actionLabel(action string) string {
	if l, ok := actionLabels[action]; ok {
		return l
	}
	return action
}

func reference(mv *entity.StockMovement) string {
	if mv.ReferenceID == "" {
		return "—"
	}
	ref := mv.ReferenceID
	if len(ref) > 13 {
		ref = ref[:13] + "…"
	}
	if mv.ReferenceType == "" {
		return ref
	}
	return mv.ReferenceType + ":\n" + ref
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
