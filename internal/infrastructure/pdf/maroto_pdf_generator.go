// Package pdf implementa la generación de la remisión (nota de entrega) de
// una requisición usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega Central  │  N° Requisición + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINO: Sucursal + dirección                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Solicitado | Entregado | Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: líneas / unidades entregadas                       │
//	│  FIRMAS: entrega / recibe                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa usecase.DeliveryNotePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDeliveryNotePDF genera el PDF de la remisión y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDeliveryNotePDF(
	_ context.Context,
	req *entity.Requisition,
	unit *entity.Unit,
	products map[string]*entity.Product,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión de Requisición", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(destinoRow(unit))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de ítems
	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(req.Items, products) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(req.Items))

	if req.Note != "" {
		m.AddRows(noteRow(req.Note))
	}

	// Firmas
	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título de la remisión (izq) y N° + fecha (der).
func headerRow(req *entity.Requisition) core.Row {
	fecha := req.UpdatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("BODEGA CENTRAL", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Remisión de reposición de stock", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REMISIÓN DE REQUISICIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(req.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// destinoRow: sucursal que recibe la mercancía.
func destinoRow(unit *entity.Unit) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(unit.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Dirección: "+nonEmpty(unit.Address, "—"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 5, align.Left),
		h("Solicitado", 2, align.Right),
		h("Entregado", 2, align.Right),
		h("Estado", 1, align.Center),
	)
}

// tableItemRows: una fila por ítem de la requisición.
func tableItemRows(items []*entity.RequisitionItem, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		sku, name := "—", it.ProductID
		if p, ok := products[it.ProductID]; ok {
			sku, name = p.SKU, p.Name
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(sku,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(5).Add(text.New(name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", it.RequestedQty),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", it.DeliveredQty),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(statusLabel(it.Status),
				props.Text{Size: 7, Align: align.Center, Top: 1, Color: colorGray})),
		))
	}
	return result
}

// totalsRow: líneas y unidades entregadas.
func totalsRow(items []*entity.RequisitionItem) core.Row {
	var totalDelivered int64
	for _, it := range items {
		totalDelivered += it.DeliveredQty
	}
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Líneas:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
			}),
			text.New("Unidades entregadas:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", len(items)), props.Text{
				Size: 9, Align: align.Right, Right: 1, Top: 1,
			}),
			text.New(fmt.Sprintf("%d", totalDelivered), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1,
				Color: colorPrimary, Top: 6,
			}),
		),
	)
}

// noteRow: nota de la requisición.
func noteRow(note string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Nota: "+note, props.Text{Size: 8, Color: colorGray, Top: 3}),
	))
}

// signatureRow: firmas de quien entrega y quien recibe.
func signatureRow() core.Row {
	sig := func(label string) core.Col {
		return col.New(5).Add(
			text.New("______________________________", props.Text{
				Size: 9, Align: align.Center, Top: 1, Color: colorGray,
			}),
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 7,
			}),
		)
	}
	return row.New(14).Add(
		col.New(1),
		sig("ENTREGA (Bodega)"),
		sig("RECIBE (Sucursal)"),
		col.New(1),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID recorta un UUID a su primer bloque para mostrarlo como folio.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusLabel(status string) string {
	switch status {
	case entity.ItemPending:
		return "Pend."
	case entity.ItemPartial:
		return "Parcial"
	case entity.ItemDelivered:
		return "Entreg."
	case entity.ItemCancelled:
		return "Cancel."
	}
	return status
}
