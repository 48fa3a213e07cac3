// Package pdf implementa la generación de la etiqueta imprimible de lote.
//
// Layout de la etiqueta (media carta apaisada, una por pallet):
//
//	┌─────────────────────────────────────────────┐
//	│  PRODUCTO (nombre + código)   │  UBICACIÓN  │
//	│  ─────────────────────────────────────────  │
//	│  CÓDIGO DE BARRAS (Code 128 del lote)       │
//	│  ─────────────────────────────────────────  │
//	│  VENCE: fecha   │  CANT: total   │ REMISIÓN │
//	└─────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/barcode"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appinventory.LabelPDFGenerator = (*MarotoLabelGenerator)(nil)

// MarotoLabelGenerator implementa inventory.LabelPDFGenerator usando Maroto v2.
type MarotoLabelGenerator struct{}

// NewMarotoLabelGenerator construye el generador.
func NewMarotoLabelGenerator() *MarotoLabelGenerator { return &MarotoLabelGenerator{} }

// GenerateLotLabel genera el PDF de la etiqueta y devuelve sus bytes.
func (g *MarotoLabelGenerator) GenerateLotLabel(
	_ context.Context,
	lot *entity.Lot,
	product *entity.Product,
	location *entity.Location,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Etiqueta de lote "+lot.Code, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, location))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(barcodeRow(lot))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(detailRow(lot))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre y código de producto (izq), centro de distribución (der).
func headerRow(product *entity.Product, location *entity.Location) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Código: "+product.Code, props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(location.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New(location.Code, props.Text{
				Size: 9, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// barcodeRow: Code 128 de la referencia de lote, escaneable desde el pallet.
func barcodeRow(lot *entity.Lot) core.Row {
	return row.New(34).Add(
		col.New(12).Add(
			code.NewBar(lot.Code, props.Barcode{
				Type:    barcode.Code128,
				Center:  true,
				Percent: 90,
			}),
			text.New(lot.Code, props.Text{
				Size: 10, Align: align.Center, Top: 28, Style: fontstyle.Bold,
			}),
		),
	)
}

// detailRow: vencimiento, cantidad total y remisión de origen.
func detailRow(lot *entity.Lot) core.Row {
	return row.New(14).Add(
		labeled(4, "VENCE", lot.ExpirationDate.Format("02/01/2006")),
		labeled(4, "CANTIDAD", strconv.FormatInt(lot.QuantityTotal, 10)),
		labeled(4, "REMISIÓN", lot.ShipmentRef),
	)
}

func labeled(size int, label, value string) core.Col {
	return col.New(size).Add(
		text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1}),
		text.New(value, props.Text{Size: 12, Style: fontstyle.Bold, Top: 6}),
	)
}
