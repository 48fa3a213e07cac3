package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote fechado de un producto en un centro de distribución:
// la unidad de contabilidad del inventario. Se crea al registrar una línea de
// recepción y nunca se elimina una vez que tiene cantidad consumida.
// Invariante: 0 <= QuantityAvailable <= QuantityTotal.
type Lot struct {
	ID                string
	ProductID         string
	LocationID        string
	Code              string // referencia de lote impresa en la etiqueta (única por producto+vencimiento)
	ExpirationDate    time.Time
	QuantityTotal     int64
	QuantityAvailable int64
	UnitCost          decimal.Decimal // costo unitario al momento de la recepción
	ShipmentRef       string          // remisión/embarque de origen, para trazabilidad
	CreatedAt         time.Time
	CreatedBy         string
}

// Consumed indica si el lote tiene cantidad ya asignada o ajustada hacia abajo.
func (l *Lot) Consumed() bool {
	return l.QuantityAvailable < l.QuantityTotal
}
