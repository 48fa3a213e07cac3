package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeIN      = "IN"      // entrada (recepción de lote, reverso de asignación)
	MovementTypeOUT     = "OUT"     // salida (asignación a pedido, cancelación de lote)
	MovementTypeBALANCE = "BALANCE" // ajuste de conciliación
)

// Subsistemas de origen admitidos en el campo OriginTag. Solo etiquetan el
// movimiento para auditoría; no cambian la lógica de mutación.
const (
	OriginTagT1    = "T1"
	OriginTagT2    = "T2"
	OriginTagAdmin = "ADMIN"
	OriginTagOrder = "ORDER"
)

// Movement representa una entrada inmutable del libro de movimientos: un cambio
// de cantidad con signo para un producto en una ubicación. Las correcciones son
// entradas nuevas de compensación, nunca ediciones de una entrada previa.
// Invariante: QuantityAfter = QuantityBefore + Delta.
type Movement struct {
	ID             string
	Seq            int64 // orden de llegada dentro de producto+ubicación
	ProductID      string
	LocationID     string
	LotID          string // vacío si el movimiento no referencia un lote
	Type           string
	Delta          int64
	QuantityBefore int64
	QuantityAfter  int64
	OriginTag      string
	Reason         string
	UnitCost       decimal.Decimal
	Applied        bool // true si el movimiento ya afectó el stock vivo
	AppliedAt      *time.Time
	CreatedAt      time.Time
	CreatedBy      string
}
