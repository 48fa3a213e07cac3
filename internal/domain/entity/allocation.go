package entity

import "time"

// Allocation vincula cantidad consumida de un lote con una línea de demanda
// (pedido de cliente). Guarda una instantánea de la fecha de vencimiento para
// que cambios posteriores al lote no alteren el comprobante de una asignación
// ya completada. Única por (OrderRef, LotID).
type Allocation struct {
	ID             string
	OrderRef       string
	LotID          string
	Quantity       int64
	ExpirationDate time.Time // snapshot al momento de asignar
	CreatedAt      time.Time
	CreatedBy      string
}
