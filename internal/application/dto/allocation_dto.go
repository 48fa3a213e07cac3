package dto

import (
	"time"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// AllocateRequest asignación de cantidad de un lote a una línea de pedido.
// LotID es opcional: si viene vacío el motor selecciona el lote con
// vencimiento más próximo (FEFO); si viene, se respeta la selección manual
// del operador (lectura de etiqueta).
type AllocateRequest struct {
	OrderRef   string `json:"order_ref"`
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   int64  `json:"quantity"`
	LotID      string `json:"lot_id,omitempty"`
}

// AllocationResponse representación de una asignación en respuestas HTTP.
type AllocationResponse struct {
	ID             string    `json:"id"`
	OrderRef       string    `json:"order_ref"`
	LotID          string    `json:"lot_id"`
	Quantity       int64     `json:"quantity"`
	ExpirationDate string    `json:"expiration_date"` // snapshot al asignar
	CreatedAt      time.Time `json:"created_at"`
}

// ToAllocationResponse mapea la entidad al DTO de respuesta.
func ToAllocationResponse(a *entity.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:             a.ID,
		OrderRef:       a.OrderRef,
		LotID:          a.LotID,
		Quantity:       a.Quantity,
		ExpirationDate: a.ExpirationDate.Format("2006-01-02"),
		CreatedAt:      a.CreatedAt,
	}
}
