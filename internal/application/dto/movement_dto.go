package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// ListMovementsRequest filtros del listado de movimientos.
type ListMovementsRequest struct {
	ProductID  string `query:"product_id"`
	LocationID string `query:"location_id"`
	LotID      string `query:"lot_id"`
	Type       string `query:"type"`   // IN | OUT | BALANCE
	OriginTag  string `query:"origin"` // T1 | T2 | ADMIN | ORDER
	From       string `query:"from"`   // ISO 8601 datetime
	To         string `query:"to"`
	PageRequest
}

// MovementResponse representación de un asiento del libro en respuestas HTTP.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	LotID          string          `json:"lot_id,omitempty"`
	Type           string          `json:"type"`
	Delta          int64           `json:"delta"`
	QuantityBefore int64           `json:"quantity_before"`
	QuantityAfter  int64           `json:"quantity_after"`
	OriginTag      string          `json:"origin_tag,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Applied        bool            `json:"applied"`
	AppliedAt      *time.Time      `json:"applied_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// ToMovementResponse mapea la entidad al DTO de respuesta.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		LocationID:     m.LocationID,
		LotID:          m.LotID,
		Type:           m.Type,
		Delta:          m.Delta,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		OriginTag:      m.OriginTag,
		Reason:         m.Reason,
		UnitCost:       m.UnitCost,
		Applied:        m.Applied,
		AppliedAt:      m.AppliedAt,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

// ToMovementResponses mapea una lista de entidades.
func ToMovementResponses(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}
