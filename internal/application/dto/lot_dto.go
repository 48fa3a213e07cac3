package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// CreateLotRequest alta de un lote desde una línea de recepción.
type CreateLotRequest struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	Code           string          `json:"code"`
	ExpirationDate string          `json:"expiration_date"` // ISO 8601 (YYYY-MM-DD)
	QuantityTotal  int64           `json:"quantity_total"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ShipmentRef    string          `json:"shipment_ref"`
}

// ListLotsRequest filtros del listado de lotes.
type ListLotsRequest struct {
	ProductID     string `query:"product_id"`
	LocationID    string `query:"location_id"`
	NotExpired    bool   `query:"not_expired"`
	OnlyAvailable bool   `query:"only_available"`
	PageRequest
}

// LotResponse representación de un lote en respuestas HTTP.
type LotResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	LocationID        string          `json:"location_id"`
	Code              string          `json:"code"`
	ExpirationDate    string          `json:"expiration_date"`
	QuantityTotal     int64           `json:"quantity_total"`
	QuantityAvailable int64           `json:"quantity_available"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	ShipmentRef       string          `json:"shipment_ref,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToLotResponse mapea la entidad al DTO de respuesta.
func ToLotResponse(l *entity.Lot) LotResponse {
	return LotResponse{
		ID:                l.ID,
		ProductID:         l.ProductID,
		LocationID:        l.LocationID,
		Code:              l.Code,
		ExpirationDate:    l.ExpirationDate.Format("2006-01-02"),
		QuantityTotal:     l.QuantityTotal,
		QuantityAvailable: l.QuantityAvailable,
		UnitCost:          l.UnitCost,
		ShipmentRef:       l.ShipmentRef,
		CreatedAt:         l.CreatedAt,
	}
}
