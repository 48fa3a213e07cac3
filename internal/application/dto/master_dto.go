package dto

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// ProductResponse producto del maestro (solo lectura).
type ProductResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	UnitsPerPallet int64  `json:"units_per_pallet,omitempty"`
	UnitMeasure    string `json:"unit_measure,omitempty"`
}

// LocationResponse centro de distribución del maestro (solo lectura).
type LocationResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ToProductResponse mapea la entidad al DTO.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		UnitsPerPallet: p.UnitsPerPallet,
		UnitMeasure:    p.UnitMeasure,
	}
}

// ToLocationResponse mapea la entidad al DTO.
func ToLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Code: l.Code, Name: l.Name}
}
