package dto

// NearExpirationRequest parámetros del reporte de proximidad a vencimiento.
type NearExpirationRequest struct {
	LocationID string `query:"location_id"`
	ProductID  string `query:"product_id"`
	AsOf       string `query:"as_of"`       // ISO 8601 (YYYY-MM-DD); vacío = hoy
	WindowDays int    `query:"window_days"` // ancho de la ventana, por defecto 30
}

// ExpirationBucketResponse grupo (producto, fecha de vencimiento) con el total
// disponible y los lotes de origen para drill-down.
type ExpirationBucketResponse struct {
	ProductID         string   `json:"product_id"`
	ProductCode       string   `json:"product_code"`
	ProductName       string   `json:"product_name"`
	ExpirationDate    string   `json:"expiration_date"`
	DaysToExpiration  int      `json:"days_to_expiration"`
	QuantityAvailable int64    `json:"quantity_available"`
	LotIDs            []string `json:"lot_ids"`
	ShipmentRefs      []string `json:"shipment_refs,omitempty"`
}

// ShiftWindowRequest parámetros del reporte por turno (A/B/C).
type ShiftWindowRequest struct {
	LocationID string `query:"location_id"`
	Shift      string `query:"shift"` // A | B | C
	AsOf       string `query:"as_of"` // ISO 8601 (YYYY-MM-DD); vacío = hoy
	PageRequest
}
