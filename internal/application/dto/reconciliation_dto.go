package dto

// ReconciliationRowRequest fila cruda de una conciliación masiva, tal como
// llega del archivo o del cuerpo JSON. Cantidad y fecha viajan como texto:
// la validación por fila pertenece al importador.
type ReconciliationRowRequest struct {
	LotReference   string `json:"lot_reference"`
	ProductCode    string `json:"product_code"`
	ExpirationDate string `json:"expiration_date"` // ISO 8601 (YYYY-MM-DD)
	Quantity       string `json:"quantity"`        // entero con signo
	Reason         string `json:"reason"`
}

// ImportReconciliationRequest cuerpo JSON del import masivo.
type ImportReconciliationRequest struct {
	Rows []ReconciliationRowRequest `json:"rows"`
}

// AcceptedRowResponse fila aplicada, con los datos del maestro para el
// comprobante legible del operador.
type AcceptedRowResponse struct {
	LotID        string `json:"lot_id"`
	LotReference string `json:"lot_reference"`
	ProductCode  string `json:"product_code"`
	ProductName  string `json:"product_name"`
	LocationCode string `json:"location_code"`
	Delta        int64  `json:"delta"`
	NewAvailable int64  `json:"new_available"`
}

// RejectedRowResponse fila rechazada con su causa y los valores originales
// para que el operador los corrija.
type RejectedRowResponse struct {
	Row     ReconciliationRowRequest `json:"row"`
	Code    string                   `json:"code"` // VALIDATION | NOT_FOUND | INSUFFICIENT_QUANTITY | CONFLICT
	Message string                   `json:"message"`
}

// ImportReconciliationResponse resultado del import: ambas listas más contadores.
type ImportReconciliationResponse struct {
	Accepted      []AcceptedRowResponse `json:"accepted"`
	Rejected      []RejectedRowResponse `json:"rejected"`
	AcceptedCount int                   `json:"accepted_count"`
	RejectedCount int                   `json:"rejected_count"`
}
