package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
)

// ReconciliationHandler maneja el import masivo de conciliaciones (protegido).
type ReconciliationHandler struct {
	uc *appinventory.ImportUseCase
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(uc *appinventory.ImportUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{uc: uc}
}

// Import godoc
// @Summary      Importar conciliación (filas JSON)
// @Description  Aplica cada fila en su propia transacción como asiento
//
//	BALANCE. El rechazo de una fila nunca revierte las anteriores;
//	la respuesta trae ambas listas completas.
//
// @Tags         reconciliation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Origin-Module  header  string  false  "Subsistema de origen (T1|T2|ADMIN|ORDER)"
// @Param        body  body  dto.ImportReconciliationRequest  true  "filas: lot_reference, product_code, expiration_date, quantity, reason"
// @Success      200   {object}  dto.ImportReconciliationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reconciliation/import [post]
func (h *ReconciliationHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportReconciliationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rows no puede estar vacío"})
	}
	rows := make([]appinventory.RowInput, 0, len(in.Rows))
	for _, r := range in.Rows {
		rows = append(rows, appinventory.RowInput{
			LotReference:   r.LotReference,
			ProductCode:    r.ProductCode,
			ExpirationDate: r.ExpirationDate,
			Quantity:       r.Quantity,
			Reason:         r.Reason,
		})
	}
	result := h.uc.Import(c.Context(), GetUserID(c), GetOriginTag(c), rows)
	return c.JSON(toImportResponse(result))
}

// Upload godoc
// @Summary      Importar conciliación (archivo CSV)
// @Description  Variante multipart del import: el archivo debe traer fila de
//
//	encabezado con lot_reference, product_code, expiration_date,
//	quantity y reason en cualquier orden.
//
// @Tags         reconciliation
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Origin-Module  header  string  false  "Subsistema de origen (T1|T2|ADMIN|ORDER)"
// @Param        file  formData  file  true  "Archivo CSV de conciliación"
// @Success      200   {object}  dto.ImportReconciliationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reconciliation/upload [post]
func (h *ReconciliationHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo 'file' requerido"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo"})
	}
	defer file.Close()

	rows, err := appinventory.ReadRows(file)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "encabezado inválido: se esperan lot_reference, product_code, expiration_date, quantity, reason",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el archivo no tiene filas de datos"})
	}
	result := h.uc.Import(c.Context(), GetUserID(c), GetOriginTag(c), rows)
	return c.JSON(toImportResponse(result))
}

func toImportResponse(result *appinventory.ImportResult) dto.ImportReconciliationResponse {
	out := dto.ImportReconciliationResponse{
		Accepted:      make([]dto.AcceptedRowResponse, 0, len(result.Accepted)),
		Rejected:      make([]dto.RejectedRowResponse, 0, len(result.Rejected)),
		AcceptedCount: len(result.Accepted),
		RejectedCount: len(result.Rejected),
	}
	for _, a := range result.Accepted {
		out.Accepted = append(out.Accepted, dto.AcceptedRowResponse{
			LotID:        a.LotID,
			LotReference: a.LotReference,
			ProductCode:  a.ProductCode,
			ProductName:  a.ProductName,
			LocationCode: a.LocationCode,
			Delta:        a.Delta,
			NewAvailable: a.NewAvailable,
		})
	}
	for _, r := range result.Rejected {
		out.Rejected = append(out.Rejected, dto.RejectedRowResponse{
			Row: dto.ReconciliationRowRequest{
				LotReference:   r.Row.LotReference,
				ProductCode:    r.Row.ProductCode,
				ExpirationDate: r.Row.ExpirationDate,
				Quantity:       r.Row.Quantity,
				Reason:         r.Row.Reason,
			},
			Code:    r.Code,
			Message: r.Message,
		})
	}
	return out
}
