package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/application/reporting"
	"github.com/jhoicas/lotes-api/internal/domain"
)

// ReportHandler reportes de solo lectura: proximidad a vencimiento y ventana
// por turno (protegido).
type ReportHandler struct {
	uc *reporting.ExpirationUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.ExpirationUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// NearExpiration godoc
// @Summary      Reporte de proximidad a vencimiento
// @Description  Agrupa el disponible por (producto, fecha de vencimiento)
//
//	dentro de la ventana, con los lotes de origen para drill-down.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true   "Ubicación (UUID)"
// @Param        product_id   query  string  false  "Filtrar por producto (UUID)"
// @Param        as_of        query  string  false  "Fecha de referencia YYYY-MM-DD (default hoy)"
// @Param        window_days  query  int     false  "Ancho de la ventana en días (default 30)"
// @Success      200  {array}   dto.ExpirationBucketResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/near-expiration [get]
func (h *ReportHandler) NearExpiration(c *fiber.Ctx) error {
	var in dto.NearExpirationRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	asOf := time.Now()
	if in.AsOf != "" {
		t, err := time.Parse("2006-01-02", in.AsOf)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "as_of debe ser YYYY-MM-DD", Context: map[string]any{"as_of": in.AsOf}})
		}
		asOf = t
	}
	if in.WindowDays <= 0 {
		in.WindowDays = 30
	}

	buckets, err := h.uc.NearExpiration(c.Context(), in.LocationID, in.ProductID, asOf, in.WindowDays)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id es requerido"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}

	out := make([]dto.ExpirationBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.ExpirationBucketResponse{
			ProductID:         b.ProductID,
			ProductCode:       b.ProductCode,
			ProductName:       b.ProductName,
			ExpirationDate:    b.ExpirationDate.Format("2006-01-02"),
			DaysToExpiration:  b.DaysToExpiration,
			QuantityAvailable: b.QuantityAvailable,
			LotIDs:            b.LotIDs,
			ShipmentRefs:      b.ShipmentRefs,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "buckets": out})
}

// ShiftWindow godoc
// @Summary      Movimientos de un turno operativo
// @Description  Lista los movimientos de la ubicación dentro del turno fijo
//
//	A (06:00–14:00), B (14:00–20:30) o C (20:30–06:00 del día
//	siguiente) para la fecha de referencia.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true   "Ubicación (UUID)"
// @Param        shift        query  string  true   "Turno: A | B | C"
// @Param        as_of        query  string  false  "Fecha de referencia YYYY-MM-DD (default hoy)"
// @Param        limit        query  int     false  "Tamaño de página (default 50)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/shift-window [get]
func (h *ReportHandler) ShiftWindow(c *fiber.Ctx) error {
	var in dto.ShiftWindowRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	in.DefaultPage()
	asOf := time.Now()
	if in.AsOf != "" {
		t, err := time.Parse("2006-01-02", in.AsOf)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "as_of debe ser YYYY-MM-DD", Context: map[string]any{"as_of": in.AsOf}})
		}
		asOf = t
	}

	list, err := h.uc.ShiftWindowReport(c.Context(), in.LocationID, in.Shift, asOf, in.Limit, in.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "location_id y shift (A|B|C) son requeridos",
				Context: map[string]any{"shift": in.Shift}})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": dto.ToMovementResponses(list)})
}
