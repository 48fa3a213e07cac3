package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// MovementHandler consulta de solo lectura del libro de movimientos
// (protegido). El libro no expone escritura directa: todo asiento nace de un
// caso de uso.
type MovementHandler struct {
	movRepo repository.MovementRepository
}

// NewMovementHandler construye el handler.
func NewMovementHandler(movRepo repository.MovementRepository) *MovementHandler {
	return &MovementHandler{movRepo: movRepo}
}

// List godoc
// @Summary      Listar movimientos del libro
// @Description  Historial inmutable, más reciente primero. from/to aceptan
//
//	RFC 3339 o YYYY-MM-DD; to es exclusivo.
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto (UUID)"
// @Param        location_id  query  string  false  "Filtrar por ubicación (UUID)"
// @Param        lot_id       query  string  false  "Filtrar por lote (UUID)"
// @Param        type         query  string  false  "IN | OUT | BALANCE"
// @Param        origin       query  string  false  "T1 | T2 | ADMIN | ORDER"
// @Param        from         query  string  false  "Desde (inclusive)"
// @Param        to           query  string  false  "Hasta (exclusivo)"
// @Param        limit        query  int     false  "Tamaño de página (default 50)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	in.DefaultPage()

	filter := repository.MovementFilter{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		LotID:      in.LotID,
		Type:       in.Type,
		OriginTag:  in.OriginTag,
	}
	if in.From != "" {
		t, err := parseTimestamp(in.From)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "from inválido", Context: map[string]any{"from": in.From}})
		}
		filter.From = &t
	}
	if in.To != "" {
		t, err := parseTimestamp(in.To)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "to inválido", Context: map[string]any{"to": in.To}})
		}
		filter.To = &t
	}

	list, err := h.movRepo.List(filter, in.Limit, in.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": dto.ToMovementResponses(list)})
}

// parseTimestamp acepta RFC 3339 o fecha simple YYYY-MM-DD.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
