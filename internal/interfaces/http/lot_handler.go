package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// LotHandler maneja las peticiones HTTP del registro de lotes (protegido).
type LotHandler struct {
	uc           *appinventory.LotUseCase
	labels       appinventory.LabelPDFGenerator
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewLotHandler construye el handler.
func NewLotHandler(
	uc *appinventory.LotUseCase,
	labels appinventory.LabelPDFGenerator,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *LotHandler {
	return &LotHandler{uc: uc, labels: labels, productRepo: productRepo, locationRepo: locationRepo}
}

// Create godoc
// @Summary      Registrar lote desde una línea de recepción
// @Description  Crea el lote con disponible = total y asienta el movimiento IN
//
//	de la recepción en la misma transacción.
//
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Origin-Module  header  string  false  "Subsistema de origen (T1|T2|ADMIN|ORDER)"
// @Param        body  body  dto.CreateLotRequest  true  "product_id, location_id, code, expiration_date, quantity_total, unit_cost, shipment_ref"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	expiration, err := time.Parse("2006-01-02", in.ExpirationDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "expiration_date debe ser YYYY-MM-DD",
			Context: map[string]any{"expiration_date": in.ExpirationDate},
		})
	}
	lot, err := h.uc.CreateLot(c.Context(), appinventory.CreateLotInput{
		UserID:         GetUserID(c),
		OriginTag:      GetOriginTag(c),
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		Code:           in.Code,
		ExpirationDate: expiration,
		QuantityTotal:  in.QuantityTotal,
		UnitCost:       in.UnitCost,
		ShipmentRef:    in.ShipmentRef,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o ubicación no encontrado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLotResponse(lot))
}

// GetByID godoc
// @Summary      Consultar lote por ID
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote (UUID)"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	lot, err := h.uc.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToLotResponse(lot))
}

// List godoc
// @Summary      Listar lotes
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Filtrar por producto (UUID)"
// @Param        location_id     query  string  false  "Filtrar por ubicación (UUID)"
// @Param        not_expired     query  bool    false  "Solo lotes no vencidos a hoy"
// @Param        only_available  query  bool    false  "Solo lotes con disponible > 0"
// @Param        limit           query  int     false  "Tamaño de página (default 50)"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	var in dto.ListLotsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	in.DefaultPage()
	filter := repository.LotFilter{
		ProductID:     in.ProductID,
		LocationID:    in.LocationID,
		OnlyAvailable: in.OnlyAvailable,
	}
	if in.NotExpired {
		now := time.Now()
		filter.NotExpiredAsOf = &now
	}
	lots, err := h.uc.ListLots(c.Context(), filter, in.Limit, in.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.ToLotResponse(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// Cancel godoc
// @Summary      Cancelar lote sin consumo
// @Description  Elimina un lote al que nunca se le consumió cantidad y asienta
//
//	el OUT de compensación. Un lote con consumo responde 409.
//
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote (UUID)"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [delete]
func (h *LotHandler) Cancel(c *fiber.Ctx) error {
	err := h.uc.CancelLot(c.Context(), c.Params("id"), GetUserID(c), GetOriginTag(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		case errors.Is(err, domain.ErrLotInUse):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOT_IN_USE", Message: "el lote tiene cantidad consumida; no se puede eliminar"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "lote cancelado"})
}

// Label godoc
// @Summary      Etiqueta imprimible del lote
// @Description  Genera el PDF con el código de barras Code 128 de la
//
//	referencia del lote, para pegar en el pallet.
//
// @Tags         lots
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del lote (UUID)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/label [get]
func (h *LotHandler) Label(c *fiber.Ctx) error {
	lot, err := h.uc.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	product, err := h.productRepo.GetByID(lot.ProductID)
	if err != nil || product == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "producto del lote no disponible"})
	}
	location, err := h.locationRepo.GetByID(lot.LocationID)
	if err != nil || location == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "ubicación del lote no disponible"})
	}
	pdfBytes, err := h.labels.GenerateLotLabel(c.Context(), lot, product, location)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="lote-`+lot.Code+`.pdf"`)
	return c.Send(pdfBytes)
}
