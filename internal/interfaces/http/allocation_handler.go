package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// AllocationHandler maneja asignación y liberación de cantidad de lote
// (protegido).
type AllocationHandler struct {
	uc        *appinventory.AllocateUseCase
	allocRepo repository.AllocationRepository
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(uc *appinventory.AllocateUseCase, allocRepo repository.AllocationRepository) *AllocationHandler {
	return &AllocationHandler{uc: uc, allocRepo: allocRepo}
}

// Allocate godoc
// @Summary      Asignar cantidad de lote a una línea de pedido
// @Description  Sin lot_id el motor selecciona el lote no vencido con
//
//	vencimiento más próximo y disponible > 0; con lot_id se respeta
//	la selección manual del operador.
//
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Origin-Module  header  string  false  "Subsistema de origen (T1|T2|ADMIN|ORDER)"
// @Param        body  body  dto.AllocateRequest  true  "order_ref, product_id, location_id, quantity, lot_id (opcional)"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	allocation, err := h.uc.Allocate(c.Context(), appinventory.AllocateInput{
		UserID:     GetUserID(c),
		OriginTag:  GetOriginTag(c),
		OrderRef:   in.OrderRef,
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		LotID:      in.LotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Code: "NOT_FOUND", Message: "no hay lote elegible para el producto en la ubicación",
				Context: map[string]any{"product_id": in.ProductID, "location_id": in.LocationID},
			})
		case errors.Is(err, domain.ErrInsufficientQuantity):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code: "INSUFFICIENT_QUANTITY", Message: "cantidad disponible insuficiente en el lote",
				Context: map[string]any{"quantity": in.Quantity},
			})
		case errors.Is(err, domain.ErrDuplicateAllocation):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code: "DUPLICATE_ALLOCATION", Message: "el lote ya está asignado a esa línea de pedido",
				Context: map[string]any{"order_ref": in.OrderRef},
			})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAllocationResponse(allocation))
}

// Release godoc
// @Summary      Liberar una asignación
// @Description  Devuelve la cantidad al lote con un asiento IN de compensación
//
//	y elimina la asignación. El asiento OUT original queda intacto.
//
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la asignación (UUID)"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id} [delete]
func (h *AllocationHandler) Release(c *fiber.Ctx) error {
	err := h.uc.Release(c.Context(), c.Params("id"), GetUserID(c), GetOriginTag(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "asignación no encontrada"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la liberación dejaría el lote fuera de rango"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "asignación liberada"})
}

// List godoc
// @Summary      Listar asignaciones por pedido o por lote
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        order_ref  query  string  false  "Referencia de pedido"
// @Param        lot_id     query  string  false  "ID del lote (UUID)"
// @Success      200  {array}   dto.AllocationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/allocations [get]
func (h *AllocationHandler) List(c *fiber.Ctx) error {
	orderRef := c.Query("order_ref")
	lotID := c.Query("lot_id")

	var list []*entity.Allocation
	var err error
	switch {
	case orderRef != "":
		list, err = h.allocRepo.ListByOrder(orderRef)
	case lotID != "":
		list, err = h.allocRepo.ListByLot(lotID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_ref o lot_id es requerido"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.AllocationResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.ToAllocationResponse(a))
	}
	resp := fiber.Map{"total": len(out), "allocations": out}
	if lotID != "" {
		allocated, err := h.allocRepo.SumByLot(lotID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		resp["quantity_allocated"] = allocated
	}
	return c.JSON(resp)
}
