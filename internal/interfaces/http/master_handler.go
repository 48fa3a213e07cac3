package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// MasterHandler lectura de los maestros de productos y ubicaciones. Los
// maestros pertenecen a otro sistema; aquí solo se consultan.
type MasterHandler struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewMasterHandler construye el handler.
func NewMasterHandler(productRepo repository.ProductRepository, locationRepo repository.LocationRepository) *MasterHandler {
	return &MasterHandler{productRepo: productRepo, locationRepo: locationRepo}
}

// ListProducts godoc
// @Summary      Listar productos del maestro
// @Tags         master
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *MasterHandler) ListProducts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToProductResponse(p))
	}
	return c.JSON(fiber.Map{"total": len(out), "products": out})
}

// ListLocations godoc
// @Summary      Listar centros de distribución del maestro
// @Tags         master
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *MasterHandler) ListLocations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.locationRepo.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.ToLocationResponse(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "locations": out})
}
