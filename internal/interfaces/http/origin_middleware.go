package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// LocalOriginTag key del subsistema de origen en c.Locals.
const LocalOriginTag = "origin_tag"

// HeaderOriginModule header con el subsistema que origina la petición.
const HeaderOriginModule = "X-Origin-Module"

// OriginMiddleware lee el header X-Origin-Module y lo deja en c.Locals como
// etiqueta de procedencia para los asientos del libro. La etiqueta solo
// clasifica para auditoría: ningún handler bifurca lógica por ella. El header
// es opcional; un valor fuera del catálogo se rechaza para no ensuciar el
// libro con etiquetas libres.
func OriginMiddleware() fiber.Handler {
	valid := map[string]bool{
		entity.OriginTagT1:    true,
		entity.OriginTagT2:    true,
		entity.OriginTagAdmin: true,
		entity.OriginTagOrder: true,
	}
	return func(c *fiber.Ctx) error {
		tag := strings.ToUpper(strings.TrimSpace(c.Get(HeaderOriginModule)))
		if tag != "" && !valid[tag] {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "INVALID_ORIGIN",
				Message: "X-Origin-Module debe ser T1, T2, ADMIN u ORDER",
				Context: map[string]any{"origin": tag},
			})
		}
		c.Locals(LocalOriginTag, tag)
		return c.Next()
	}
}

// GetOriginTag devuelve la etiqueta de origen del contexto (puede ser vacía).
func GetOriginTag(c *fiber.Ctx) string {
	v := c.Locals(LocalOriginTag)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
