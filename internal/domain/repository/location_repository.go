package repository

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// LocationRepository puerto de solo lectura sobre el maestro de centros de
// distribución y ubicaciones.
type LocationRepository interface {
	GetByID(id string) (*entity.Location, error)
	GetByCode(code string) (*entity.Location, error)
	List(limit, offset int) ([]*entity.Location, error)
}
