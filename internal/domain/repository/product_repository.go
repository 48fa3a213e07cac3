package repository

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// ProductRepository puerto de solo lectura sobre el maestro de productos
// (propiedad de otro sistema; este servicio solo consulta).
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
