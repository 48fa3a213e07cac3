package repository

import (
	"time"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos del libro.
type MovementFilter struct {
	ProductID  string
	LocationID string
	LotID      string
	Type       string
	OriginTag  string
	From       *time.Time
	To         *time.Time
}

// MovementRepository define el puerto del libro de movimientos (append-only).
// No hay Update ni Delete: las correcciones son entradas nuevas.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// LastApplied devuelve el último movimiento aplicado de producto+ubicación
	// (nil si no hay ninguno). Su QuantityAfter es la base del siguiente asiento.
	LastApplied(productID, locationID string) (*entity.Movement, error)
	List(filter MovementFilter, limit, offset int) ([]*entity.Movement, error)
	// LockLedger serializa el libro de producto+ubicación dentro de la
	// transacción actual; dos escritores concurrentes del mismo libro no pueden
	// calcular quantity_before sobre la misma base.
	LockLedger(productID, locationID string) error
}
