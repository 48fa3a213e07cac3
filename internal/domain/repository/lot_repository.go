package repository

import (
	"time"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// LotFilter filtros para listar lotes.
type LotFilter struct {
	ProductID      string
	LocationID     string
	NotExpiredAsOf *time.Time // excluye lotes con vencimiento anterior a la fecha
	OnlyAvailable  bool       // solo lotes con quantity_available > 0
}

// ExpirationRow fila agrupada por (producto, fecha de vencimiento) para el
// reporte de proximidad a vencimiento.
type ExpirationRow struct {
	ProductID         string
	ProductCode       string
	ProductName       string
	ExpirationDate    time.Time
	QuantityAvailable int64
	LotIDs            []string
	ShipmentRefs      []string
}

// LotRepository define el puerto de persistencia del registro de lotes.
// Las mutaciones de cantidad se usan solo dentro de transacciones, después de
// bloquear la fila con GetForUpdate.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	// GetForUpdate bloquea la fila del lote para la transacción actual (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Lot, error)
	// FindByReference resuelve un lote por código + fecha de vencimiento (conciliación).
	FindByReference(code string, expiration time.Time) (*entity.Lot, error)
	List(filter LotFilter, limit, offset int) ([]*entity.Lot, error)
	// FirstExpiring devuelve el lote con vencimiento más próximo y disponible > 0
	// para producto+ubicación (política FEFO), nil si no hay candidatos.
	FirstExpiring(productID, locationID string, asOf time.Time) (*entity.Lot, error)
	// UpdateAvailable persiste la cantidad disponible ya validada por el caso de uso.
	UpdateAvailable(lot *entity.Lot) error
	Delete(id string) error
	// SumAvailable suma quantity_available de los lotes de producto+ubicación.
	SumAvailable(productID, locationID string) (int64, error)
	// GroupNearExpiration agrupa lotes vivos por (producto, vencimiento) dentro
	// de la ventana [asOf, asOf+windowDays], ordenado por vencimiento ascendente.
	GroupNearExpiration(locationID, productID string, asOf time.Time, windowDays int) ([]ExpirationRow, error)
}
