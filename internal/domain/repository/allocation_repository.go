package repository

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// AllocationRepository define el puerto de persistencia de asignaciones
// (cantidad de lote consumida por una línea de pedido).
type AllocationRepository interface {
	Create(allocation *entity.Allocation) error
	GetByID(id string) (*entity.Allocation, error)
	// GetByOrderAndLot busca la asignación de (orderRef, lotID); nil si no existe.
	GetByOrderAndLot(orderRef, lotID string) (*entity.Allocation, error)
	ListByOrder(orderRef string) ([]*entity.Allocation, error)
	ListByLot(lotID string) ([]*entity.Allocation, error)
	// SumByLot suma la cantidad viva asignada contra un lote.
	SumByLot(lotID string) (int64, error)
	Delete(id string) error
}
