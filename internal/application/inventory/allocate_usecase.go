package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// AllocateUseCase consume cantidad de lotes para cumplir demanda (líneas de
// pedido) y la devuelve al liberar. Cada operación es una unidad transaccional:
// ajuste del lote, asiento en el libro y asignación se confirman o descartan
// juntos, con la fila del lote bloqueada (SELECT FOR UPDATE).
type AllocateUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewAllocateUseCase construye el caso de uso.
func NewAllocateUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *AllocateUseCase {
	return &AllocateUseCase{txRunner: txRunner, productRepo: productRepo}
}

// AllocateInput entrada para asignar cantidad a una línea de pedido.
// LotID vacío activa la selección automática por vencimiento más próximo
// (FEFO); si viene, se respeta la selección manual del operador.
type AllocateInput struct {
	UserID     string
	OriginTag  string
	OrderRef   string
	ProductID  string
	LocationID string
	Quantity   int64
	LotID      string
}

// Allocate resuelve el lote candidato, verifica disponibilidad y duplicidad,
// y aplica de forma atómica: lote -qty, asiento OUT y alta de la asignación
// con snapshot de la fecha de vencimiento.
func (uc *AllocateUseCase) Allocate(ctx context.Context, in AllocateInput) (*entity.Allocation, error) {
	if in.OrderRef == "" || in.ProductID == "" || in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var allocation *entity.Allocation

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		allocRepo repository.AllocationRepository,
	) error {
		lot, err := uc.resolveLot(lotRepo, in, now)
		if err != nil {
			return err
		}

		existing, err := allocRepo.GetByOrderAndLot(in.OrderRef, lot.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateAllocation
		}

		if err := adjustAvailable(lotRepo, lot, -in.Quantity); err != nil {
			return err
		}
		if err := appendApplied(movRepo, &entity.Movement{
			ProductID:  lot.ProductID,
			LocationID: lot.LocationID,
			LotID:      lot.ID,
			Type:       entity.MovementTypeOUT,
			Delta:      -in.Quantity,
			OriginTag:  in.OriginTag,
			Reason:     "asignación pedido " + in.OrderRef,
			UnitCost:   lot.UnitCost,
			CreatedBy:  in.UserID,
		}, now); err != nil {
			return err
		}

		allocation = &entity.Allocation{
			ID:             uuid.New().String(),
			OrderRef:       in.OrderRef,
			LotID:          lot.ID,
			Quantity:       in.Quantity,
			ExpirationDate: lot.ExpirationDate,
			CreatedAt:      now,
			CreatedBy:      in.UserID,
		}
		return allocRepo.Create(allocation)
	})
	if err != nil {
		return nil, err
	}
	return allocation, nil
}

// resolveLot devuelve el lote candidato bloqueado para update. Con LotID
// explícito valida que pertenezca al producto+ubicación solicitados; sin él
// selecciona el lote no vencido con vencimiento más próximo y disponible > 0.
func (uc *AllocateUseCase) resolveLot(lotRepo repository.LotRepository, in AllocateInput, now time.Time) (*entity.Lot, error) {
	if in.LotID != "" {
		lot, err := lotRepo.GetForUpdate(in.LotID)
		if err != nil {
			return nil, err
		}
		if lot == nil || lot.ProductID != in.ProductID || lot.LocationID != in.LocationID {
			return nil, domain.ErrNotFound
		}
		return lot, nil
	}

	candidate, err := lotRepo.FirstExpiring(in.ProductID, in.LocationID, now)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domain.ErrNotFound
	}
	// Re-leer con bloqueo: la selección FEFO corre sin candado.
	lot, err := lotRepo.GetForUpdate(candidate.ID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrConflict
	}
	return lot, nil
}

// Release revierte una asignación: devuelve la cantidad al lote, asienta el IN
// de compensación y elimina la asignación. El asiento OUT original queda
// intacto; el libro nunca se edita.
func (uc *AllocateUseCase) Release(ctx context.Context, allocationID, userID, originTag string) error {
	if allocationID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		allocRepo repository.AllocationRepository,
	) error {
		allocation, err := allocRepo.GetByID(allocationID)
		if err != nil {
			return err
		}
		if allocation == nil {
			return domain.ErrNotFound
		}
		lot, err := lotRepo.GetForUpdate(allocation.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			// La asignación referencia un lote que ya no existe: estado inconsistente.
			return domain.ErrConflict
		}
		if err := adjustAvailable(lotRepo, lot, allocation.Quantity); err != nil {
			return domain.ErrConflict
		}
		if err := appendApplied(movRepo, &entity.Movement{
			ProductID:  lot.ProductID,
			LocationID: lot.LocationID,
			LotID:      lot.ID,
			Type:       entity.MovementTypeIN,
			Delta:      allocation.Quantity,
			OriginTag:  originTag,
			Reason:     "liberación pedido " + allocation.OrderRef,
			UnitCost:   lot.UnitCost,
			CreatedBy:  userID,
		}, now); err != nil {
			return err
		}
		return allocRepo.Delete(allocation.ID)
	})
}
