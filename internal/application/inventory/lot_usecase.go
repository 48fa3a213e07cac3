package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// LotUseCase administra el registro de lotes: alta desde recepción, consulta
// y cancelación. El alta y la cancelación pasan por el camino transaccional
// lote+libro; la única primitiva de mutación de cantidad es adjustAvailable.
type LotUseCase struct {
	txRunner     TxRunner
	lotRepo      repository.LotRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(
	txRunner TxRunner,
	lotRepo repository.LotRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *LotUseCase {
	return &LotUseCase{
		txRunner:     txRunner,
		lotRepo:      lotRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// CreateLotInput entrada para registrar un lote desde una línea de recepción.
type CreateLotInput struct {
	UserID         string
	OriginTag      string
	ProductID      string
	LocationID     string
	Code           string
	ExpirationDate time.Time
	QuantityTotal  int64
	UnitCost       decimal.Decimal
	ShipmentRef    string
}

// CreateLot registra el lote con quantity_available = quantity_total y asienta
// el movimiento IN de la recepción en la misma transacción, para que el último
// asiento aplicado del libro siempre cuadre con la suma de disponibles.
func (uc *LotUseCase) CreateLot(ctx context.Context, in CreateLotInput) (*entity.Lot, error) {
	if in.ProductID == "" || in.LocationID == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.QuantityTotal <= 0 || in.ExpirationDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil || location == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	lot := &entity.Lot{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		LocationID:        in.LocationID,
		Code:              in.Code,
		ExpirationDate:    in.ExpirationDate,
		QuantityTotal:     in.QuantityTotal,
		QuantityAvailable: in.QuantityTotal,
		UnitCost:          in.UnitCost,
		ShipmentRef:       in.ShipmentRef,
		CreatedAt:         now,
		CreatedBy:         in.UserID,
	}

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		_ repository.AllocationRepository,
	) error {
		if err := lotRepo.Create(lot); err != nil {
			return err
		}
		return appendApplied(movRepo, &entity.Movement{
			ProductID:  lot.ProductID,
			LocationID: lot.LocationID,
			LotID:      lot.ID,
			Type:       entity.MovementTypeIN,
			Delta:      lot.QuantityTotal,
			OriginTag:  in.OriginTag,
			Reason:     "recepción " + in.ShipmentRef,
			UnitCost:   lot.UnitCost,
			CreatedBy:  in.UserID,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// GetLot devuelve un lote por ID o ErrNotFound.
func (uc *LotUseCase) GetLot(ctx context.Context, id string) (*entity.Lot, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

// ListLots lista lotes según el filtro, con paginación.
func (uc *LotUseCase) ListLots(ctx context.Context, filter repository.LotFilter, limit, offset int) ([]*entity.Lot, error) {
	return uc.lotRepo.List(filter, limit, offset)
}

// CancelLot elimina un lote sin consumo y asienta el OUT de compensación.
// Un lote con cantidad ya consumida no se puede eliminar (ErrLotInUse):
// el historial del libro lo referencia.
func (uc *LotUseCase) CancelLot(ctx context.Context, id, userID, originTag string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		_ repository.AllocationRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if lot.Consumed() {
			return domain.ErrLotInUse
		}
		if err := lotRepo.Delete(lot.ID); err != nil {
			return err
		}
		return appendApplied(movRepo, &entity.Movement{
			ProductID:  lot.ProductID,
			LocationID: lot.LocationID,
			LotID:      lot.ID,
			Type:       entity.MovementTypeOUT,
			Delta:      -lot.QuantityAvailable,
			OriginTag:  originTag,
			Reason:     "cancelación de lote " + lot.Code,
			UnitCost:   lot.UnitCost,
			CreatedBy:  userID,
		}, now)
	})
}

// adjustAvailable aplica un delta sobre quantity_available del lote ya
// bloqueado, validando el invariante 0 <= disponible <= total. Es la única
// primitiva de mutación de cantidad del registro de lotes.
func adjustAvailable(lotRepo repository.LotRepository, lot *entity.Lot, delta int64) error {
	next := lot.QuantityAvailable + delta
	if next < 0 || next > lot.QuantityTotal {
		return domain.ErrInsufficientQuantity
	}
	lot.QuantityAvailable = next
	return lotRepo.UpdateAvailable(lot)
}
