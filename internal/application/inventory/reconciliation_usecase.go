package inventory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// Códigos de rechazo por fila en el resultado del import.
const (
	RejectValidation   = "VALIDATION"
	RejectNotFound     = "NOT_FOUND"
	RejectInsufficient = "INSUFFICIENT_QUANTITY"
	RejectConflict     = "CONFLICT"
)

// RowInput fila cruda de conciliación: cantidad y fecha como texto, tal como
// llegaron del archivo. La fila no se persiste; solo su efecto como asiento
// BALANCE.
type RowInput struct {
	LotReference   string
	ProductCode    string
	ExpirationDate string
	Quantity       string
	Reason         string
}

// AcceptedRow fila aplicada, con los datos del maestro para el comprobante.
type AcceptedRow struct {
	LotID        string
	LotReference string
	ProductCode  string
	ProductName  string
	LocationCode string
	Delta        int64
	NewAvailable int64
}

// RejectedRow fila rechazada con su causa y la fila original para corrección.
type RejectedRow struct {
	Row     RowInput
	Code    string
	Message string
}

// ImportResult resultado del import masivo: ambas listas, nunca un fallo global.
type ImportResult struct {
	Accepted []AcceptedRow
	Rejected []RejectedRow
}

// ImportUseCase aplica conciliaciones masivas: cada fila es una transacción
// independiente que asienta un movimiento BALANCE contra el lote resuelto.
// El rechazo de una fila jamás revierte filas anteriores.
type ImportUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewImportUseCase construye el importador.
func NewImportUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *ImportUseCase {
	return &ImportUseCase{txRunner: txRunner, productRepo: productRepo, locationRepo: locationRepo}
}

// Import procesa las filas en orden. Devuelve la lista de aplicadas y la de
// rechazadas con causa; el llamador siempre recibe ambas completas.
func (uc *ImportUseCase) Import(ctx context.Context, userID, originTag string, rows []RowInput) *ImportResult {
	result := &ImportResult{
		Accepted: make([]AcceptedRow, 0, len(rows)),
		Rejected: make([]RejectedRow, 0),
	}
	for _, row := range rows {
		accepted, rejected := uc.importRow(ctx, userID, originTag, row)
		if rejected != nil {
			result.Rejected = append(result.Rejected, *rejected)
			continue
		}
		result.Accepted = append(result.Accepted, *accepted)
	}
	return result
}

// importRow valida, resuelve y aplica una fila dentro de su propia transacción.
func (uc *ImportUseCase) importRow(ctx context.Context, userID, originTag string, row RowInput) (*AcceptedRow, *RejectedRow) {
	reject := func(code, msg string) (*AcceptedRow, *RejectedRow) {
		return nil, &RejectedRow{Row: row, Code: code, Message: msg}
	}

	if row.LotReference == "" {
		return reject(RejectValidation, "lot_reference vacío")
	}
	expiration, err := time.Parse("2006-01-02", row.ExpirationDate)
	if err != nil {
		return reject(RejectValidation, "expiration_date inválida: "+row.ExpirationDate)
	}
	delta, err := strconv.ParseInt(row.Quantity, 10, 64)
	if err != nil {
		return reject(RejectValidation, "quantity inválida: "+row.Quantity)
	}
	if delta == 0 {
		return reject(RejectValidation, "quantity no puede ser cero")
	}

	product, err := uc.productRepo.GetByCode(row.ProductCode)
	if err != nil {
		return reject(RejectConflict, err.Error())
	}
	if product == nil {
		return reject(RejectNotFound, "producto no encontrado: "+row.ProductCode)
	}

	var accepted AcceptedRow
	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		_ repository.AllocationRepository,
	) error {
		lot, err := lotRepo.FindByReference(row.LotReference, expiration)
		if err != nil {
			return err
		}
		if lot == nil || lot.ProductID != product.ID {
			return domain.ErrNotFound
		}
		// Re-leer con bloqueo antes de mutar.
		lot, err = lotRepo.GetForUpdate(lot.ID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrConflict
		}
		if err := adjustAvailable(lotRepo, lot, delta); err != nil {
			return err
		}
		if err := appendApplied(movRepo, &entity.Movement{
			ProductID:  lot.ProductID,
			LocationID: lot.LocationID,
			LotID:      lot.ID,
			Type:       entity.MovementTypeBALANCE,
			Delta:      delta,
			OriginTag:  originTag,
			Reason:     row.Reason,
			UnitCost:   lot.UnitCost,
			CreatedBy:  userID,
		}, time.Now()); err != nil {
			return err
		}
		accepted = AcceptedRow{
			LotID:        lot.ID,
			LotReference: lot.Code,
			ProductCode:  product.Code,
			ProductName:  product.Name,
			Delta:        delta,
			NewAvailable: lot.QuantityAvailable,
		}
		if location, err := uc.locationRepo.GetByID(lot.LocationID); err == nil && location != nil {
			accepted.LocationCode = location.Code
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return reject(RejectNotFound, "lote no encontrado: "+row.LotReference+" / "+row.ExpirationDate)
		case errors.Is(err, domain.ErrInsufficientQuantity):
			return reject(RejectInsufficient, "el ajuste deja el disponible fuera de rango")
		default:
			return reject(RejectConflict, err.Error())
		}
	}
	return &accepted, nil
}
