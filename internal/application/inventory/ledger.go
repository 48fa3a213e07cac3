package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// appendApplied registra un asiento aplicado en el libro de producto+ubicación.
// Toma el candado del libro, lee el último asiento aplicado y encadena
// quantity_before/quantity_after sobre él. Debe ejecutarse dentro de la misma
// transacción que la mutación del lote que respalda.
func appendApplied(movRepo repository.MovementRepository, m *entity.Movement, now time.Time) error {
	if err := movRepo.LockLedger(m.ProductID, m.LocationID); err != nil {
		return err
	}
	var before int64
	last, err := movRepo.LastApplied(m.ProductID, m.LocationID)
	if err != nil {
		return err
	}
	if last != nil {
		before = last.QuantityAfter
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.QuantityBefore = before
	m.QuantityAfter = before + m.Delta
	m.Applied = true
	m.AppliedAt = &now
	m.CreatedAt = now
	return movRepo.Create(m)
}
