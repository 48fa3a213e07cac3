package inventory

import (
	"context"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// LabelPDFGenerator genera la etiqueta imprimible de un lote (código de
// barras + datos de vencimiento) para pegar en el pallet.
type LabelPDFGenerator interface {
	GenerateLotLabel(ctx context.Context, lot *entity.Lot, product *entity.Product, location *entity.Location) ([]byte, error)
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación del lote y su
// asiento en el libro de movimientos se confirmen o descarten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		allocRepo repository.AllocationRepository,
	) error) error
}
