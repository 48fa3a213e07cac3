package reporting

import (
	"context"
	"time"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	domaininv "github.com/jhoicas/lotes-api/internal/domain/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// ExpirationUseCase reportes de solo lectura sobre el registro de lotes y el
// libro de movimientos. Opera sin candados: para reportar basta una vista
// eventualmente consistente con las mutaciones en vuelo.
type ExpirationUseCase struct {
	lotRepo      repository.LotRepository
	movRepo      repository.MovementRepository
	locationRepo repository.LocationRepository
}

// NewExpirationUseCase construye el caso de uso de reportes.
func NewExpirationUseCase(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	locationRepo repository.LocationRepository,
) *ExpirationUseCase {
	return &ExpirationUseCase{lotRepo: lotRepo, movRepo: movRepo, locationRepo: locationRepo}
}

// Bucket grupo (producto, fecha de vencimiento) con el disponible total y los
// lotes de origen para drill-down hacia la recepción.
type Bucket struct {
	ProductID         string
	ProductCode       string
	ProductName       string
	ExpirationDate    time.Time
	DaysToExpiration  int
	QuantityAvailable int64
	LotIDs            []string
	ShipmentRefs      []string
}

// NearExpiration agrupa los lotes vivos de la ubicación que vencen dentro de
// la ventana, ordenados por vencimiento ascendente.
func (uc *ExpirationUseCase) NearExpiration(ctx context.Context, locationID, productID string, asOf time.Time, windowDays int) ([]Bucket, error) {
	if locationID == "" || windowDays <= 0 {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}

	rows, err := uc.lotRepo.GroupNearExpiration(locationID, productID, asOf, windowDays)
	if err != nil {
		return nil, err
	}
	buckets := make([]Bucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, Bucket{
			ProductID:         row.ProductID,
			ProductCode:       row.ProductCode,
			ProductName:       row.ProductName,
			ExpirationDate:    row.ExpirationDate,
			DaysToExpiration:  daysBetween(asOf, row.ExpirationDate),
			QuantityAvailable: row.QuantityAvailable,
			LotIDs:            row.LotIDs,
			ShipmentRefs:      row.ShipmentRefs,
		})
	}
	return buckets, nil
}

// ShiftWindowReport lista los movimientos de la ubicación dentro del turno
// fijo (A/B/C) del día de asOf.
func (uc *ExpirationUseCase) ShiftWindowReport(ctx context.Context, locationID, shiftLabel string, asOf time.Time, limit, offset int) ([]*entity.Movement, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	from, to, err := domaininv.ShiftWindow(shiftLabel, asOf)
	if err != nil {
		return nil, err
	}
	return uc.movRepo.List(repository.MovementFilter{
		LocationID: locationID,
		From:       &from,
		To:         &to,
	}, limit, offset)
}

// daysBetween días calendario completos entre dos fechas (trunca a medianoche).
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
