package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del registro de lotes sobre PostgreSQL (usable con
// pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, product_id, location_id, code, expiration_date,
	quantity_total, quantity_available, unit_cost, shipment_ref, created_at, created_by`

// Create persiste un lote nuevo.
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, product_id, location_id, code, expiration_date, quantity_total, quantity_available, unit_cost, shipment_ref, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.ProductID, lot.LocationID, lot.Code, lot.ExpirationDate,
		lot.QuantityTotal, lot.QuantityAvailable, lot.UnitCost, lot.ShipmentRef,
		lot.CreatedAt, nullable(lot.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID (nil si no existe).
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lot")
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lot for update")
}

// FindByReference resuelve un lote por código + fecha de vencimiento.
func (r *LotRepo) FindByReference(code string, expiration time.Time) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE code = $1 AND expiration_date = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, code, expiration), "find lot by reference")
}

// FirstExpiring devuelve el lote no vencido con vencimiento más próximo y
// disponible > 0 para producto+ubicación (política FEFO), nil si no hay.
func (r *LotRepo) FirstExpiring(productID, locationID string, asOf time.Time) (*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE product_id = $1 AND location_id = $2
		  AND quantity_available > 0 AND expiration_date >= $3
		ORDER BY expiration_date ASC, created_at ASC
		LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, locationID, asOf), "first expiring lot")
}

// List lista lotes según filtro, ordenados por vencimiento ascendente.
func (r *LotRepo) List(filter repository.LotFilter, limit, offset int) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE 1=1`
	var args []any
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, filter.LocationID)
		pos++
	}
	if filter.NotExpiredAsOf != nil {
		query += fmt.Sprintf(" AND expiration_date >= $%d", pos)
		args = append(args, *filter.NotExpiredAsOf)
		pos++
	}
	if filter.OnlyAvailable {
		query += " AND quantity_available > 0"
	}
	query += fmt.Sprintf(" ORDER BY expiration_date ASC, created_at ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// UpdateAvailable persiste quantity_available (ya validada por el caso de uso).
func (r *LotRepo) UpdateAvailable(lot *entity.Lot) error {
	query := `UPDATE lots SET quantity_available = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, lot.ID, lot.QuantityAvailable)
	if err != nil {
		return fmt.Errorf("update lot available: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un lote (solo válido para lotes sin consumo).
func (r *LotRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return nil
}

// SumAvailable suma quantity_available de los lotes de producto+ubicación.
func (r *LotRepo) SumAvailable(productID, locationID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity_available), 0)
		FROM lots WHERE product_id = $1 AND location_id = $2`
	var sum int64
	if err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum available: %w", err)
	}
	return sum, nil
}

// GroupNearExpiration agrupa lotes vivos por (producto, vencimiento) dentro de
// la ventana, con los IDs de lote y remisiones para drill-down.
func (r *LotRepo) GroupNearExpiration(locationID, productID string, asOf time.Time, windowDays int) ([]repository.ExpirationRow, error) {
	query := `
		SELECT l.product_id, p.code, p.name, l.expiration_date,
		       COALESCE(SUM(l.quantity_available), 0),
		       array_agg(l.id ORDER BY l.created_at),
		       array_agg(COALESCE(l.shipment_ref, '') ORDER BY l.created_at)
		FROM lots l
		JOIN products p ON p.id = l.product_id
		WHERE l.location_id = $1
		  AND l.quantity_available > 0
		  AND l.expiration_date >= $2
		  AND l.expiration_date <= $2 + make_interval(days => $3)`
	args := []any{locationID, asOf, windowDays}
	if productID != "" {
		query += " AND l.product_id = $4"
		args = append(args, productID)
	}
	query += `
		GROUP BY l.product_id, p.code, p.name, l.expiration_date
		ORDER BY l.expiration_date ASC, p.code ASC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("group near expiration: %w", err)
	}
	defer rows.Close()
	var list []repository.ExpirationRow
	for rows.Next() {
		var row repository.ExpirationRow
		if err := rows.Scan(&row.ProductID, &row.ProductCode, &row.ProductName,
			&row.ExpirationDate, &row.QuantityAvailable, &row.LotIDs, &row.ShipmentRefs); err != nil {
			return nil, fmt.Errorf("scan expiration row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// rowScanner cubre pgx.Row y pgx.Rows para compartir el scan.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *LotRepo) scanOne(row pgx.Row, op string) (*entity.Lot, error) {
	lot, err := scanLot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lot, nil
}

func scanLot(row rowScanner) (*entity.Lot, error) {
	var l entity.Lot
	var shipmentRef, createdBy *string
	if err := row.Scan(&l.ID, &l.ProductID, &l.LocationID, &l.Code, &l.ExpirationDate,
		&l.QuantityTotal, &l.QuantityAvailable, &l.UnitCost, &shipmentRef,
		&l.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	if shipmentRef != nil {
		l.ShipmentRef = *shipmentRef
	}
	if createdBy != nil {
		l.CreatedBy = *createdBy
	}
	return &l, nil
}

// nullable convierte string vacío a NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
