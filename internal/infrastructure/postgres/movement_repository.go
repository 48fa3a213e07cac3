package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Tabla append-only: sin UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, seq, product_id, location_id, lot_id, type, delta,
	quantity_before, quantity_after, origin_tag, reason, unit_cost,
	applied, applied_at, created_at, created_by`

// Create asienta un movimiento y captura el seq asignado por la secuencia.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, location_id, lot_id, type, delta, quantity_before, quantity_after, origin_tag, reason, unit_cost, applied, applied_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		m.ID, m.ProductID, m.LocationID, nullable(m.LotID), m.Type, m.Delta,
		m.QuantityBefore, m.QuantityAfter, nullable(m.OriginTag), nullable(m.Reason),
		m.UnitCost, m.Applied, m.AppliedAt, m.CreatedAt, nullable(m.CreatedBy),
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// LastApplied devuelve el último asiento aplicado de producto+ubicación
// (nil si no hay ninguno).
func (r *MovementRepo) LastApplied(productID, locationID string) (*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE product_id = $1 AND location_id = $2 AND applied
		ORDER BY seq DESC
		LIMIT 1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last applied movement: %w", err)
	}
	return m, nil
}

// List lista movimientos según filtro, más recientes primero.
func (r *MovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, val any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if filter.ProductID != "" {
		add("product_id = $%d", filter.ProductID)
	}
	if filter.LocationID != "" {
		add("location_id = $%d", filter.LocationID)
	}
	if filter.LotID != "" {
		add("lot_id = $%d", filter.LotID)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.OriginTag != "" {
		add("origin_tag = $%d", filter.OriginTag)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at < $%d", *filter.To)
	}
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// LockLedger serializa el libro de producto+ubicación dentro de la transacción
// actual mediante un advisory lock transaccional. Dos escritores del mismo
// libro no pueden calcular quantity_before sobre la misma base.
func (r *MovementRepo) LockLedger(productID, locationID string) error {
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, productID, locationID)
	if err != nil {
		return fmt.Errorf("lock ledger: %w", err)
	}
	return nil
}

func scanMovement(row rowScanner) (*entity.Movement, error) {
	var m entity.Movement
	var lotID, originTag, reason, createdBy *string
	if err := row.Scan(&m.ID, &m.Seq, &m.ProductID, &m.LocationID, &lotID, &m.Type,
		&m.Delta, &m.QuantityBefore, &m.QuantityAfter, &originTag, &reason,
		&m.UnitCost, &m.Applied, &m.AppliedAt, &m.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	if lotID != nil {
		m.LotID = *lotID
	}
	if originTag != nil {
		m.OriginTag = *originTag
	}
	if reason != nil {
		m.Reason = *reason
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
