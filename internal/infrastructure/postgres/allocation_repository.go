package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación de asignaciones sobre PostgreSQL (usable con
// pool o tx).
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

const allocationColumns = `id, order_ref, lot_id, quantity, expiration_date, created_at, created_by`

// Create persiste una asignación. La unicidad (order_ref, lot_id) la respalda
// un constraint; su violación se reporta como ErrDuplicateAllocation.
func (r *AllocationRepo) Create(a *entity.Allocation) error {
	query := `
		INSERT INTO allocations (id, order_ref, lot_id, quantity, expiration_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.OrderRef, a.LotID, a.Quantity, a.ExpirationDate, a.CreatedAt, nullable(a.CreatedBy))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAllocation
		}
		return fmt.Errorf("create allocation: %w", err)
	}
	return nil
}

// GetByID obtiene una asignación por ID (nil si no existe).
func (r *AllocationRepo) GetByID(id string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get allocation")
}

// GetByOrderAndLot busca la asignación de (orderRef, lotID); nil si no existe.
func (r *AllocationRepo) GetByOrderAndLot(orderRef, lotID string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE order_ref = $1 AND lot_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, orderRef, lotID), "get allocation by order and lot")
}

// ListByOrder lista las asignaciones de una línea de pedido.
func (r *AllocationRepo) ListByOrder(orderRef string) ([]*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE order_ref = $1 ORDER BY created_at ASC`
	return r.list(query, orderRef)
}

// ListByLot lista las asignaciones vivas contra un lote.
func (r *AllocationRepo) ListByLot(lotID string) ([]*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE lot_id = $1 ORDER BY created_at ASC`
	return r.list(query, lotID)
}

// SumByLot suma la cantidad viva asignada contra un lote.
func (r *AllocationRepo) SumByLot(lotID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM allocations WHERE lot_id = $1`, lotID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum allocations by lot: %w", err)
	}
	return sum, nil
}

// Delete elimina la asignación (liberación).
func (r *AllocationRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM allocations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AllocationRepo) list(query string, arg any) ([]*entity.Allocation, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AllocationRepo) scanOne(row pgx.Row, op string) (*entity.Allocation, error) {
	a, err := scanAllocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func scanAllocation(row rowScanner) (*entity.Allocation, error) {
	var a entity.Allocation
	var createdBy *string
	if err := row.Scan(&a.ID, &a.OrderRef, &a.LotID, &a.Quantity,
		&a.ExpirationDate, &a.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	if createdBy != nil {
		a.CreatedBy = *createdBy
	}
	return &a, nil
}
