package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo lectura del maestro de centros de distribución sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// GetByID obtiene una ubicación por ID (nil si no existe).
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.scanOne(r.q.QueryRow(context.Background(),
		`SELECT id, code, name FROM locations WHERE id = $1`, id), "get location")
}

// GetByCode obtiene una ubicación por código (nil si no existe).
func (r *LocationRepo) GetByCode(code string) (*entity.Location, error) {
	return r.scanOne(r.q.QueryRow(context.Background(),
		`SELECT id, code, name FROM locations WHERE code = $1`, code), "get location by code")
}

// List lista ubicaciones ordenadas por código.
func (r *LocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, code, name FROM locations ORDER BY code ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Code, &l.Name); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *LocationRepo) scanOne(row pgx.Row, op string) (*entity.Location, error) {
	var l entity.Location
	if err := row.Scan(&l.ID, &l.Code, &l.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}
