// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con la misma semántica transaccional que la implementación
// PostgreSQL: Run trabaja sobre una copia del estado y solo la publica si el
// callback termina sin error. Se usa en tests de casos de uso y como backend
// de desarrollo sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

var (
	_ repository.LotRepository        = (*lotRepo)(nil)
	_ repository.MovementRepository   = (*movementRepo)(nil)
	_ repository.AllocationRepository = (*allocationRepo)(nil)
	_ repository.LotRepository        = (*lotView)(nil)
	_ repository.MovementRepository   = (*movementView)(nil)
	_ repository.AllocationRepository = (*allocationView)(nil)
	_ repository.ProductRepository    = (*productView)(nil)
	_ repository.LocationRepository   = (*locationView)(nil)
	_ repository.UserRepository       = (*userView)(nil)
)

// Store estado en memoria más el candado global. El candado exclusivo durante
// Run cumple la exclusión por lote que en PostgreSQL dan FOR UPDATE y el
// advisory lock del libro.
type Store struct {
	mu sync.RWMutex
	st *state
}

type state struct {
	products    map[string]*entity.Product
	locations   map[string]*entity.Location
	users       map[string]*entity.User
	lots        map[string]*entity.Lot
	movements   []*entity.Movement
	allocations map[string]*entity.Allocation
	nextSeq     int64
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func newState() *state {
	return &state{
		products:    make(map[string]*entity.Product),
		locations:   make(map[string]*entity.Location),
		users:       make(map[string]*entity.User),
		lots:        make(map[string]*entity.Lot),
		allocations: make(map[string]*entity.Allocation),
		nextSeq:     1,
	}
}

// clone copia profunda del estado (las entidades se copian por valor).
func (s *state) clone() *state {
	c := newState()
	c.nextSeq = s.nextSeq
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.locations {
		l := *v
		c.locations[k] = &l
	}
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.lots {
		l := *v
		c.lots[k] = &l
	}
	for k, v := range s.allocations {
		a := *v
		c.allocations[k] = &a
	}
	c.movements = make([]*entity.Movement, len(s.movements))
	for i, m := range s.movements {
		mc := *m
		c.movements[i] = &mc
	}
	return c
}

// SeedProduct registra un producto del maestro (solo para tests/desarrollo).
func (s *Store) SeedProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.st.products[p.ID] = &cp
}

// SeedLocation registra una ubicación del maestro (solo para tests/desarrollo).
func (s *Store) SeedLocation(l *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.st.locations[l.ID] = &cp
}

// Run ejecuta fn sobre una copia del estado bajo candado exclusivo; si fn
// retorna error la copia se descarta (rollback), si no se publica (commit).
func (s *Store) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	allocRepo repository.AllocationRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	if err := fn(&lotRepo{st: tx}, &movementRepo{st: tx}, &allocationRepo{st: tx}); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// Lots devuelve la vista de solo lectura del registro de lotes.
func (s *Store) Lots() repository.LotRepository { return &lotView{s: s} }

// Movements devuelve la vista de solo lectura del libro de movimientos.
func (s *Store) Movements() repository.MovementRepository { return &movementView{s: s} }

// Allocations devuelve la vista de solo lectura de asignaciones.
func (s *Store) Allocations() repository.AllocationRepository { return &allocationView{s: s} }

// Products devuelve la vista del maestro de productos.
func (s *Store) Products() repository.ProductRepository { return &productView{s: s} }

// Locations devuelve la vista del maestro de ubicaciones.
func (s *Store) Locations() repository.LocationRepository { return &locationView{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userView{s: s} }

// ── Implementación sobre un *state (dentro de Run, sin candados) ─────────────

type lotRepo struct{ st *state }

func (r *lotRepo) Create(lot *entity.Lot) error {
	cp := *lot
	r.st.lots[lot.ID] = &cp
	return nil
}

func (r *lotRepo) GetByID(id string) (*entity.Lot, error) {
	if l, ok := r.st.lots[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID: Run ya es exclusivo.
func (r *lotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	return r.GetByID(id)
}

func (r *lotRepo) FindByReference(code string, expiration time.Time) (*entity.Lot, error) {
	for _, l := range r.st.lots {
		if l.Code == code && sameDate(l.ExpirationDate, expiration) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *lotRepo) List(filter repository.LotFilter, limit, offset int) ([]*entity.Lot, error) {
	var list []*entity.Lot
	for _, l := range r.st.lots {
		if filter.ProductID != "" && l.ProductID != filter.ProductID {
			continue
		}
		if filter.LocationID != "" && l.LocationID != filter.LocationID {
			continue
		}
		if filter.NotExpiredAsOf != nil && l.ExpirationDate.Before(truncateDate(*filter.NotExpiredAsOf)) {
			continue
		}
		if filter.OnlyAvailable && l.QuantityAvailable <= 0 {
			continue
		}
		cp := *l
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ExpirationDate.Equal(list[j].ExpirationDate) {
			return list[i].ExpirationDate.Before(list[j].ExpirationDate)
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return page(list, limit, offset), nil
}

func (r *lotRepo) FirstExpiring(productID, locationID string, asOf time.Time) (*entity.Lot, error) {
	notExpired := truncateDate(asOf)
	list, err := r.List(repository.LotFilter{
		ProductID:      productID,
		LocationID:     locationID,
		NotExpiredAsOf: &notExpired,
		OnlyAvailable:  true,
	}, 1, 0)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r *lotRepo) UpdateAvailable(lot *entity.Lot) error {
	stored, ok := r.st.lots[lot.ID]
	if !ok {
		return nil
	}
	stored.QuantityAvailable = lot.QuantityAvailable
	return nil
}

func (r *lotRepo) Delete(id string) error {
	delete(r.st.lots, id)
	return nil
}

func (r *lotRepo) SumAvailable(productID, locationID string) (int64, error) {
	var sum int64
	for _, l := range r.st.lots {
		if l.ProductID == productID && l.LocationID == locationID {
			sum += l.QuantityAvailable
		}
	}
	return sum, nil
}

func (r *lotRepo) GroupNearExpiration(locationID, productID string, asOf time.Time, windowDays int) ([]repository.ExpirationRow, error) {
	from := truncateDate(asOf)
	to := from.AddDate(0, 0, windowDays)

	type key struct {
		productID string
		date      time.Time
	}
	groups := make(map[key]*repository.ExpirationRow)
	var lots []*entity.Lot
	for _, l := range r.st.lots {
		lots = append(lots, l)
	}
	sort.Slice(lots, func(i, j int) bool { return lots[i].CreatedAt.Before(lots[j].CreatedAt) })

	for _, l := range lots {
		if l.LocationID != locationID || l.QuantityAvailable <= 0 {
			continue
		}
		if productID != "" && l.ProductID != productID {
			continue
		}
		date := truncateDate(l.ExpirationDate)
		if date.Before(from) || date.After(to) {
			continue
		}
		k := key{productID: l.ProductID, date: date}
		row, ok := groups[k]
		if !ok {
			row = &repository.ExpirationRow{ProductID: l.ProductID, ExpirationDate: date}
			if p, found := r.st.products[l.ProductID]; found {
				row.ProductCode = p.Code
				row.ProductName = p.Name
			}
			groups[k] = row
		}
		row.QuantityAvailable += l.QuantityAvailable
		row.LotIDs = append(row.LotIDs, l.ID)
		row.ShipmentRefs = append(row.ShipmentRefs, l.ShipmentRef)
	}

	var rows []repository.ExpirationRow
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].ExpirationDate.Equal(rows[j].ExpirationDate) {
			return rows[i].ExpirationDate.Before(rows[j].ExpirationDate)
		}
		return rows[i].ProductCode < rows[j].ProductCode
	})
	return rows, nil
}

type movementRepo struct{ st *state }

func (r *movementRepo) Create(m *entity.Movement) error {
	cp := *m
	cp.Seq = r.st.nextSeq
	r.st.nextSeq++
	r.st.movements = append(r.st.movements, &cp)
	m.Seq = cp.Seq
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.st.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) LastApplied(productID, locationID string) (*entity.Movement, error) {
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if m.Applied && m.ProductID == productID && m.LocationID == locationID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.LocationID != "" && m.LocationID != filter.LocationID {
			continue
		}
		if filter.LotID != "" && m.LotID != filter.LotID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.OriginTag != "" && m.OriginTag != filter.OriginTag {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !m.CreatedAt.Before(*filter.To) {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	return page(list, limit, offset), nil
}

// LockLedger no necesita hacer nada: Run ya serializa todo el estado.
func (r *movementRepo) LockLedger(productID, locationID string) error { return nil }

type allocationRepo struct{ st *state }

func (r *allocationRepo) Create(a *entity.Allocation) error {
	cp := *a
	r.st.allocations[a.ID] = &cp
	return nil
}

func (r *allocationRepo) GetByID(id string) (*entity.Allocation, error) {
	if a, ok := r.st.allocations[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *allocationRepo) GetByOrderAndLot(orderRef, lotID string) (*entity.Allocation, error) {
	for _, a := range r.st.allocations {
		if a.OrderRef == orderRef && a.LotID == lotID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *allocationRepo) ListByOrder(orderRef string) ([]*entity.Allocation, error) {
	return r.listWhere(func(a *entity.Allocation) bool { return a.OrderRef == orderRef })
}

func (r *allocationRepo) ListByLot(lotID string) ([]*entity.Allocation, error) {
	return r.listWhere(func(a *entity.Allocation) bool { return a.LotID == lotID })
}

func (r *allocationRepo) SumByLot(lotID string) (int64, error) {
	var sum int64
	for _, a := range r.st.allocations {
		if a.LotID == lotID {
			sum += a.Quantity
		}
	}
	return sum, nil
}

func (r *allocationRepo) Delete(id string) error {
	delete(r.st.allocations, id)
	return nil
}

func (r *allocationRepo) listWhere(match func(*entity.Allocation) bool) ([]*entity.Allocation, error) {
	var list []*entity.Allocation
	for _, a := range r.st.allocations {
		if match(a) {
			cp := *a
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// ── Vistas con candado de lectura sobre el Store ─────────────────────────────

type lotView struct{ s *Store }

func (v *lotView) Create(lot *entity.Lot) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return (&lotRepo{st: v.s.st}).Create(lot)
}

func (v *lotView) GetByID(id string) (*entity.Lot, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&lotRepo{st: v.s.st}).GetByID(id)
}

func (v *lotView) GetForUpdate(id string) (*entity.Lot, error) {
	return v.GetByID(id)
}

func (v *lotView) FindByReference(code string, expiration time.Time) (*entity.Lot, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&lotRepo{st: v.s.st}).FindByReference(code, expiration)
}

func (v *lotView) List(filter repository.LotFilter, limit, offset int) ([]*entity.Lot, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&lotRepo{st: v.s.st}).List(filter, limit, offset)
}

func (v *lotView) FirstExpiring(productID, locationID string, asOf time.Time) (*entity.Lot, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&lotRepo{st: v.s.st}).FirstExpiring(productID, locationID, asOf)
}

func (v *lotView) UpdateAvailable(lot *entity.Lot) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return (&lotRepo{st: v.s.st}).UpdateAvailable(lot)
}

func (v *lotView) Delete(id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return (&lotRepo{st: v.s.st}).Delete(id)
}

func (v *lotView) SumAvailable(productID, locationID string) (int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&lotRepo{st: v.s.st}).SumAvailable(productID, locationID)
}

func (v *lotView) GroupNearExpiration(locationID, productID string, asOf time.Time, windowDays int) ([]repository.ExpirationRow, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&lotRepo{st: v.s.st}).GroupNearExpiration(locationID, productID, asOf, windowDays)
}

type movementView struct{ s *Store }

func (v *movementView) Create(m *entity.Movement) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return (&movementRepo{st: v.s.st}).Create(m)
}

func (v *movementView) GetByID(id string) (*entity.Movement, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&movementRepo{st: v.s.st}).GetByID(id)
}

func (v *movementView) LastApplied(productID, locationID string) (*entity.Movement, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&movementRepo{st: v.s.st}).LastApplied(productID, locationID)
}

func (v *movementView) List(filter repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&movementRepo{st: v.s.st}).List(filter, limit, offset)
}

func (v *movementView) LockLedger(productID, locationID string) error { return nil }

type allocationView struct{ s *Store }

func (v *allocationView) Create(a *entity.Allocation) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return (&allocationRepo{st: v.s.st}).Create(a)
}

func (v *allocationView) GetByID(id string) (*entity.Allocation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&allocationRepo{st: v.s.st}).GetByID(id)
}

func (v *allocationView) GetByOrderAndLot(orderRef, lotID string) (*entity.Allocation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&allocationRepo{st: v.s.st}).GetByOrderAndLot(orderRef, lotID)
}

func (v *allocationView) ListByOrder(orderRef string) ([]*entity.Allocation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&allocationRepo{st: v.s.st}).ListByOrder(orderRef)
}

func (v *allocationView) ListByLot(lotID string) ([]*entity.Allocation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&allocationRepo{st: v.s.st}).ListByLot(lotID)
}

func (v *allocationView) SumByLot(lotID string) (int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return (&allocationRepo{st: v.s.st}).SumByLot(lotID)
}

func (v *allocationView) Delete(id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return (&allocationRepo{st: v.s.st}).Delete(id)
}

type productView struct{ s *Store }

func (v *productView) GetByID(id string) (*entity.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if p, ok := v.s.st.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (v *productView) GetByCode(code string) (*entity.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, p := range v.s.st.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (v *productView) List(limit, offset int) ([]*entity.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var list []*entity.Product
	for _, p := range v.s.st.products {
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, limit, offset), nil
}

type locationView struct{ s *Store }

func (v *locationView) GetByID(id string) (*entity.Location, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if l, ok := v.s.st.locations[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (v *locationView) GetByCode(code string) (*entity.Location, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, l := range v.s.st.locations {
		if l.Code == code {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (v *locationView) List(limit, offset int) ([]*entity.Location, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var list []*entity.Location
	for _, l := range v.s.st.locations {
		cp := *l
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, limit, offset), nil
}

type userView struct{ s *Store }

func (v *userView) Create(user *entity.User) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	cp := *user
	v.s.st.users[user.ID] = &cp
	return nil
}

func (v *userView) GetByID(id string) (*entity.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if u, ok := v.s.st.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (v *userView) FindByEmail(email string) (*entity.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, u := range v.s.st.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
