package inventory_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/internal/infrastructure/memory"
)

func ctx() context.Context { return context.Background() }

func movementFilterForLot(lotID string) repository.MovementFilter {
	return repository.MovementFilter{LotID: lotID}
}

const (
	testUserID     = "00000000-0000-0000-0000-0000000000aa"
	testProductID  = "00000000-0000-0000-0000-000000000001"
	testLocationID = "00000000-0000-0000-0000-000000000002"
)

// testEnv arma el motor completo sobre el store en memoria, con un producto y
// una ubicación del maestro ya sembrados.
type testEnv struct {
	store    *memory.Store
	lotUC    *appinventory.LotUseCase
	allocUC  *appinventory.AllocateUseCase
	importUC *appinventory.ImportUseCase
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	store.SeedProduct(&entity.Product{
		ID:             testProductID,
		Code:           "SKU-001",
		Name:           "Leche entera 1L",
		UnitsPerPallet: 600,
		UnitMeasure:    "unidad",
	})
	store.SeedLocation(&entity.Location{
		ID:   testLocationID,
		Code: "CD-NORTE",
		Name: "Centro de Distribución Norte",
	})
	return &testEnv{
		store:    store,
		lotUC:    appinventory.NewLotUseCase(store, store.Lots(), store.Products(), store.Locations()),
		allocUC:  appinventory.NewAllocateUseCase(store, store.Products()),
		importUC: appinventory.NewImportUseCase(store, store.Products(), store.Locations()),
	}
}

// createLot registra un lote de prueba con los valores por defecto del caso.
func (e *testEnv) createLot(code string, expiration time.Time, quantity int64) (*entity.Lot, error) {
	return e.lotUC.CreateLot(ctx(), appinventory.CreateLotInput{
		UserID:         testUserID,
		OriginTag:      entity.OriginTagT1,
		ProductID:      testProductID,
		LocationID:     testLocationID,
		Code:           code,
		ExpirationDate: expiration,
		QuantityTotal:  quantity,
		UnitCost:       decimal.NewFromFloat(1250.50),
		ShipmentRef:    "REM-" + code,
	})
}

// lotMovements devuelve los asientos del lote, más reciente primero.
func (e *testEnv) lotMovements(lotID string) []*entity.Movement {
	list, _ := e.store.Movements().List(movementFilterForLot(lotID), 100, 0)
	return list
}
