package inventory_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// Caso de referencia: lote de 100, asignar 40 → disponible 60 y asiento OUT
// con before=100, after=60.
func TestAllocate_DescuentaYAsientaOUT(t *testing.T) {
	env := newTestEnv()
	expiration := time.Now().AddDate(0, 2, 0)
	lot, err := env.createLot("L-2025-001", expiration, 100)
	require.NoError(t, err)

	allocation, err := env.allocUC.Allocate(ctx(), appinventory.AllocateInput{
		UserID:     testUserID,
		OriginTag:  entity.OriginTagOrder,
		OrderRef:   "PED-1001",
		ProductID:  testProductID,
		LocationID: testLocationID,
		Quantity:   40,
	})
	require.NoError(t, err)
	require.NotNil(t, allocation)

	assert.Equal(t, lot.ID, allocation.LotID)
	assert.Equal(t, int64(40), allocation.Quantity)
	assert.True(t, allocation.ExpirationDate.Equal(lot.ExpirationDate),
		"la asignación guarda el snapshot del vencimiento del lote")

	after, err := env.store.Lots().GetByID(lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), after.QuantityAvailable)

	movs := env.lotMovements(lot.ID)
	require.Len(t, movs, 2)
	out := movs[0]
	assert.Equal(t, entity.MovementTypeOUT, out.Type)
	assert.Equal(t, int64(-40), out.Delta)
	assert.Equal(t, int64(100), out.QuantityBefore)
	assert.Equal(t, int64(60), out.QuantityAfter)
	assert.Equal(t, entity.OriginTagOrder, out.OriginTag)
}

func TestAllocate_CantidadInsuficiente_NoMutaNada(t *testing.T) {
	env := newTestEnv()
	lot, err := env.createLot("L-2025-001", time.Now().AddDate(0, 2, 0), 100)
	require.NoError(t, err)

	_, err = env.allocUC.Allocate(ctx(), appinventory.AllocateInput{
		UserID: testUserID, OrderRef: "PED-1", ProductID: testProductID,
		LocationID: testLocationID, Quantity: 40,
	})
	require.NoError(t, err)

	// Quedan 60; pedir 70 debe fallar sin tocar lote, libro ni asignaciones.
	_, err = env.allocUC.Allocate(ctx(), appinventory.AllocateInput{
		UserID: testUserID, OrderRef: "PED-2", ProductID: testProductID,
		LocationID: testLocationID, Quantity: 70,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	after, err := env.store.Lots().GetByID(lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), after.QuantityAvailable)
	assert.Len(t, env.lotMovements(lot.ID), 2, "el intento fallido no asienta nada")

	dup, err := env.store.Allocations().GetByOrderAndLot("PED-2", lot.ID)
	require.NoError(t, err)
	assert.Nil(t, dup)
}

func TestAllocate_DuplicadaMismoPedidoYLote(t *testing.T) {
	env := newTestEnv()
	lot, err := env.createLot("L-2025-001", time.Now().AddDate(0, 2, 0), 100)
	require.NoError(t, err)

	in := appinventory.AllocateInput{
		UserID: testUserID, OrderRef: "PED-1", ProductID: testProductID,
		LocationID: testLocationID, Quantity: 10, LotID: lot.ID,
	}
	_, err = env.allocUC.Allocate(ctx(), in)
	require.NoError(t, err)

	_, err = env.allocUC.Allocate(ctx(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicateAllocation)
}

// Sin lot_id el motor selecciona el lote no vencido con vencimiento más
// próximo; los vencidos no son elegibles.
func TestAllocate_SeleccionAutomaticaPorVencimiento(t *testing.T) {
	env := newTestEnv()
	expired, err := env.createLot("L-VENCIDO", time.Now().AddDate(0, 0, -1), 100)
	require.NoError(t, err)
	soon, err := env.createLot("L-PROXIMO", time.Now().AddDate(0, 0, 10), 100)
	require.NoError(t, err)
	_, err = env.createLot("L-LEJANO", time.Now().AddDate(0, 6, 0), 100)
	require.NoError(t, err)

	allocation, err := env.allocUC.Allocate(ctx(), appinventory.AllocateInput{
		UserID: testUserID, OrderRef: "PED-1", ProductID: testProductID,
		LocationID: testLocationID, Quantity: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, soon.ID, allocation.LotID, "debe elegir el no vencido más próximo")
	assert.NotEqual(t, expired.ID, allocation.LotID)
}

func TestAllocate_SeleccionManualRespetada(t *testing.T) {
	env := newTestEnv()
	_, err := env.createLot("L-PROXIMO", time.Now().AddDate(0, 0, 10), 100)
	require.NoError(t, err)
	far, err := env.createLot("L-LEJANO", time.Now().AddDate(0, 6, 0), 100)
	require.NoError(t, err)

	allocation, err := env.allocUC.Allocate(ctx(), appinventory.AllocateInput{
		UserID: testUserID, OrderRef: "PED-1", ProductID: testProductID,
		LocationID: testLocationID, Quantity: 20, LotID: far.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, far.ID, allocation.LotID)
}

func TestAllocate_SinLoteElegible(t *testing.T) {
	env := newTestEnv()
	// Solo existe un lote vencido.
	_, err := env.createLot("L-VENCIDO", time.Now().AddDate(0, -1, 0), 100)
	require.NoError(t, err)

	_, err = env.allocUC.Allocate(ctx(), appinventory.AllocateInput{
		UserID: testUserID, OrderRef: "PED-1", ProductID: testProductID,
		LocationID: testLocationID, Quantity: 20,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelease_DevuelveCantidadYCompensa(t *testing.T) {
	env := newTestEnv()
	lot, err := env.createLot("L-2025-001", time.Now().AddDate(0, 2, 0), 100)
	require.NoError(t, err)

	allocation, err := env.allocUC.Allocate(ctx(), appinventory.AllocateInput{
		UserID: testUserID, OriginTag: entity.OriginTagOrder, OrderRef: "PED-1",
		ProductID: testProductID, LocationID: testLocationID, Quantity: 40,
	})
	require.NoError(t, err)

	err = env.allocUC.Release(ctx(), allocation.ID, testUserID, entity.OriginTagAdmin)
	require.NoError(t, err)

	after, err := env.store.Lots().GetByID(lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), after.QuantityAvailable)

	gone, err := env.store.Allocations().GetByID(allocation.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// IN de recepción + OUT de asignación + IN de liberación; el OUT original
	// nunca se edita.
	movs := env.lotMovements(lot.ID)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, int64(40), movs[0].Delta)
	assert.Equal(t, int64(100), movs[0].QuantityAfter)
	assert.Equal(t, entity.MovementTypeOUT, movs[1].Type)
	assert.Equal(t, int64(-40), movs[1].Delta)
}

func TestRelease_AsignacionInexistente(t *testing.T) {
	env := newTestEnv()
	err := env.allocUC.Release(ctx(), "00000000-0000-0000-0000-0000000000ff", testUserID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Dos asignaciones concurrentes de 60 sobre un lote de 100: exactamente una
// debe ganar; la otra ve el disponible ya descontado.
func TestAllocate_ContencionConcurrente(t *testing.T) {
	env := newTestEnv()
	_, err := env.createLot("L-2025-001", time.Now().AddDate(0, 2, 0), 100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.allocUC.Allocate(ctx(), appinventory.AllocateInput{
				UserID:     testUserID,
				OrderRef:   "PED-" + string(rune('A'+i)),
				ProductID:  testProductID,
				LocationID: testLocationID,
				Quantity:   60,
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
			insufficient++
		}
	}
	assert.Equal(t, 1, ok, "exactamente una asignación debe ganar")
	assert.Equal(t, 1, insufficient)

	sum, err := env.store.Lots().SumAvailable(testProductID, testLocationID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), sum)
}
