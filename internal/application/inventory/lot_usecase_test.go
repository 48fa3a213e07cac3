package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

func TestCreateLot_RegistraLoteYAsientaIN(t *testing.T) {
	env := newTestEnv()
	expiration := time.Now().AddDate(0, 2, 0)

	lot, err := env.createLot("L-2025-001", expiration, 100)
	require.NoError(t, err)
	require.NotNil(t, lot)

	assert.Equal(t, int64(100), lot.QuantityTotal)
	assert.Equal(t, int64(100), lot.QuantityAvailable,
		"el lote nace con todo su total disponible")

	// El alta asienta el IN de la recepción en la misma transacción.
	movs := env.lotMovements(lot.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, int64(100), movs[0].Delta)
	assert.Equal(t, int64(0), movs[0].QuantityBefore)
	assert.Equal(t, int64(100), movs[0].QuantityAfter)
	assert.True(t, movs[0].Applied)
	assert.Equal(t, entity.OriginTagT1, movs[0].OriginTag)
	assert.Equal(t, testUserID, movs[0].CreatedBy)
}

// El before/after del libro es acumulado por producto+ubicación, no por lote.
func TestCreateLot_SegundoLoteContinuaElLibro(t *testing.T) {
	env := newTestEnv()
	expiration := time.Now().AddDate(0, 2, 0)

	_, err := env.createLot("L-2025-001", expiration, 100)
	require.NoError(t, err)
	lot2, err := env.createLot("L-2025-002", expiration.AddDate(0, 1, 0), 50)
	require.NoError(t, err)

	movs := env.lotMovements(lot2.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(100), movs[0].QuantityBefore)
	assert.Equal(t, int64(150), movs[0].QuantityAfter)

	sum, err := env.store.Lots().SumAvailable(testProductID, testLocationID)
	require.NoError(t, err)
	assert.Equal(t, movs[0].QuantityAfter, sum,
		"el último asiento aplicado debe cuadrar con la suma de disponibles")
}

func TestCreateLot_Validaciones(t *testing.T) {
	env := newTestEnv()
	expiration := time.Now().AddDate(0, 2, 0)

	cases := []struct {
		name string
		in   appinventory.CreateLotInput
	}{
		{"sin producto", appinventory.CreateLotInput{LocationID: testLocationID, Code: "L-1", ExpirationDate: expiration, QuantityTotal: 10}},
		{"sin código", appinventory.CreateLotInput{ProductID: testProductID, LocationID: testLocationID, ExpirationDate: expiration, QuantityTotal: 10}},
		{"cantidad cero", appinventory.CreateLotInput{ProductID: testProductID, LocationID: testLocationID, Code: "L-1", ExpirationDate: expiration}},
		{"cantidad negativa", appinventory.CreateLotInput{ProductID: testProductID, LocationID: testLocationID, Code: "L-1", ExpirationDate: expiration, QuantityTotal: -5}},
		{"sin vencimiento", appinventory.CreateLotInput{ProductID: testProductID, LocationID: testLocationID, Code: "L-1", QuantityTotal: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.lotUC.CreateLot(ctx(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateLot_ProductoInexistente(t *testing.T) {
	env := newTestEnv()
	_, err := env.lotUC.CreateLot(ctx(), appinventory.CreateLotInput{
		ProductID:      "00000000-0000-0000-0000-0000000000ff",
		LocationID:     testLocationID,
		Code:           "L-1",
		ExpirationDate: time.Now().AddDate(0, 1, 0),
		QuantityTotal:  10,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelLot_SinConsumo_EliminaYCompensa(t *testing.T) {
	env := newTestEnv()
	lot, err := env.createLot("L-2025-001", time.Now().AddDate(0, 2, 0), 100)
	require.NoError(t, err)

	err = env.lotUC.CancelLot(ctx(), lot.ID, testUserID, entity.OriginTagAdmin)
	require.NoError(t, err)

	gone, err := env.store.Lots().GetByID(lot.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "el lote cancelado no debe existir")

	// El IN original queda intacto y el OUT de compensación cierra el saldo.
	movs := env.lotMovements(lot.ID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.Equal(t, int64(-100), movs[0].Delta)
	assert.Equal(t, int64(0), movs[0].QuantityAfter)
	assert.Equal(t, entity.MovementTypeIN, movs[1].Type)
}

func TestCancelLot_ConConsumo_RetornaLotInUse(t *testing.T) {
	env := newTestEnv()
	lot, err := env.createLot("L-2025-001", time.Now().AddDate(0, 2, 0), 100)
	require.NoError(t, err)

	_, err = env.allocUC.Allocate(ctx(), appinventory.AllocateInput{
		UserID:     testUserID,
		OrderRef:   "PED-1",
		ProductID:  testProductID,
		LocationID: testLocationID,
		Quantity:   10,
		LotID:      lot.ID,
	})
	require.NoError(t, err)

	err = env.lotUC.CancelLot(ctx(), lot.ID, testUserID, entity.OriginTagAdmin)
	assert.ErrorIs(t, err, domain.ErrLotInUse)

	still, err := env.store.Lots().GetByID(lot.ID)
	require.NoError(t, err)
	require.NotNil(t, still, "el lote con consumo debe seguir existiendo")
	assert.Equal(t, int64(90), still.QuantityAvailable)
}

func TestCancelLot_Inexistente(t *testing.T) {
	env := newTestEnv()
	err := env.lotUC.CancelLot(ctx(), "00000000-0000-0000-0000-0000000000ff", testUserID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
