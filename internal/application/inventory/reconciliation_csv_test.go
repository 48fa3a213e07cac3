package inventory_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
)

func TestReadRows_EncabezadoEnCualquierOrden(t *testing.T) {
	csv := strings.Join([]string{
		"quantity,reason,lot_reference,expiration_date,product_code",
		"-10,avería,L-2025-001,2025-12-31,SKU-001",
		"5, recuento ,L-2025-002,2026-01-15,SKU-002",
	}, "\n")

	rows, err := appinventory.ReadRows(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, appinventory.RowInput{
		LotReference:   "L-2025-001",
		ProductCode:    "SKU-001",
		ExpirationDate: "2025-12-31",
		Quantity:       "-10",
		Reason:         "avería",
	}, rows[0])
	assert.Equal(t, "recuento", rows[1].Reason, "los campos llegan sin espacios alrededor")
}

func TestReadRows_ColumnaFaltante(t *testing.T) {
	csv := "lot_reference,product_code,quantity\nL-1,SKU-001,5\n"
	_, err := appinventory.ReadRows(strings.NewReader(csv))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReadRows_SinEncabezado(t *testing.T) {
	_, err := appinventory.ReadRows(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Las filas cortas se completan vacías: el importador las rechazará por
// validación sin perder el conteo.
func TestReadRows_FilaCorta(t *testing.T) {
	csv := strings.Join([]string{
		"lot_reference,product_code,expiration_date,quantity,reason",
		"L-2025-001,SKU-001",
	}, "\n")

	rows, err := appinventory.ReadRows(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "L-2025-001", rows[0].LotReference)
	assert.Empty(t, rows[0].Quantity)
}
