package inventory

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/jhoicas/lotes-api/internal/domain"
)

// Columnas obligatorias del archivo de conciliación (fila de encabezado).
var csvColumns = []string{"lot_reference", "product_code", "expiration_date", "quantity", "reason"}

// ReadRows lee el dataset tabular de conciliación. Exige fila de encabezado
// con las columnas conocidas (en cualquier orden); las filas con menos campos
// se completan vacías y caerán en el rechazo por validación del importador,
// nunca abortan el lote completo.
func ReadRows(r io.Reader) ([]RowInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, domain.ErrInvalidInput
		}
	}

	field := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []RowInput
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Fila ilegible: se conserva como fila vacía para que el importador
			// la reporte en rechazadas sin perder el conteo.
			rows = append(rows, RowInput{})
			continue
		}
		rows = append(rows, RowInput{
			LotReference:   field(record, "lot_reference"),
			ProductCode:    field(record, "product_code"),
			ExpirationDate: field(record, "expiration_date"),
			Quantity:       field(record, "quantity"),
			Reason:         field(record, "reason"),
		})
	}
	return rows, nil
}
