package inventory

import (
	"time"

	"github.com/jhoicas/lotes-api/internal/domain"
)

// Turnos operativos fijos (horario de planta, no configurable por tenant).
const (
	ShiftA = "A" // 06:00 – 14:00
	ShiftB = "B" // 14:00 – 20:30
	ShiftC = "C" // 20:30 – 06:00 del día siguiente
)

// ShiftWindow devuelve el intervalo [from, to) del turno indicado para la
// fecha de asOf (servicio de dominio, sin estado). El turno C cruza la
// medianoche: arranca el día de asOf y termina a las 06:00 del día siguiente.
func ShiftWindow(shiftLabel string, asOf time.Time) (from, to time.Time, err error) {
	year, month, day := asOf.Date()
	loc := asOf.Location()
	at := func(hour, min int) time.Time {
		return time.Date(year, month, day, hour, min, 0, 0, loc)
	}

	switch shiftLabel {
	case ShiftA:
		return at(6, 0), at(14, 0), nil
	case ShiftB:
		return at(14, 0), at(20, 30), nil
	case ShiftC:
		return at(20, 30), at(6, 0).AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
}
