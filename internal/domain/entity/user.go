package entity

import "time"

// User representa un usuario operador del sistema. Su identidad alimenta los
// campos de procedencia (created_by) de lotes, movimientos y asignaciones.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // "admin" | "operario"
	CreatedAt    time.Time
}
