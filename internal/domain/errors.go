package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrInsufficientQuantity = errors.New("cantidad disponible insuficiente")
	ErrDuplicateAllocation  = errors.New("el lote ya está asignado a esa línea de pedido")
	ErrLotInUse             = errors.New("el lote tiene cantidad consumida")
	ErrConflict             = errors.New("conflicto de concurrencia, reintente la operación")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
)
