package entity

// Location representa un centro de distribución o ubicación física del maestro
// de datos (consultado, no administrado por este servicio).
type Location struct {
	ID   string
	Code string
	Name string
}
