package entity

// Product representa un producto del maestro de datos (consultado, no
// administrado por este servicio). UnitsPerPallet describe el tamaño de lote
// estándar para la recepción.
type Product struct {
	ID             string
	Code           string // código único de producto (escaneable)
	Name           string
	UnitsPerPallet int64
	UnitMeasure    string
}
