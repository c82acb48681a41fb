package entity

import "time"

// Supplier representa un proveedor (tabla ferre_proveedores).
type Supplier struct {
	ID        string
	Code      string // código corto, ej. PRV01
	Company   string // razón social que se muestra en el paso 1
	Vendor    string // vendedor asignado, opcional
	Contact   string // teléfono o email, opcional
	CreatedAt time.Time
}
