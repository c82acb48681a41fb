package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa una fila de ferre_inventario.
// Code es la clave natural de la reconciliación: único por producto y el único
// campo por el que el asistente de ingreso empareja líneas con inventario.
type InventoryItem struct {
	ID            string
	Code          string
	ProductName   string
	SalePrice     decimal.Decimal // precio (venta al público)
	SupplierPrice decimal.Decimal // precio_proveedor (último costo)
	Zone          int             // zona física de la bodega; 0 = sin asignar
	Stock         decimal.Decimal
	MinStock      decimal.Decimal
	UnitType      string // unidad_paquete: UNIDADES, PAQUETE, etc.
	SupplierID    string
	UpdatedAt     time.Time
}
