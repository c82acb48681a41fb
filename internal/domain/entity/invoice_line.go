package entity

import "github.com/shopspring/decimal"

// SupplierInvoiceLine es una línea de detalle de factura de proveedor
// (tabla ferre_detalle_facturas_proveedores).
// ProductID es nulo para productos nuevos que aún no existían en inventario
// al momento de armar la factura.
type SupplierInvoiceLine struct {
	ID            string
	InvoiceID     string
	ProductID     string // vacío = producto nuevo
	ProductCode   string
	ProductName   string
	Quantity      decimal.Decimal
	SupplierPrice decimal.Decimal
	SalePrice     decimal.Decimal
	MarginPercent *int64 // nulo si el par de precios no coincide con ningún porcentaje conocido
	Zone          string
	IsNewProduct  bool
}
