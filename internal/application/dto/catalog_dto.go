package dto

import "github.com/shopspring/decimal"

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Code    string `json:"codigo"`
	Company string `json:"empresa"`
	Vendor  string `json:"vendedor,omitempty"`
	Contact string `json:"contacto,omitempty"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID      string `json:"id"`
	Code    string `json:"codigo"`
	Company string `json:"empresa"`
	Vendor  string `json:"vendedor,omitempty"`
	Contact string `json:"contacto,omitempty"`
}

// InventoryItemResponse producto del inventario en respuestas.
type InventoryItemResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"codigo"`
	ProductName   string          `json:"nombre_producto"`
	SalePrice     decimal.Decimal `json:"precio_venta"`
	SupplierPrice decimal.Decimal `json:"precio_proveedor"`
	Zone          int             `json:"zona,omitempty"`
	Stock         decimal.Decimal `json:"stock"`
	UnitType      string          `json:"unidad_paquete,omitempty"`
}

// NextCodeResponse respuesta de GET /api/inventory/next-code.
type NextCodeResponse struct {
	Code string `json:"codigo"`
}
