package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/wizard"
)

// SelectSupplierRequest body para PUT /api/ingreso/supplier.
type SelectSupplierRequest struct {
	ID      string `json:"id"`
	Code    string `json:"codigo"`
	Company string `json:"empresa"`
}

// InvoiceMetaRequest body para PUT /api/ingreso/invoice-meta.
type InvoiceMetaRequest struct {
	Number    string `json:"numero"`
	IssueDate string `json:"fecha_emision"`
	DueDate   string `json:"fecha_vencimiento"`
	Notes     string `json:"notas,omitempty"`
}

// PaymentMethodRequest body para PUT /api/ingreso/payment-method.
type PaymentMethodRequest struct {
	Method string `json:"metodo"`
}

// DiscountRequest body para PUT /api/ingreso/discount.
type DiscountRequest struct {
	Discount decimal.Decimal `json:"descuento"`
}

// AddItemRequest body para POST /api/ingreso/items (producto del inventario).
type AddItemRequest struct {
	Code string `json:"codigo"`
}

// NewProductRequest body para POST /api/ingreso/items/new.
type NewProductRequest struct {
	Code          string          `json:"codigo"`
	Name          string          `json:"nombre"`
	Quantity      decimal.Decimal `json:"cantidad"`
	SupplierPrice decimal.Decimal `json:"precio_proveedor"`
	SalePrice     decimal.Decimal `json:"precio_venta"`
	Zone          string          `json:"zona,omitempty"`
}

// UpdateItemRequest body para PUT /api/ingreso/items/:index.
// Solo el campo presente se aplica; cada campo dispara su propio recálculo.
type UpdateItemRequest struct {
	Quantity      *decimal.Decimal `json:"cantidad,omitempty"`
	Name          *string          `json:"nombre,omitempty"`
	Zone          *string          `json:"zona,omitempty"`
	SupplierPrice *decimal.Decimal `json:"precio_proveedor,omitempty"`
	SalePrice     *decimal.Decimal `json:"precio_venta,omitempty"`
}

// ApplyMarginRequest body para POST /api/ingreso/items/:index/margin.
type ApplyMarginRequest struct {
	Percent int64 `json:"porcentaje"`
}

// GoToRequest body para POST /api/ingreso/goto.
type GoToRequest struct {
	Step int `json:"paso"`
}

// WizardStateResponse proyección del estado del asistente para el shell.
type WizardStateResponse struct {
	CurrentStep   int                 `json:"paso_actual"`
	StepValid     bool                `json:"paso_valido"`
	Supplier      *wizard.SupplierRef `json:"proveedor,omitempty"`
	PaymentMethod string              `json:"metodo_pago,omitempty"`
	Meta          wizard.InvoiceMeta  `json:"factura"`
	Items         []wizard.LineItem   `json:"productos"`
	Discount      decimal.Decimal     `json:"descuento"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Tax           decimal.Decimal     `json:"iva"`
	Total         decimal.Decimal     `json:"total"`
	DateWarning   bool                `json:"advertencia_fechas,omitempty"`
	Restored      bool                `json:"borrador_restaurado,omitempty"`
}
