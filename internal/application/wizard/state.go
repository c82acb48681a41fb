// Package wizard implementa el asistente de ingreso de facturas de
// proveedores: una máquina de 5 pasos (proveedor → datos de factura → método
// de pago → productos → resumen) con validación por paso, borrador persistente
// para recuperación ante cierres inesperados y armado del payload final.
//
// La máquina (State) es lógica pura de estado y transición; la capa HTTP solo
// proyecta el estado y enruta intenciones del shell de UI.
package wizard

import (
	"github.com/shopspring/decimal"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
)

// Pasos del asistente.
const (
	StepSupplier    = 1
	StepInvoiceMeta = 2
	StepPayment     = 3
	StepLineItems   = 4
	StepSummary     = 5
)

// TaxRate IVA fijo del 15% aplicado en el resumen.
var TaxRate = decimal.NewFromFloat(0.15)

// SupplierRef proveedor seleccionado en el paso 1. Los tags JSON coinciden
// con el esquema histórico del documento de borrador.
type SupplierRef struct {
	ID      string `json:"id"`
	Code    string `json:"codigo"`
	Company string `json:"empresa"`
}

// InvoiceMeta campos del paso 2. Las fechas se guardan siempre normalizadas
// a YYYY-MM-DD sin importar el formato en que llegaron.
type InvoiceMeta struct {
	Number    string `json:"numero"`
	IssueDate string `json:"fechaEmision"`
	DueDate   string `json:"fechaVencimiento"`
	Notes     string `json:"notas"`
}

// LineItem una línea de producto dentro del borrador de factura.
// El código es clave de negocio única dentro de la lista: agregar un código
// repetido incrementa la cantidad de la línea existente en lugar de duplicarla.
type LineItem struct {
	ProductID     string          `json:"producto_id"` // vacío = producto nuevo
	Code          string          `json:"codigo"`
	Name          string          `json:"nombre"` // siempre en mayúsculas
	Quantity      decimal.Decimal `json:"cantidad"`
	SupplierPrice decimal.Decimal `json:"precio_proveedor"`
	SalePrice     decimal.Decimal `json:"precio_venta"`
	MarginPercent *int64          `json:"porcentaje_ganancia"` // nulo si no coincide con ningún porcentaje conocido
	Zone          string          `json:"zona"`
	UnitType      string          `json:"unidad_paquete,omitempty"`
	IsNewProduct  bool            `json:"es_producto_nuevo"`
	Subtotal      decimal.Decimal `json:"subtotal"` // cantidad * precio_proveedor
}

// State agregado mutable del asistente; vive lo que dura un borrador de
// factura. El snapshot de inventario es de solo lectura y se carga una vez
// por sesión, exclusivamente para búsqueda y emparejamiento.
type State struct {
	CurrentStep   int
	Supplier      *SupplierRef
	PaymentMethod string // "" | PLAZO | CONTADO - EFECTIVO | CONTADO - TRANSFERENCIA
	LineItems     []LineItem
	Discount      decimal.Decimal
	Meta          InvoiceMeta

	Inventory []*entity.InventoryItem
}

// NewState crea un estado vacío posicionado en el paso 1.
func NewState(inventory []*entity.InventoryItem) *State {
	return &State{
		CurrentStep: StepSupplier,
		Discount:    decimal.Zero,
		Inventory:   inventory,
	}
}

// Reset vuelve al estado vacío. Con keepCatalogs se conserva el snapshot de
// inventario (reinicio posterior a un guardado exitoso); sin él se descarta
// todo (reinicio explícito del usuario).
func (s *State) Reset(keepCatalogs bool) {
	inventory := s.Inventory
	*s = State{
		CurrentStep: StepSupplier,
		Discount:    decimal.Zero,
	}
	if keepCatalogs {
		s.Inventory = inventory
	}
}

// Totals calcula subtotal, IVA (15%) y total del resumen.
// El total nunca es negativo sin importar el descuento.
func (s *State) Totals() (subtotal, tax, total decimal.Decimal) {
	for _, item := range s.LineItems {
		subtotal = subtotal.Add(item.Subtotal)
	}
	tax = subtotal.Mul(TaxRate)
	total = subtotal.Add(tax).Sub(s.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return subtotal, tax, total
}
