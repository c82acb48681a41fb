package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados por el asistente de ingreso.
const (
	PaymentPlazo               = "PLAZO"
	PaymentContadoEfectivo     = "CONTADO - EFECTIVO"
	PaymentContadoTransferecia = "CONTADO - TRANSFERENCIA"
)

// SupplierInvoice es la cabecera de una factura de proveedor
// (tabla ferre_facturas_proveedores).
// OutstandingBalance es el total cuando el pago es a plazo, 0 en contado.
type SupplierInvoice struct {
	ID                 string
	Number             string
	IssueDate          string // YYYY-MM-DD
	DueDate            string // YYYY-MM-DD
	SupplierID         string
	Total              decimal.Decimal
	Tax                decimal.Decimal // IVA 15% fijo sobre el subtotal
	Discount           decimal.Decimal
	OutstandingBalance decimal.Decimal
	Notes              string
	CreatedAt          time.Time
}

// IsDeferred indica si un método de pago deja saldo pendiente.
// Acepta variantes históricas que incluyen PLAZO o CREDITO en el nombre.
func IsDeferred(paymentMethod string) bool {
	m := strings.ToUpper(paymentMethod)
	return strings.Contains(m, "PLAZO") || strings.Contains(m, "CREDITO")
}

// IsTransfer indica si el método de pago corresponde a una transferencia bancaria.
func IsTransfer(paymentMethod string) bool {
	return strings.Contains(strings.ToUpper(paymentMethod), "TRANSFER")
}
