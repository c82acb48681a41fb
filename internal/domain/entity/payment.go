package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierPayment registra un pago de contado (tabla ferre_pagos_proveedores).
// En pagos de contado el monto cubre el total y el saldo nuevo queda en 0.
type SupplierPayment struct {
	ID            string
	InvoiceID     string
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentType   string // "Total" para el pago completo al registrar la factura
	Reference     string // número de factura del proveedor
	NewBalance    decimal.Decimal
	CreatedAt     time.Time
}
