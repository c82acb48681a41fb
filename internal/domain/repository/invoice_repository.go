package repository

import "github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"

// SupplierInvoiceRepository acceso a ferre_facturas_proveedores y su detalle.
type SupplierInvoiceRepository interface {
	Create(inv *entity.SupplierInvoice) error
	CreateLine(line *entity.SupplierInvoiceLine) error
	GetByID(id string) (*entity.SupplierInvoice, error)
	GetLinesByInvoiceID(invoiceID string) ([]*entity.SupplierInvoiceLine, error)
}

// PaymentRepository acceso a ferre_pagos_proveedores.
type PaymentRepository interface {
	Create(p *entity.SupplierPayment) error
}

// TransferLogRepository acceso a ferre_transferencias.
type TransferLogRepository interface {
	Create(t *entity.TransferLog) error
}
