// Package purchasing contiene los casos de uso del cierre del asistente de
// ingreso: guardar la factura de proveedor con sus efectos colaterales y
// reconciliar el inventario con las líneas compradas.
package purchasing

import (
	"context"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
)

// TxRunner ejecuta el callback dentro de una transacción con los
// repositorios atados a ella. Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoiceRepo repository.SupplierInvoiceRepository,
		paymentRepo repository.PaymentRepository,
		transferRepo repository.TransferLogRepository,
	) error) error
}

// ReceiptGenerator genera el comprobante PDF de una transferencia bancaria.
type ReceiptGenerator interface {
	TransferReceipt(supplier, invoiceNumber string, transfer *entity.TransferLog) ([]byte, error)
}

// TransferNotifier avisa por el canal externo que se registró una
// transferencia. Implementaciones de mejor esfuerzo.
type TransferNotifier interface {
	NotifyTransfer(ctx context.Context, transfer *entity.TransferLog, receipt []byte) error
}
