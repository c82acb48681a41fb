package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/wizard"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
	"github.com/ferrisoluciones/ferreteria-api/pkg/logger"
)

// SubmitInvoiceUseCase guarda una factura de proveedor completa: encabezado,
// detalle, pago y transferencia en una sola transacción; comprobante,
// notificación y reconciliación de inventario como efectos posteriores.
type SubmitInvoiceUseCase struct {
	txRunner   TxRunner
	reconciler *Reconciler
	receipts   ReceiptGenerator
	notifier   TransferNotifier
	log        *logger.Logger
}

// NewSubmitInvoiceUseCase construye el caso de uso.
func NewSubmitInvoiceUseCase(
	txRunner TxRunner,
	reconciler *Reconciler,
	receipts ReceiptGenerator,
	notifier TransferNotifier,
	log *logger.Logger,
) *SubmitInvoiceUseCase {
	return &SubmitInvoiceUseCase{
		txRunner:   txRunner,
		reconciler: reconciler,
		receipts:   receipts,
		notifier:   notifier,
		log:        log,
	}
}

// SubmitResult resumen devuelto al shell tras guardar: la factura confirmada
// y la tabla de reconciliación de inventario. ReconcileError llega con texto
// cuando la reconciliación falló; la factura ya quedó guardada igual.
type SubmitResult struct {
	Invoice        *entity.SupplierInvoice `json:"factura"`
	Reconciliation []ItemResult            `json:"reconciliacion"`
	ReconcileError string                  `json:"error_reconciliacion,omitempty"`
}

// Submit valida el estado final del asistente y persiste la factura.
// Los errores dentro de la transacción abortan todo; los efectos posteriores
// (comprobante, notificación, reconciliación) se informan pero no revierten.
func (uc *SubmitInvoiceUseCase) Submit(ctx context.Context, userID, userEmail string, state wizard.State) (*SubmitResult, error) {
	if state.Supplier == nil {
		return nil, domain.ErrSupplierRequired
	}
	if len(state.LineItems) == 0 || state.Meta.Number == "" || state.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}

	_, tax, total := state.Totals()

	now := time.Now()
	deferred := entity.IsDeferred(state.PaymentMethod)

	invoice := &entity.SupplierInvoice{
		ID:         uuid.New().String(),
		Number:     state.Meta.Number,
		IssueDate:  state.Meta.IssueDate,
		DueDate:    state.Meta.DueDate,
		SupplierID: state.Supplier.ID,
		Total:      total,
		Tax:        tax,
		Discount:   state.Discount,
		Notes:      state.Meta.Notes,
		CreatedAt:  now,
	}
	if deferred {
		invoice.OutstandingBalance = total
	}

	var transfer *entity.TransferLog

	err := uc.txRunner.Run(ctx, func(
		invoiceRepo repository.SupplierInvoiceRepository,
		paymentRepo repository.PaymentRepository,
		transferRepo repository.TransferLogRepository,
	) error {
		if err := invoiceRepo.Create(invoice); err != nil {
			return err
		}
		for _, item := range state.LineItems {
			line := &entity.SupplierInvoiceLine{
				ID:            uuid.New().String(),
				InvoiceID:     invoice.ID,
				ProductID:     item.ProductID,
				ProductCode:   item.Code,
				ProductName:   item.Name,
				Quantity:      item.Quantity,
				SupplierPrice: item.SupplierPrice,
				SalePrice:     item.SalePrice,
				MarginPercent: item.MarginPercent,
				Zone:          item.Zone,
				IsNewProduct:  item.IsNewProduct,
			}
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
		}

		// Pago completo inmediato para todo método que no sea a plazo.
		if !deferred {
			payment := &entity.SupplierPayment{
				ID:            uuid.New().String(),
				InvoiceID:     invoice.ID,
				Amount:        total,
				PaymentMethod: state.PaymentMethod,
				PaymentType:   "Total",
				Reference:     invoice.Number,
				NewBalance:    decimal.Zero,
				CreatedAt:     now,
			}
			if err := paymentRepo.Create(payment); err != nil {
				return err
			}
		}

		// Las transferencias bancarias dejan además su egreso en caja.
		if entity.IsTransfer(state.PaymentMethod) {
			transfer = &entity.TransferLog{
				ID:     uuid.New().String(),
				Kind:   "egreso",
				Amount: total,
				Reason: fmt.Sprintf("Pago a proveedor %s - Factura %s por $%s",
					state.Supplier.Company, invoice.Number, total.StringFixed(2)),
				OccurredAt: now,
				UploadedBy: userEmail,
				UserID:     userID,
			}
			return transferRepo.Create(transfer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("factura_id", invoice.ID).
		Str("numero", invoice.Number).
		Str("metodo", state.PaymentMethod).
		Str("total", total.StringFixed(2)).
		Msg("factura de proveedor guardada")

	if transfer != nil {
		uc.notifyTransfer(ctx, state.Supplier.Company, invoice.Number, transfer)
	}

	result := &SubmitResult{Invoice: invoice}
	reconciliation, recErr := uc.reconciler.Reconcile(state.Supplier.ID, state.LineItems)
	result.Reconciliation = reconciliation
	if recErr != nil {
		uc.log.Error().Err(recErr).Str("factura_id", invoice.ID).Msg("reconciliación de inventario con errores")
		result.ReconcileError = recErr.Error()
	}
	return result, nil
}

// notifyTransfer genera el comprobante y dispara la notificación. Cualquier
// fallo se registra y se descarta: la factura ya está confirmada.
func (uc *SubmitInvoiceUseCase) notifyTransfer(ctx context.Context, supplier, invoiceNumber string, transfer *entity.TransferLog) {
	var receipt []byte
	if uc.receipts != nil {
		data, err := uc.receipts.TransferReceipt(supplier, invoiceNumber, transfer)
		if err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo generar el comprobante de transferencia")
		} else {
			receipt = data
		}
	}
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.NotifyTransfer(ctx, transfer, receipt); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo notificar la transferencia")
	}
}
