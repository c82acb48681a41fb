package purchasing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/purchasing"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/wizard"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
	"github.com/ferrisoluciones/ferreteria-api/pkg/logger"
)

// fakeTxRepos captura todo lo escrito dentro de la "transacción".
type fakeTxRepos struct {
	invoices  []*entity.SupplierInvoice
	lines     []*entity.SupplierInvoiceLine
	payments  []*entity.SupplierPayment
	transfers []*entity.TransferLog

	createErr error
}

func (f *fakeTxRepos) Create(inv *entity.SupplierInvoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeTxRepos) CreateLine(line *entity.SupplierInvoiceLine) error {
	f.lines = append(f.lines, line)
	return nil
}

func (f *fakeTxRepos) GetByID(string) (*entity.SupplierInvoice, error) { return nil, nil }

func (f *fakeTxRepos) GetLinesByInvoiceID(string) ([]*entity.SupplierInvoiceLine, error) {
	return nil, nil
}

type fakePaymentRepo struct{ parent *fakeTxRepos }

func (f fakePaymentRepo) Create(p *entity.SupplierPayment) error {
	f.parent.payments = append(f.parent.payments, p)
	return nil
}

type fakeTransferRepo struct{ parent *fakeTxRepos }

func (f fakeTransferRepo) Create(t *entity.TransferLog) error {
	f.parent.transfers = append(f.parent.transfers, t)
	return nil
}

// fakeTxRunner ejecuta el callback sin transacción real. Si fn falla se
// descarta todo lo escrito, imitando el rollback.
type fakeTxRunner struct {
	repos *fakeTxRepos
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	repository.SupplierInvoiceRepository,
	repository.PaymentRepository,
	repository.TransferLogRepository,
) error) error {
	staging := *f.repos
	err := fn(f.repos, fakePaymentRepo{f.repos}, fakeTransferRepo{f.repos})
	if err != nil {
		*f.repos = staging
		return err
	}
	return nil
}

type fakeNotifier struct {
	calls    int
	receipts [][]byte
	err      error
}

func (f *fakeNotifier) NotifyTransfer(_ context.Context, _ *entity.TransferLog, receipt []byte) error {
	f.calls++
	f.receipts = append(f.receipts, receipt)
	return f.err
}

type fakeReceipts struct {
	data []byte
	err  error
}

func (f fakeReceipts) TransferReceipt(string, string, *entity.TransferLog) ([]byte, error) {
	return f.data, f.err
}

func submitState(paymentMethod string) wizard.State {
	s := wizard.State{
		CurrentStep:   wizard.StepSummary,
		Supplier:      &wizard.SupplierRef{ID: "prov-1", Code: "PRV01", Company: "ACME"},
		PaymentMethod: paymentMethod,
		Discount:      decimal.Zero,
		Meta:          wizard.InvoiceMeta{Number: "F-001", IssueDate: "2026-08-01", DueDate: "2026-09-01"},
	}
	s.LineItems = []wizard.LineItem{{
		Code:          "1001",
		Name:          "MARTILLO",
		Quantity:      dec("5"),
		SupplierPrice: dec("10"),
		SalePrice:     dec("16.2"),
		Subtotal:      dec("50"),
	}}
	return s
}

func newSubmitUC(repos *fakeTxRepos, receipts purchasing.ReceiptGenerator, notifier purchasing.TransferNotifier) *purchasing.SubmitInvoiceUseCase {
	inventory := newFakeInventoryRepo(&entity.InventoryItem{
		ID: "p1", Code: "1001", ProductName: "MARTILLO", Stock: dec("5"),
	})
	return purchasing.NewSubmitInvoiceUseCase(
		&fakeTxRunner{repos: repos},
		purchasing.NewReconciler(inventory, logger.Nop()),
		receipts,
		notifier,
		logger.Nop(),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardado de la factura
// ──────────────────────────────────────────────────────────────────────────────

// A plazo: el saldo pendiente queda en el total y no se registra ningún pago.
func TestSubmit_PagoAPlazo(t *testing.T) {
	repos := &fakeTxRepos{}
	uc := newSubmitUC(repos, nil, nil)

	result, err := uc.Submit(context.Background(), "user-1", "user@ferre.com", submitState(entity.PaymentPlazo))
	require.NoError(t, err)

	require.Len(t, repos.invoices, 1)
	inv := repos.invoices[0]
	// subtotal 50, IVA 7.5, total 57.5
	assert.True(t, inv.Total.Equal(dec("57.5")), "total debe ser 57.5, dio %s", inv.Total)
	assert.True(t, inv.Tax.Equal(dec("7.5")))
	assert.True(t, inv.OutstandingBalance.Equal(dec("57.5")), "a plazo el saldo pendiente es el total")

	assert.Empty(t, repos.payments, "a plazo no hay pago inmediato")
	assert.Empty(t, repos.transfers)
	require.Len(t, repos.lines, 1)
	assert.Equal(t, "1001", repos.lines[0].ProductCode)
	assert.Equal(t, inv.ID, repos.lines[0].InvoiceID)

	require.NotNil(t, result.Invoice)
	assert.Empty(t, result.ReconcileError)
	require.Len(t, result.Reconciliation, 1)
	assert.Equal(t, purchasing.ActionUpdated, result.Reconciliation[0].Action)
}

// Contado en efectivo: pago completo inmediato con referencia al número de
// factura, sin asiento de transferencia.
func TestSubmit_ContadoEfectivo(t *testing.T) {
	repos := &fakeTxRepos{}
	uc := newSubmitUC(repos, nil, nil)

	_, err := uc.Submit(context.Background(), "user-1", "user@ferre.com", submitState(entity.PaymentContadoEfectivo))
	require.NoError(t, err)

	require.Len(t, repos.invoices, 1)
	assert.True(t, repos.invoices[0].OutstandingBalance.IsZero(), "de contado no queda saldo")

	require.Len(t, repos.payments, 1)
	pay := repos.payments[0]
	assert.True(t, pay.Amount.Equal(dec("57.5")))
	assert.Equal(t, "Total", pay.PaymentType)
	assert.Equal(t, "F-001", pay.Reference)
	assert.True(t, pay.NewBalance.IsZero())

	assert.Empty(t, repos.transfers, "el efectivo no deja asiento de transferencia")
}

// Transferencia: además del pago se asienta el egreso en la bitácora y se
// notifica con el comprobante adjunto.
func TestSubmit_ContadoTransferencia(t *testing.T) {
	repos := &fakeTxRepos{}
	notifier := &fakeNotifier{}
	uc := newSubmitUC(repos, fakeReceipts{data: []byte("%PDF")}, notifier)

	_, err := uc.Submit(context.Background(), "user-1", "user@ferre.com", submitState(entity.PaymentContadoTransferecia))
	require.NoError(t, err)

	require.Len(t, repos.payments, 1)
	require.Len(t, repos.transfers, 1)

	tr := repos.transfers[0]
	assert.Equal(t, "egreso", tr.Kind)
	assert.True(t, tr.Amount.Equal(dec("57.5")))
	assert.Contains(t, tr.Reason, "ACME")
	assert.Contains(t, tr.Reason, "F-001")
	assert.Equal(t, "user@ferre.com", tr.UploadedBy)
	assert.Equal(t, "user-1", tr.UserID)

	require.Equal(t, 1, notifier.calls, "la transferencia debe notificarse")
	assert.Equal(t, []byte("%PDF"), notifier.receipts[0])
}

// El comprobante y la notificación son de mejor esfuerzo: sus fallos no
// afectan el guardado.
func TestSubmit_NotificacionFallidaNoRevierte(t *testing.T) {
	repos := &fakeTxRepos{}
	notifier := &fakeNotifier{err: errors.New("webhook caído")}
	uc := newSubmitUC(repos, fakeReceipts{err: errors.New("sin fuente")}, notifier)

	result, err := uc.Submit(context.Background(), "user-1", "user@ferre.com", submitState(entity.PaymentContadoTransferecia))
	require.NoError(t, err, "el guardado no depende de la notificación")
	require.NotNil(t, result.Invoice)

	assert.Equal(t, 1, notifier.calls)
	assert.Nil(t, notifier.receipts[0], "sin comprobante se notifica solo el texto")
}

func TestSubmit_SinProveedor(t *testing.T) {
	uc := newSubmitUC(&fakeTxRepos{}, nil, nil)
	state := submitState(entity.PaymentPlazo)
	state.Supplier = nil

	_, err := uc.Submit(context.Background(), "user-1", "user@ferre.com", state)
	assert.ErrorIs(t, err, domain.ErrSupplierRequired)
}

func TestSubmit_EstadoIncompleto(t *testing.T) {
	uc := newSubmitUC(&fakeTxRepos{}, nil, nil)

	sinLineas := submitState(entity.PaymentPlazo)
	sinLineas.LineItems = nil
	_, err := uc.Submit(context.Background(), "user-1", "user@ferre.com", sinLineas)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sinNumero := submitState(entity.PaymentPlazo)
	sinNumero.Meta.Number = ""
	_, err = uc.Submit(context.Background(), "user-1", "user@ferre.com", sinNumero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sinMetodo := submitState("")
	_, err = uc.Submit(context.Background(), "user-1", "user@ferre.com", sinMetodo)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un fallo dentro de la transacción aborta todo el guardado.
func TestSubmit_FalloEnTransaccion(t *testing.T) {
	repos := &fakeTxRepos{createErr: errors.New("numero duplicado")}
	uc := newSubmitUC(repos, nil, nil)

	_, err := uc.Submit(context.Background(), "user-1", "user@ferre.com", submitState(entity.PaymentPlazo))
	require.Error(t, err)
	assert.Empty(t, repos.invoices, "nada debe quedar escrito tras el rollback")
	assert.Empty(t, repos.lines)
}

// El descuento se aplica al total; nunca por debajo de cero.
func TestSubmit_TotalConDescuento(t *testing.T) {
	repos := &fakeTxRepos{}
	uc := newSubmitUC(repos, nil, nil)

	state := submitState(entity.PaymentContadoEfectivo)
	state.Discount = dec("7.5")
	_, err := uc.Submit(context.Background(), "user-1", "user@ferre.com", state)
	require.NoError(t, err)

	require.Len(t, repos.invoices, 1)
	assert.True(t, repos.invoices[0].Total.Equal(dec("50")), "57.5 - 7.5 = 50, dio %s", repos.invoices[0].Total)
	assert.True(t, repos.invoices[0].Discount.Equal(dec("7.5")))
}
