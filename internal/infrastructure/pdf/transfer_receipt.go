// Package pdf genera el comprobante de transferencia bancaria que acompaña al
// pago de una factura de proveedor: un documento simple con proveedor,
// factura, monto y fecha que se adjunta a la notificación del grupo.
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/purchasing"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 11, Green: 83, Blue: 69}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ purchasing.ReceiptGenerator = (*TransferReceiptGenerator)(nil)

// TransferReceiptGenerator genera comprobantes usando Maroto v2.
type TransferReceiptGenerator struct {
	businessName string
}

// NewTransferReceiptGenerator construye el generador.
func NewTransferReceiptGenerator(businessName string) *TransferReceiptGenerator {
	return &TransferReceiptGenerator{businessName: businessName}
}

// TransferReceipt genera el PDF del comprobante y devuelve sus bytes.
func (g *TransferReceiptGenerator) TransferReceipt(supplier, invoiceNumber string, transfer *entity.TransferLog) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Comprobante de Transferencia", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.businessName, transfer))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(
		fieldRow("Proveedor", supplier),
		fieldRow("Factura N°", invoiceNumber),
		fieldRow("Monto", "$"+transfer.Amount.StringFixed(2)),
		fieldRow("Fecha", transfer.OccurredAt.Format("02/01/2006 15:04")),
		fieldRow("Registrado por", transfer.UploadedBy),
	)

	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New(transfer.Reason, props.Text{Size: 8, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre del negocio (izq) y tipo de movimiento (der).
func headerRow(businessName string, transfer *entity.TransferLog) core.Row {
	kind := "EGRESO"
	if transfer.Kind == "ingreso" {
		kind = "INGRESO"
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de Transferencia", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right,
				Color: colorPrimary, Top: 4,
			}),
		),
	)
}

// fieldRow: etiqueta en negrita y valor en la misma fila.
func fieldRow(label, value string) core.Row {
	return row.New(8).Add(
		col.New(4).Add(text.New(label+":", props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 1,
		})),
		col.New(8).Add(text.New(value, props.Text{Size: 10, Top: 1})),
	)
}
