package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferLog es un asiento en la bitácora de transferencias bancarias
// (tabla ferre_transferencias). Los pagos de facturas de proveedores se
// registran como egresos.
type TransferLog struct {
	ID         string
	Kind       string // caso: "ingreso" | "egreso"
	Amount     decimal.Decimal
	Reason     string // motivo legible para el grupo de notificaciones
	PhotoURL   string // fotografia: URL del comprobante (placeholder si no se subió)
	OccurredAt time.Time
	UploadedBy string // email del usuario que registró el movimiento
	UserID     string
}
