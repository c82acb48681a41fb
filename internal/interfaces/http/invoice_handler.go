package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/dto"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
)

// InvoiceHandler consulta de facturas de proveedor guardadas (protegido).
type InvoiceHandler struct {
	repo repository.SupplierInvoiceRepository
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(repo repository.SupplierInvoiceRepository) *InvoiceHandler {
	return &InvoiceHandler{repo: repo}
}

// invoiceResponse factura con su detalle.
type invoiceResponse struct {
	ID                 string         `json:"id"`
	Number             string         `json:"numero_factura"`
	IssueDate          string         `json:"fecha_emision"`
	DueDate            string         `json:"fecha_vencimiento,omitempty"`
	SupplierID         string         `json:"proveedor_id"`
	Total              string         `json:"total"`
	Tax                string         `json:"iva"`
	Discount           string         `json:"descuento"`
	OutstandingBalance string         `json:"saldo_pendiente"`
	Notes              string         `json:"notas,omitempty"`
	Lines              []lineResponse `json:"detalle"`
}

type lineResponse struct {
	Code          string `json:"codigo_producto"`
	Name          string `json:"nombre_producto"`
	Quantity      string `json:"cantidad"`
	SupplierPrice string `json:"precio_proveedor"`
	SalePrice     string `json:"precio_venta"`
	MarginPercent *int64 `json:"porcentaje_ganancia"`
	Zone          string `json:"zona,omitempty"`
	IsNewProduct  bool   `json:"es_producto_nuevo"`
}

// GetByID GET /api/invoices/:id.
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	inv, err := h.repo.GetByID(id)
	if err != nil {
		return internalError(c, err)
	}
	if inv == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
	}
	lines, err := h.repo.GetLinesByInvoiceID(id)
	if err != nil {
		return internalError(c, err)
	}

	out := invoiceResponse{
		ID:                 inv.ID,
		Number:             inv.Number,
		IssueDate:          inv.IssueDate,
		DueDate:            inv.DueDate,
		SupplierID:         inv.SupplierID,
		Total:              inv.Total.StringFixed(2),
		Tax:                inv.Tax.StringFixed(2),
		Discount:           inv.Discount.StringFixed(2),
		OutstandingBalance: inv.OutstandingBalance.StringFixed(2),
		Notes:              inv.Notes,
		Lines:              make([]lineResponse, 0, len(lines)),
	}
	for _, line := range lines {
		out.Lines = append(out.Lines, lineResponse{
			Code:          line.ProductCode,
			Name:          line.ProductName,
			Quantity:      line.Quantity.String(),
			SupplierPrice: line.SupplierPrice.StringFixed(2),
			SalePrice:     line.SalePrice.StringFixed(2),
			MarginPercent: line.MarginPercent,
			Zone:          line.Zone,
			IsNewProduct:  line.IsNewProduct,
		})
	}
	return c.JSON(out)
}
