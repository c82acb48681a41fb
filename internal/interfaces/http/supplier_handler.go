package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/catalog"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/dto"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
)

// SupplierHandler maneja las peticiones HTTP de proveedores (protegido).
type SupplierHandler struct {
	uc *catalog.UseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *catalog.UseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// List GET /api/suppliers.
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.uc.ListSuppliers()
	if err != nil {
		return internalError(c, err)
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, supplierResponse(s))
	}
	return c.JSON(out)
}

// Create POST /api/suppliers: alta desde el modal del paso 1.
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Code == "" || in.Company == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "codigo y empresa son requeridos"})
	}
	supplier, err := h.uc.CreateSupplier(in.Code, in.Company, in.Vendor, in.Contact)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código de proveedor ya existe"})
		}
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(supplierResponse(supplier))
}

func supplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:      s.ID,
		Code:    s.Code,
		Company: s.Company,
		Vendor:  s.Vendor,
		Contact: s.Contact,
	}
}
