package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/catalog"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/dto"
)

// InventoryHandler maneja las peticiones HTTP de inventario (protegido).
type InventoryHandler struct {
	uc *catalog.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *catalog.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// List GET /api/inventory: snapshot completo del inventario.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.ListInventory()
	if err != nil {
		return internalError(c, err)
	}
	out := make([]dto.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.InventoryItemResponse{
			ID:            item.ID,
			Code:          item.Code,
			ProductName:   item.ProductName,
			SalePrice:     item.SalePrice,
			SupplierPrice: item.SupplierPrice,
			Zone:          item.Zone,
			Stock:         item.Stock,
			UnitType:      item.UnitType,
		})
	}
	return c.JSON(out)
}

// NextCode GET /api/inventory/next-code?in_use=1001&in_use=1002: sugiere el
// código del siguiente producto nuevo evitando los ya usados en la factura.
func (h *InventoryHandler) NextCode(c *fiber.Ctx) error {
	var inUse []string
	if args := c.Context().QueryArgs().PeekMulti("in_use"); len(args) > 0 {
		for _, arg := range args {
			inUse = append(inUse, string(arg))
		}
	}
	code, err := h.uc.SuggestNextCode(inUse)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NextCodeResponse{Code: code})
}
