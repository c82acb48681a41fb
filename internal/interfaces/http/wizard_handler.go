package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/dto"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/purchasing"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/wizard"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain"
)

// WizardHandler expone el asistente de ingreso de facturas: cada intención de
// la UI (elegir proveedor, agregar producto, avanzar de paso) es un endpoint
// que muta la sesión del usuario y devuelve la proyección del estado.
type WizardHandler struct {
	sessions *wizard.Manager
	submit   *purchasing.SubmitInvoiceUseCase
}

// NewWizardHandler construye el handler.
func NewWizardHandler(sessions *wizard.Manager, submit *purchasing.SubmitInvoiceUseCase) *WizardHandler {
	return &WizardHandler{sessions: sessions, submit: submit}
}

// Session GET /api/ingreso/session: inicia o restaura la sesión del usuario.
func (h *WizardHandler) Session(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return internalError(c, err)
	}
	out := stateResponse(sess, false)
	out.Restored = sess.Restored()
	return c.JSON(out)
}

// ResetSession DELETE /api/ingreso/session: descarta borrador y estado.
func (h *WizardHandler) ResetSession(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return internalError(c, err)
	}
	sess.Close()
	return c.JSON(stateResponse(sess, false))
}

// CloseWizard POST /api/ingreso/close: reinicia conservando los catálogos.
func (h *WizardHandler) CloseWizard(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return internalError(c, err)
	}
	sess.FinishSubmit()
	return c.JSON(stateResponse(sess, false))
}

// SelectSupplier PUT /api/ingreso/supplier.
func (h *WizardHandler) SelectSupplier(c *fiber.Ctx) error {
	var in dto.SelectSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		return s.SelectSupplier(wizard.SupplierRef{ID: in.ID, Code: in.Code, Company: in.Company})
	})
}

// ClearSupplier DELETE /api/ingreso/supplier.
func (h *WizardHandler) ClearSupplier(c *fiber.Ctx) error {
	return h.mutate(c, func(s *wizard.State) error {
		s.ClearSupplier()
		return nil
	})
}

// SetInvoiceMeta PUT /api/ingreso/invoice-meta. La advertencia de fechas
// (vencimiento anterior a emisión) viaja en la respuesta sin bloquear.
func (h *WizardHandler) SetInvoiceMeta(c *fiber.Ctx) error {
	var in dto.InvoiceMetaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sess, err := h.session(c)
	if err != nil {
		return internalError(c, err)
	}
	var warning bool
	_ = sess.Mutate(func(s *wizard.State) error {
		warning = s.SetInvoiceMeta(wizard.InvoiceMeta{
			Number:    in.Number,
			IssueDate: in.IssueDate,
			DueDate:   in.DueDate,
			Notes:     in.Notes,
		})
		return nil
	})
	return c.JSON(stateResponse(sess, warning))
}

// SetPaymentMethod PUT /api/ingreso/payment-method.
func (h *WizardHandler) SetPaymentMethod(c *fiber.Ctx) error {
	var in dto.PaymentMethodRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		return s.SetPaymentMethod(in.Method)
	})
}

// SetDiscount PUT /api/ingreso/discount.
func (h *WizardHandler) SetDiscount(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		return s.SetDiscount(in.Discount)
	})
}

// AddItem POST /api/ingreso/items: agrega un producto del inventario por código.
func (h *WizardHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		item := s.FindByCode(in.Code)
		if item == nil {
			return domain.ErrNotFound
		}
		s.AddFromInventory(item)
		return nil
	})
}

// AddNewProduct POST /api/ingreso/items/new.
func (h *WizardHandler) AddNewProduct(c *fiber.Ctx) error {
	var in dto.NewProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		return s.AddNewProduct(in.Code, in.Name, in.Quantity, in.SupplierPrice, in.SalePrice, in.Zone)
	})
}

// AddUnitsVariant POST /api/ingreso/items/:index/units.
func (h *WizardHandler) AddUnitsVariant(c *fiber.Ctx) error {
	index, err := itemIndex(c)
	if err != nil {
		return badIndex(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		return s.AddUnitsVariant(index)
	})
}

// UpdateItem PUT /api/ingreso/items/:index: aplica solo los campos presentes.
func (h *WizardHandler) UpdateItem(c *fiber.Ctx) error {
	index, err := itemIndex(c)
	if err != nil {
		return badIndex(c)
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		if in.Quantity != nil {
			if err := s.UpdateQuantity(index, *in.Quantity); err != nil {
				return err
			}
		}
		if in.Name != nil {
			if err := s.UpdateName(index, *in.Name); err != nil {
				return err
			}
		}
		if in.Zone != nil {
			if err := s.UpdateZone(index, *in.Zone); err != nil {
				return err
			}
		}
		if in.SupplierPrice != nil {
			if err := s.UpdateSupplierPrice(index, *in.SupplierPrice); err != nil {
				return err
			}
		}
		if in.SalePrice != nil {
			if err := s.UpdateSalePrice(index, *in.SalePrice); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveItem DELETE /api/ingreso/items/:index.
func (h *WizardHandler) RemoveItem(c *fiber.Ctx) error {
	index, err := itemIndex(c)
	if err != nil {
		return badIndex(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		return s.RemoveItem(index)
	})
}

// ApplyMargin POST /api/ingreso/items/:index/margin.
func (h *WizardHandler) ApplyMargin(c *fiber.Ctx) error {
	index, err := itemIndex(c)
	if err != nil {
		return badIndex(c)
	}
	var in dto.ApplyMarginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		return s.ApplyMargin(index, in.Percent)
	})
}

// Advance POST /api/ingreso/advance.
func (h *WizardHandler) Advance(c *fiber.Ctx) error {
	return h.mutate(c, func(s *wizard.State) error {
		return s.Advance()
	})
}

// Back POST /api/ingreso/back.
func (h *WizardHandler) Back(c *fiber.Ctx) error {
	return h.mutate(c, func(s *wizard.State) error {
		s.Back()
		return nil
	})
}

// GoTo POST /api/ingreso/goto.
func (h *WizardHandler) GoTo(c *fiber.Ctx) error {
	var in dto.GoToRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.mutate(c, func(s *wizard.State) error {
		return s.GoTo(in.Step)
	})
}

// Search GET /api/ingreso/search?q=.
func (h *WizardHandler) Search(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return internalError(c, err)
	}
	var out []dto.InventoryItemResponse
	sess.View(func(s *wizard.State) {
		for _, item := range s.Search(c.Query("q")) {
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
	})
	if out == nil {
		out = []dto.InventoryItemResponse{}
	}
	return c.JSON(out)
}

// Submit POST /api/ingreso/submit: guarda la factura. Un guardado en curso
// rechaza el segundo intento; si falla, el borrador queda intacto.
func (h *WizardHandler) Submit(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return internalError(c, err)
	}
	if err := sess.BeginSubmit(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SUBMIT_IN_FLIGHT", Message: "ya hay un guardado en curso"})
	}
	defer sess.EndSubmit()

	snapshot := sess.Snapshot()
	result, err := h.submit.Submit(c.UserContext(), GetUserID(c), GetUserEmail(c), snapshot)
	if err != nil {
		return mapDomainError(c, err)
	}

	sess.FinishSubmit()
	// La factura ya está guardada; un snapshot viejo solo afecta a la búsqueda.
	_ = h.sessions.ReloadInventory(GetUserID(c))
	return c.Status(fiber.StatusCreated).JSON(result)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (h *WizardHandler) session(c *fiber.Ctx) (*wizard.Session, error) {
	return h.sessions.Get(GetUserID(c))
}

// mutate ejecuta la mutación sobre la sesión y responde con el estado proyectado.
func (h *WizardHandler) mutate(c *fiber.Ctx, fn func(*wizard.State) error) error {
	sess, err := h.session(c)
	if err != nil {
		return internalError(c, err)
	}
	if err := sess.Mutate(fn); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(stateResponse(sess, false))
}

func stateResponse(sess *wizard.Session, dateWarning bool) dto.WizardStateResponse {
	var out dto.WizardStateResponse
	sess.View(func(s *wizard.State) {
		subtotal, tax, total := s.Totals()
		out = dto.WizardStateResponse{
			CurrentStep:   s.CurrentStep,
			StepValid:     s.IsStepValid(s.CurrentStep),
			Supplier:      s.Supplier,
			PaymentMethod: s.PaymentMethod,
			Meta:          s.Meta,
			Items:         s.LineItems,
			Discount:      s.Discount,
			Subtotal:      subtotal,
			Tax:           tax,
			Total:         total,
			DateWarning:   dateWarning,
		}
		if out.Items == nil {
			out.Items = []wizard.LineItem{}
		}
	})
	return out
}

func itemIndex(c *fiber.Ctx) (int, error) {
	return strconv.Atoi(c.Params("index"))
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badIndex(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "índice inválido"})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// mapDomainError traduce errores de dominio a códigos HTTP.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrStepNotValid):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STEP_NOT_VALID", Message: "el paso actual está incompleto"})
	case errors.Is(err, domain.ErrSupplierRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SUPPLIER_REQUIRED", Message: "selecciona un proveedor"})
	case errors.Is(err, domain.ErrSubmitInFlight):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SUBMIT_IN_FLIGHT", Message: "ya hay un guardado en curso"})
	default:
		return internalError(c, err)
	}
}
