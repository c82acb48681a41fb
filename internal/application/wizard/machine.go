package wizard

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/pricing"
)

// Métodos de pago que acepta el paso 3.
var allowedPaymentMethods = map[string]bool{
	entity.PaymentPlazo:               true,
	entity.PaymentContadoEfectivo:     true,
	entity.PaymentContadoTransferecia: true,
}

// IsStepValid evalúa el predicado de validez de un paso sin mutar el estado.
// El paso 5 (resumen) siempre es válido.
func (s *State) IsStepValid(step int) bool {
	switch step {
	case StepSupplier:
		return s.Supplier != nil

	case StepInvoiceMeta:
		if s.Supplier == nil {
			return false
		}
		// Solo se exige que número y ambas fechas existan. El orden
		// cronológico se verifica aparte y no bloquea la navegación.
		return strings.TrimSpace(s.Meta.Number) != "" &&
			s.Meta.IssueDate != "" && s.Meta.DueDate != ""

	case StepPayment:
		return s.PaymentMethod != ""

	case StepLineItems:
		return len(s.LineItems) > 0

	default:
		return true
	}
}

// GoTo navega a un paso: hacia atrás siempre; hacia adelante solo al paso
// inmediato siguiente y con el paso actual completo.
func (s *State) GoTo(step int) error {
	if step < StepSupplier || step > StepSummary {
		return domain.ErrInvalidInput
	}
	if step <= s.CurrentStep {
		s.CurrentStep = step
		return nil
	}
	if step == s.CurrentStep+1 && s.IsStepValid(s.CurrentStep) {
		s.CurrentStep = step
		return nil
	}
	return domain.ErrStepNotValid
}

// Advance pasa al siguiente paso si el actual está completo.
func (s *State) Advance() error {
	if s.CurrentStep >= StepSummary {
		return nil
	}
	return s.GoTo(s.CurrentStep + 1)
}

// Back retrocede un paso; siempre permitido.
func (s *State) Back() {
	if s.CurrentStep > StepSupplier {
		s.CurrentStep--
	}
}

// SelectSupplier fija el proveedor y avanza al paso 2. El proveedor queda
// fijado hasta que se limpie explícitamente.
func (s *State) SelectSupplier(ref SupplierRef) error {
	if ref.ID == "" {
		return domain.ErrInvalidInput
	}
	s.Supplier = &ref
	s.CurrentStep = StepInvoiceMeta
	return nil
}

// ClearSupplier limpia la selección y regresa al paso 1.
func (s *State) ClearSupplier() {
	s.Supplier = nil
	s.CurrentStep = StepSupplier
}

// SetInvoiceMeta guarda los datos del paso 2 con las fechas normalizadas.
// Devuelve dateWarning=true cuando la fecha de vencimiento es anterior a la
// de emisión: se informa pero no bloquea el avance.
func (s *State) SetInvoiceMeta(meta InvoiceMeta) (dateWarning bool) {
	meta.Number = strings.TrimSpace(meta.Number)
	meta.IssueDate = NormalizeDate(meta.IssueDate)
	meta.DueDate = NormalizeDate(meta.DueDate)
	s.Meta = meta

	return meta.IssueDate != "" && meta.DueDate != "" &&
		dateBefore(meta.DueDate, meta.IssueDate)
}

// SetPaymentMethod fija el método de pago del paso 3.
func (s *State) SetPaymentMethod(method string) error {
	if !allowedPaymentMethods[method] {
		return domain.ErrInvalidInput
	}
	s.PaymentMethod = method
	return nil
}

// SetDiscount fija el descuento del resumen; nunca negativo.
func (s *State) SetDiscount(d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.ErrInvalidInput
	}
	s.Discount = d
	return nil
}

// FindByCode busca un producto en el snapshot de inventario por código exacto.
func (s *State) FindByCode(code string) *entity.InventoryItem {
	for _, item := range s.Inventory {
		if item.Code == code {
			return item
		}
	}
	return nil
}

// AddFromInventory agrega al borrador un producto del inventario. Si el código
// ya está en la lista incrementa su cantidad, recalcula el subtotal y mueve la
// línea al frente; la lista nunca contiene códigos repetidos.
func (s *State) AddFromInventory(item *entity.InventoryItem) {
	if s.bumpExisting(item.Code) {
		return
	}

	salePrice := item.SalePrice
	if salePrice.IsZero() {
		salePrice = pricing.SuggestedSalePrice(item.SupplierPrice)
	}
	line := LineItem{
		ProductID:     item.ID,
		Code:          item.Code,
		Name:          strings.ToUpper(item.ProductName),
		Quantity:      decimal.NewFromInt(1),
		SupplierPrice: item.SupplierPrice,
		SalePrice:     salePrice,
		Zone:          zoneString(item.Zone),
		UnitType:      item.UnitType,
		IsNewProduct:  false,
		Subtotal:      item.SupplierPrice,
	}
	if pct, ok := pricing.NearestMarginTier(item.SupplierPrice, salePrice); ok {
		line.MarginPercent = &pct
	}
	s.LineItems = append([]LineItem{line}, s.LineItems...)
}

// AddNewProduct agrega un producto que todavía no existe en inventario.
func (s *State) AddNewProduct(code, name string, quantity, supplierPrice, salePrice decimal.Decimal, zone string) error {
	code = strings.TrimSpace(code)
	if code == "" || !quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	if s.bumpExisting(code) {
		return nil
	}

	if salePrice.IsZero() {
		salePrice = pricing.SuggestedSalePrice(supplierPrice)
	}
	line := LineItem{
		Code:          code,
		Name:          strings.ToUpper(strings.TrimSpace(name)),
		Quantity:      quantity,
		SupplierPrice: supplierPrice,
		SalePrice:     salePrice,
		Zone:          zone,
		IsNewProduct:  true,
		Subtotal:      quantity.Mul(supplierPrice),
	}
	if pct, ok := pricing.NearestMarginTier(supplierPrice, salePrice); ok {
		line.MarginPercent = &pct
	}
	s.LineItems = append([]LineItem{line}, s.LineItems...)
	return nil
}

// AddUnitsVariant agrega la versión "-UNIDADES" de una línea: mismo producto
// con el código extendido en 001 para venta por unidad suelta. No aplica a
// códigos largos (ya son variantes) ni a presentaciones que ya son UNIDADES.
func (s *State) AddUnitsVariant(index int) error {
	if index < 0 || index >= len(s.LineItems) {
		return domain.ErrInvalidInput
	}
	base := s.LineItems[index]
	if len(base.Code) >= 6 || base.UnitType == "UNIDADES" {
		return fmt.Errorf("%w: el código %s no admite versión por unidades", domain.ErrInvalidInput, base.Code)
	}

	unitsCode := base.Code + "001"
	for _, item := range s.LineItems {
		if item.Code == unitsCode {
			return fmt.Errorf("%w: %s ya está en la factura", domain.ErrDuplicate, unitsCode)
		}
	}

	baseName := strings.TrimSpace(unitsSuffixRe.ReplaceAllString(base.Name, ""))
	if existing := s.FindByCode(unitsCode); existing != nil {
		s.AddFromInventory(existing)
		return nil
	}
	return s.AddNewProduct(unitsCode, baseName+" -UNIDADES", decimal.NewFromInt(1), decimal.Zero, decimal.Zero, base.Zone)
}

var unitsSuffixRe = regexp.MustCompile(` -[^-]+$`)

// bumpExisting incrementa en 1 la cantidad de la línea con ese código y la
// mueve al frente. Devuelve false si el código no estaba en la lista.
func (s *State) bumpExisting(code string) bool {
	for i := range s.LineItems {
		if s.LineItems[i].Code != code {
			continue
		}
		item := s.LineItems[i]
		item.Quantity = item.Quantity.Add(decimal.NewFromInt(1))
		item.Subtotal = item.Quantity.Mul(item.SupplierPrice)
		s.LineItems = append(s.LineItems[:i], s.LineItems[i+1:]...)
		s.LineItems = append([]LineItem{item}, s.LineItems...)
		return true
	}
	return false
}

// RemoveItem elimina una línea.
func (s *State) RemoveItem(index int) error {
	if index < 0 || index >= len(s.LineItems) {
		return domain.ErrInvalidInput
	}
	s.LineItems = append(s.LineItems[:index], s.LineItems[index+1:]...)
	return nil
}

// UpdateQuantity cambia la cantidad y recalcula el subtotal.
func (s *State) UpdateQuantity(index int, quantity decimal.Decimal) error {
	if index < 0 || index >= len(s.LineItems) || !quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	item := &s.LineItems[index]
	item.Quantity = quantity
	item.Subtotal = quantity.Mul(item.SupplierPrice)
	return nil
}

// UpdateName cambia el nombre; siempre se guarda en mayúsculas.
func (s *State) UpdateName(index int, name string) error {
	if index < 0 || index >= len(s.LineItems) {
		return domain.ErrInvalidInput
	}
	s.LineItems[index].Name = strings.ToUpper(strings.TrimSpace(name))
	return nil
}

// UpdateZone cambia la zona de bodega de la línea.
func (s *State) UpdateZone(index int, zone string) error {
	if index < 0 || index >= len(s.LineItems) {
		return domain.ErrInvalidInput
	}
	s.LineItems[index].Zone = zone
	return nil
}

// UpdateSupplierPrice cambia el costo del proveedor. Si la línea ya tenía un
// porcentaje activo se re-deriva el precio de venta con ese mismo porcentaje
// (el costo cambia, la ganancia elegida se mantiene); si no lo tenía se
// sugiere el precio con el porcentaje por defecto.
func (s *State) UpdateSupplierPrice(index int, price decimal.Decimal) error {
	if index < 0 || index >= len(s.LineItems) || price.IsNegative() {
		return domain.ErrInvalidInput
	}
	item := &s.LineItems[index]
	item.SupplierPrice = price
	item.Subtotal = item.Quantity.Mul(price)

	if item.MarginPercent != nil {
		item.SalePrice = pricing.SalePriceForMargin(price, *item.MarginPercent)
		return nil
	}
	item.SalePrice = pricing.SuggestedSalePrice(price)
	item.MarginPercent = nil
	if pct, ok := pricing.NearestMarginTier(price, item.SalePrice); ok {
		item.MarginPercent = &pct
	}
	return nil
}

// UpdateSalePrice cambia el precio de venta y re-busca el porcentaje conocido
// que le corresponde (nulo si ninguno queda dentro de la tolerancia).
func (s *State) UpdateSalePrice(index int, price decimal.Decimal) error {
	if index < 0 || index >= len(s.LineItems) || price.IsNegative() {
		return domain.ErrInvalidInput
	}
	item := &s.LineItems[index]
	item.SalePrice = price
	item.MarginPercent = nil
	if pct, ok := pricing.NearestMarginTier(item.SupplierPrice, price); ok {
		item.MarginPercent = &pct
	}
	return nil
}

// ApplyMargin aplica un porcentaje de ganancia de los botones rápidos:
// recalcula el precio de venta desde el costo y fija el porcentaje.
func (s *State) ApplyMargin(index int, marginPct int64) error {
	if index < 0 || index >= len(s.LineItems) {
		return domain.ErrInvalidInput
	}
	item := &s.LineItems[index]
	item.SalePrice = pricing.SalePriceForMargin(item.SupplierPrice, marginPct)
	item.MarginPercent = &marginPct
	item.Subtotal = item.Quantity.Mul(item.SupplierPrice)
	return nil
}

// searchLimit máximo de resultados de búsqueda mostrados.
const searchLimit = 10

var numericRe = regexp.MustCompile(`^\d+$`)

// Search busca en el snapshot de inventario. Términos de menos de 2
// caracteres no devuelven nada. Un término puramente numérico de 5 o más
// dígitos se trata como lectura de código de barras y solo devuelve la
// coincidencia exacta. El resto busca por contención en código o nombre,
// ignorando mayúsculas y tildes.
func (s *State) Search(term string) []*entity.InventoryItem {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil
	}

	if numericRe.MatchString(term) && len(term) >= 5 {
		if item := s.FindByCode(term); item != nil {
			return []*entity.InventoryItem{item}
		}
		return nil
	}

	needle := foldSearch(term)
	var out []*entity.InventoryItem
	for _, item := range s.Inventory {
		if strings.Contains(foldSearch(item.Code), needle) ||
			strings.Contains(foldSearch(item.ProductName), needle) {
			out = append(out, item)
			if len(out) == searchLimit {
				break
			}
		}
	}
	return out
}

// foldSearch normaliza un texto para búsqueda: sin tildes y en minúsculas
// ("MARTÍLLO" y "martillo" deben coincidir).
var searchFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldSearch(s string) string {
	folded, _, err := transform.String(searchFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

func zoneString(zone int) string {
	if zone <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", zone)
}
