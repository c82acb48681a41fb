// Package catalog contiene las operaciones de catálogo que acompañan al
// asistente: alta de proveedores, listados y sugerencia del siguiente código
// de producto.
package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
	"github.com/ferrisoluciones/ferreteria-api/pkg/logger"
)

// Rango reservado para códigos asignados a mano desde el asistente.
const (
	manualCodeMin = 1001
	manualCodeMax = 9999
)

// UseCase operaciones de catálogo.
type UseCase struct {
	supplierRepo  repository.SupplierRepository
	inventoryRepo repository.InventoryRepository
	log           *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(supplierRepo repository.SupplierRepository, inventoryRepo repository.InventoryRepository, log *logger.Logger) *UseCase {
	return &UseCase{supplierRepo: supplierRepo, inventoryRepo: inventoryRepo, log: log}
}

// ListSuppliers lista los proveedores para el selector del paso 1.
func (uc *UseCase) ListSuppliers() ([]*entity.Supplier, error) {
	return uc.supplierRepo.List()
}

// CreateSupplier da de alta un proveedor desde el modal del paso 1.
// Código y empresa son obligatorios; el código es único.
func (uc *UseCase) CreateSupplier(code, company, vendor, contact string) (*entity.Supplier, error) {
	code = strings.TrimSpace(code)
	company = strings.TrimSpace(company)
	if code == "" || company == "" {
		return nil, domain.ErrInvalidInput
	}

	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Code:      strings.ToUpper(code),
		Company:   strings.ToUpper(company),
		Vendor:    strings.TrimSpace(vendor),
		Contact:   strings.TrimSpace(contact),
		CreatedAt: time.Now(),
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	uc.log.Info().Str("codigo", supplier.Code).Msg("proveedor creado")
	return supplier, nil
}

// ListInventory devuelve el snapshot de inventario completo.
func (uc *UseCase) ListInventory() ([]*entity.InventoryItem, error) {
	return uc.inventoryRepo.ListAll()
}

// SuggestNextCode propone el código del siguiente producto nuevo: parte de la
// sugerencia de la base y la ajusta para no chocar con los códigos manuales
// ya usados en la factura en curso ni en el inventario conocido.
// Los códigos manuales viven en el rango 1001..9999.
func (uc *UseCase) SuggestNextCode(inUse []string) (string, error) {
	suggested, err := uc.inventoryRepo.SuggestNextCode()
	if err != nil {
		return "", err
	}

	// La sugerencia de la base ya es el siguiente código libre; los códigos de
	// la factura en curso aún no están en la base, así que el mayor de ellos
	// más uno puede ir por delante.
	next := manualCodeMin
	if n, err := strconv.Atoi(suggested); err == nil && n >= manualCodeMin && n <= manualCodeMax {
		next = n
	}
	for _, code := range inUse {
		n, err := strconv.Atoi(code)
		if err != nil {
			continue
		}
		if n >= manualCodeMin && n <= manualCodeMax && n+1 > next {
			next = n + 1
		}
	}

	if next > manualCodeMax {
		return "", domain.ErrInvalidInput
	}
	return strconv.Itoa(next), nil
}
