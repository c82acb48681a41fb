package repository

import "github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"

// SupplierRepository acceso a ferre_proveedores.
type SupplierRepository interface {
	List() ([]*entity.Supplier, error)
	GetByID(id string) (*entity.Supplier, error)
	Create(s *entity.Supplier) error
}
