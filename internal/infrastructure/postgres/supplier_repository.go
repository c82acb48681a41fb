package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// List lista todos los proveedores ordenados por empresa.
func (r *SupplierRepo) List() ([]*entity.Supplier, error) {
	query := `
		SELECT id, codigo, empresa, vendedor, contacto, created_at
		FROM ferre_proveedores ORDER BY empresa`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		var vendor, contact *string
		if err := rows.Scan(&s.ID, &s.Code, &s.Company, &vendor, &contact, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		if vendor != nil {
			s.Vendor = *vendor
		}
		if contact != nil {
			s.Contact = *contact
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// GetByID obtiene un proveedor por ID. Devuelve nil si no existe.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `
		SELECT id, codigo, empresa, vendedor, contacto, created_at
		FROM ferre_proveedores WHERE id = $1`
	var s entity.Supplier
	var vendor, contact *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Code, &s.Company, &vendor, &contact, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	if vendor != nil {
		s.Vendor = *vendor
	}
	if contact != nil {
		s.Contact = *contact
	}
	return &s, nil
}

// Create persiste un proveedor nuevo. El código es único.
func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	query := `
		INSERT INTO ferre_proveedores (id, codigo, empresa, vendedor, contacto, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.Code, supplier.Company,
		nullIfEmpty(supplier.Vendor), nullIfEmpty(supplier.Contact), supplier.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}
