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

var _ repository.SupplierInvoiceRepository = (*SupplierInvoiceRepo)(nil)

// SupplierInvoiceRepo implementación sobre PostgreSQL (usable con pool o tx).
type SupplierInvoiceRepo struct {
	q Querier
}

// NewSupplierInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierInvoiceRepository(q Querier) *SupplierInvoiceRepo {
	return &SupplierInvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *SupplierInvoiceRepo) Create(inv *entity.SupplierInvoice) error {
	query := `
		INSERT INTO ferre_facturas_proveedores (id, numero_factura, fecha_emision, fecha_vencimiento, proveedor_id, total, iva, descuento, saldo_pendiente, notas, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Number, inv.IssueDate, nullIfEmpty(inv.DueDate), inv.SupplierID,
		inv.Total, inv.Tax, inv.Discount, inv.OutstandingBalance,
		nullIfEmpty(inv.Notes), inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier invoice: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de detalle.
func (r *SupplierInvoiceRepo) CreateLine(line *entity.SupplierInvoiceLine) error {
	query := `
		INSERT INTO ferre_detalle_facturas_proveedores (id, factura_id, producto_id, codigo_producto, nombre_producto, cantidad, precio_proveedor, precio_venta, porcentaje_ganancia, zona, es_producto_nuevo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, nullIfEmpty(line.ProductID), line.ProductCode, line.ProductName,
		line.Quantity, line.SupplierPrice, line.SalePrice, line.MarginPercent,
		nullIfEmpty(line.Zone), line.IsNewProduct,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID. Devuelve nil si no existe.
func (r *SupplierInvoiceRepo) GetByID(id string) (*entity.SupplierInvoice, error) {
	query := `
		SELECT id, numero_factura, fecha_emision, fecha_vencimiento, proveedor_id, total, iva, descuento, saldo_pendiente, notas, created_at
		FROM ferre_facturas_proveedores WHERE id = $1`
	var inv entity.SupplierInvoice
	var dueDate, notes *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.Number, &inv.IssueDate, &dueDate, &inv.SupplierID,
		&inv.Total, &inv.Tax, &inv.Discount, &inv.OutstandingBalance, &notes, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier invoice: %w", err)
	}
	if dueDate != nil {
		inv.DueDate = *dueDate
	}
	if notes != nil {
		inv.Notes = *notes
	}
	return &inv, nil
}

// GetLinesByInvoiceID devuelve el detalle completo de una factura.
func (r *SupplierInvoiceRepo) GetLinesByInvoiceID(invoiceID string) ([]*entity.SupplierInvoiceLine, error) {
	query := `
		SELECT id, factura_id, producto_id, codigo_producto, nombre_producto, cantidad, precio_proveedor, precio_venta, porcentaje_ganancia, zona, es_producto_nuevo
		FROM ferre_detalle_facturas_proveedores WHERE factura_id = $1`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierInvoiceLine
	for rows.Next() {
		var line entity.SupplierInvoiceLine
		var productID, zone *string
		if err := rows.Scan(
			&line.ID, &line.InvoiceID, &productID, &line.ProductCode, &line.ProductName,
			&line.Quantity, &line.SupplierPrice, &line.SalePrice, &line.MarginPercent,
			&zone, &line.IsNewProduct,
		); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		if productID != nil {
			line.ProductID = *productID
		}
		if zone != nil {
			line.Zone = *zone
		}
		list = append(list, &line)
	}
	return list, rows.Err()
}
