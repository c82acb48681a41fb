package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, codigo, nombre_producto, precio, precio_proveedor, zona, stock, stock_minimo, unidad_paquete, proveedor_id, updated_at`

// ListAll devuelve el inventario completo (snapshot de búsqueda del asistente).
func (r *InventoryRepo) ListAll() ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM ferre_inventario ORDER BY codigo`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	return scanInventoryRows(rows)
}

// GetByCodes obtiene los productos cuyos códigos están en la lista dada.
// El caller particiona la lista; aquí se consulta tal cual llega.
func (r *InventoryRepo) GetByCodes(codes []string) ([]*entity.InventoryItem, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	query := `SELECT ` + inventoryColumns + ` FROM ferre_inventario WHERE codigo = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, codes)
	if err != nil {
		return nil, fmt.Errorf("get inventory by codes: %w", err)
	}
	defer rows.Close()
	return scanInventoryRows(rows)
}

// UpsertByCode inserta o actualiza por codigo (ON CONFLICT) y devuelve las
// filas resultantes con sus IDs. El stock no se toca aquí: los incrementos
// son una fase aparte de la reconciliación.
func (r *InventoryRepo) UpsertByCode(items []*entity.InventoryItem) ([]*entity.InventoryItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	query := `
		INSERT INTO ferre_inventario (id, codigo, nombre_producto, precio, precio_proveedor, zona, stock, stock_minimo, unidad_paquete, proveedor_id, updated_at)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (codigo) DO UPDATE SET
			nombre_producto  = EXCLUDED.nombre_producto,
			precio           = EXCLUDED.precio,
			precio_proveedor = EXCLUDED.precio_proveedor,
			zona             = EXCLUDED.zona,
			unidad_paquete   = EXCLUDED.unidad_paquete,
			proveedor_id     = EXCLUDED.proveedor_id,
			updated_at       = now()
		RETURNING ` + inventoryColumns

	out := make([]*entity.InventoryItem, 0, len(items))
	for _, item := range items {
		var row entity.InventoryItem
		var zone *int
		var unitType, supplierID *string
		if item.Zone > 0 {
			zone = &item.Zone
		}
		err := r.q.QueryRow(context.Background(), query,
			item.ID, item.Code, item.ProductName, item.SalePrice, item.SupplierPrice,
			zone, item.Stock, item.MinStock,
			nullIfEmpty(item.UnitType), nullIfEmpty(item.SupplierID),
		).Scan(
			&row.ID, &row.Code, &row.ProductName, &row.SalePrice, &row.SupplierPrice,
			&zone, &row.Stock, &row.MinStock, &unitType, &supplierID, &row.UpdatedAt,
		)
		if err != nil {
			return out, fmt.Errorf("upsert inventario %s: %w", item.Code, err)
		}
		if zone != nil {
			row.Zone = *zone
		}
		if unitType != nil {
			row.UnitType = *unitType
		}
		if supplierID != nil {
			row.SupplierID = *supplierID
		}
		out = append(out, &row)
	}
	return out, nil
}

// GetStockByCodes proyección (id, codigo, stock) de los códigos dados.
func (r *InventoryRepo) GetStockByCodes(codes []string) ([]repository.StockRow, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	query := `SELECT id, codigo, stock FROM ferre_inventario WHERE codigo = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, codes)
	if err != nil {
		return nil, fmt.Errorf("get stock by codes: %w", err)
	}
	defer rows.Close()
	var out []repository.StockRow
	for rows.Next() {
		var row repository.StockRow
		if err := rows.Scan(&row.ID, &row.Code, &row.Stock); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UpdateStock fija el stock de una fila.
func (r *InventoryRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE ferre_inventario SET stock = $2, updated_at = now() WHERE id = $1`,
		id, newStock,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// SuggestNextCode propone el siguiente código numérico libre del inventario
// (equivalente de la función sugerir_siguiente_codigo de la base original).
func (r *InventoryRepo) SuggestNextCode() (string, error) {
	query := `
		SELECT COALESCE(MAX(codigo::int), 1000) + 1
		FROM ferre_inventario
		WHERE codigo ~ '^\d+$' AND codigo::int BETWEEN 1001 AND 9999`
	var next int
	err := r.q.QueryRow(context.Background(), query).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "1001", nil
		}
		return "", fmt.Errorf("suggest next code: %w", err)
	}
	return fmt.Sprintf("%d", next), nil
}

func scanInventoryRows(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for rows.Next() {
		var item entity.InventoryItem
		var zone *int
		var unitType, supplierID *string
		var salePrice, supplierPrice, stock, minStock *decimal.Decimal
		if err := rows.Scan(
			&item.ID, &item.Code, &item.ProductName, &salePrice, &supplierPrice,
			&zone, &stock, &minStock, &unitType, &supplierID, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		if salePrice != nil {
			item.SalePrice = *salePrice
		}
		if supplierPrice != nil {
			item.SupplierPrice = *supplierPrice
		}
		if stock != nil {
			item.Stock = *stock
		}
		if minStock != nil {
			item.MinStock = *minStock
		}
		if zone != nil {
			item.Zone = *zone
		}
		if unitType != nil {
			item.UnitType = *unitType
		}
		if supplierID != nil {
			item.SupplierID = *supplierID
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}
