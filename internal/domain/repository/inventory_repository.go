package repository

import (
	"github.com/shopspring/decimal"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
)

// StockRow proyección ligera (id, codigo, stock) usada en la fase de
// incrementos de stock de la reconciliación.
type StockRow struct {
	ID    string
	Code  string
	Stock decimal.Decimal
}

// InventoryRepository acceso a ferre_inventario.
// GetByCodes y GetStockByCodes reciben lotes ya particionados por el caller;
// el tamaño de lote es decisión de la reconciliación, no del repositorio.
type InventoryRepository interface {
	ListAll() ([]*entity.InventoryItem, error)
	GetByCodes(codes []string) ([]*entity.InventoryItem, error)
	// UpsertByCode inserta o actualiza por codigo (ON CONFLICT) y devuelve
	// las filas resultantes con sus IDs.
	UpsertByCode(rows []*entity.InventoryItem) ([]*entity.InventoryItem, error)
	GetStockByCodes(codes []string) ([]StockRow, error)
	UpdateStock(id string, newStock decimal.Decimal) error
	// SuggestNextCode equivale a la RPC sugerir_siguiente_codigo del sistema
	// original: propone el siguiente código numérico libre.
	SuggestNextCode() (string, error)
}
