package purchasing

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/wizard"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
	"github.com/ferrisoluciones/ferreteria-api/pkg/logger"
)

// chunkSize tamaño de lote de las consultas por códigos. Listas de códigos
// arbitrariamente largas no caben en un solo IN.
const chunkSize = 15

// Acciones posibles de una línea durante la reconciliación.
const (
	ActionToUpdate     = "to_update"
	ActionUpdated      = "updated"
	ActionToInsert     = "to_insert"
	ActionInserted     = "inserted"
	ActionUpdateFailed = "update_failed"
	ActionFailed       = "failed"
	ActionSkipped      = "skipped"
)

// ErrMissingStock indica productos nuevos sin cantidad inicial resoluble.
// La reconciliación completa se aborta antes de escribir nada.
type ErrMissingStock struct {
	Codes []string
}

func (e *ErrMissingStock) Error() string {
	return fmt.Sprintf("productos sin stock inicial: %s", strings.Join(e.Codes, ", "))
}

// ItemResult resultado por línea de la reconciliación, con el antes y después
// del stock para la tabla resumen que muestra el shell.
type ItemResult struct {
	Code          string          `json:"codigo"`
	Action        string          `json:"accion"`
	ProductName   string          `json:"producto"`
	PreviousStock decimal.Decimal `json:"stock_anterior"`
	NewStock      decimal.Decimal `json:"stock_nuevo"`
	Quantity      decimal.Decimal `json:"cantidad"`
	Error         string          `json:"error,omitempty"`
}

// Reconciler aplica las líneas de una factura ya guardada sobre
// ferre_inventario: actualiza metadatos, inserta productos nuevos e
// incrementa existencias.
type Reconciler struct {
	inventoryRepo repository.InventoryRepository
	log           *logger.Logger
}

// NewReconciler construye el reconciliador.
func NewReconciler(inventoryRepo repository.InventoryRepository, log *logger.Logger) *Reconciler {
	return &Reconciler{inventoryRepo: inventoryRepo, log: log}
}

// Reconcile ejecuta las tres fases sobre las líneas dadas. Se invoca solo
// después de que la factura quedó confirmada: un fallo aquí se informa en los
// resultados pero nunca revierte la factura.
func (r *Reconciler) Reconcile(supplierID string, items []wizard.LineItem) ([]ItemResult, error) {
	if len(items) == 0 {
		return nil, nil
	}

	// Fase 1: clasificar contra el inventario real consultando por código.
	// Si la consulta falla se asume "no existe": la línea pasa a inserción y
	// el upsert por código resuelve el caso de que sí existiera.
	existing := r.lookupByCode(items)

	results := make([]ItemResult, len(items))
	var missing []string
	for i, item := range items {
		results[i] = ItemResult{
			Code:        item.Code,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Action:      ActionToInsert,
		}
		_, exists := existing[item.Code]
		if exists {
			results[i].Action = ActionToUpdate
		}
		if !item.Quantity.IsPositive() {
			if exists {
				// Existente sin cantidad: no hay nada que sumar.
				results[i].Action = ActionSkipped
				results[i].Error = "cantidad no positiva"
			} else {
				// Nuevo sin stock inicial: no se puede crear la fila.
				missing = append(missing, item.Code)
			}
		}
	}

	// Productos nuevos sin stock inicial abortan todo antes de escribir.
	if len(missing) > 0 {
		return results, &ErrMissingStock{Codes: missing}
	}

	// Fase 2: un solo upsert por código con los metadatos combinados. Para
	// filas existentes se conservan los valores previos cuando la línea no
	// trae uno nuevo.
	rows := r.buildUpsertRows(supplierID, items, results, existing)
	if len(rows) > 0 {
		upserted, err := r.inventoryRepo.UpsertByCode(rows)
		if err != nil {
			r.log.Error().Err(err).Msg("upsert de inventario falló")
			for i := range results {
				if results[i].Action == ActionToUpdate || results[i].Action == ActionToInsert {
					results[i].Action = ActionFailed
					results[i].Error = err.Error()
				}
			}
			return results, fmt.Errorf("upsert inventario: %w", err)
		}
		for _, row := range upserted {
			existing[row.Code] = row
		}
	}

	// Fase 3: releer el stock vigente (la lectura de la fase 1 puede estar
	// vieja) e incrementar por línea en paralelo. Cada línea falla o acierta
	// por su cuenta.
	stocks := r.stockByCode(items)
	r.applyIncrements(items, results, existing, stocks)

	// Cierre: lo insertado que ya aparece en el mapa posterior al upsert
	// queda como inserted.
	for i := range results {
		if results[i].Action == ActionToInsert {
			if _, ok := existing[results[i].Code]; ok {
				results[i].Action = ActionInserted
			}
		}
	}
	return results, nil
}

// lookupByCode consulta el inventario por los códigos de las líneas, en lotes.
func (r *Reconciler) lookupByCode(items []wizard.LineItem) map[string]*entity.InventoryItem {
	codes := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.Code] {
			seen[item.Code] = true
			codes = append(codes, item.Code)
		}
	}

	existing := make(map[string]*entity.InventoryItem, len(codes))
	for _, chunk := range chunks(codes, chunkSize) {
		found, err := r.inventoryRepo.GetByCodes(chunk)
		if err != nil {
			r.log.Warn().Err(err).Strs("codigos", chunk).Msg("consulta de inventario falló, se tratan como nuevos")
			continue
		}
		for _, item := range found {
			existing[item.Code] = item
		}
	}
	return existing
}

// buildUpsertRows arma las filas del upsert combinando la línea con la fila
// previa: un metadato vacío en la línea nunca borra el valor ya guardado.
func (r *Reconciler) buildUpsertRows(
	supplierID string,
	items []wizard.LineItem,
	results []ItemResult,
	existing map[string]*entity.InventoryItem,
) []*entity.InventoryItem {
	rows := make([]*entity.InventoryItem, 0, len(items))
	for i, item := range items {
		if results[i].Action == ActionSkipped {
			continue
		}
		row := &entity.InventoryItem{
			Code:          item.Code,
			ProductName:   item.Name,
			SupplierPrice: item.SupplierPrice,
			SalePrice:     item.SalePrice,
			SupplierID:    supplierID,
			UnitType:      item.UnitType,
		}
		if zone := parseZone(item.Zone); zone > 0 {
			row.Zone = zone
		}
		if prev, ok := existing[item.Code]; ok {
			row.ID = prev.ID
			row.Stock = prev.Stock
			row.MinStock = prev.MinStock
			if row.ProductName == "" {
				row.ProductName = prev.ProductName
			}
			if row.SalePrice.IsZero() {
				row.SalePrice = prev.SalePrice
			}
			if row.Zone == 0 {
				row.Zone = prev.Zone
			}
			if row.UnitType == "" {
				row.UnitType = prev.UnitType
			}
			if row.SupplierID == "" {
				row.SupplierID = prev.SupplierID
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// stockByCode relee el stock vigente de todos los códigos, en lotes.
func (r *Reconciler) stockByCode(items []wizard.LineItem) map[string]repository.StockRow {
	codes := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.Code] {
			seen[item.Code] = true
			codes = append(codes, item.Code)
		}
	}

	stocks := make(map[string]repository.StockRow, len(codes))
	for _, chunk := range chunks(codes, chunkSize) {
		rows, err := r.inventoryRepo.GetStockByCodes(chunk)
		if err != nil {
			r.log.Warn().Err(err).Strs("codigos", chunk).Msg("relectura de stock falló")
			continue
		}
		for _, row := range rows {
			stocks[row.Code] = row
		}
	}
	return stocks
}

// applyIncrements suma la cantidad comprada al stock de cada línea. Los
// incrementos son independientes entre sí, se ejecutan en paralelo y cada uno
// reporta su propio resultado; un fallo no detiene a los demás.
func (r *Reconciler) applyIncrements(
	items []wizard.LineItem,
	results []ItemResult,
	existing map[string]*entity.InventoryItem,
	stocks map[string]repository.StockRow,
) {
	var wg sync.WaitGroup
	for i := range items {
		if results[i].Action == ActionSkipped {
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := &results[i]

			row, ok := stocks[res.Code]
			if !ok {
				// Insertado en la fase 2 pero sin fila de stock releída:
				// se parte del stock del upsert.
				item, found := existing[res.Code]
				if !found {
					res.Action = ActionFailed
					res.Error = "producto no presente tras el upsert"
					return
				}
				row = repository.StockRow{ID: item.ID, Code: item.Code, Stock: item.Stock}
			}

			newStock := row.Stock.Add(results[i].Quantity)
			if err := r.inventoryRepo.UpdateStock(row.ID, newStock); err != nil {
				r.log.Error().Err(err).Str("codigo", res.Code).Msg("incremento de stock falló")
				if res.Action == ActionToUpdate {
					res.Action = ActionUpdateFailed
				} else {
					res.Action = ActionFailed
				}
				res.Error = err.Error()
				return
			}

			res.PreviousStock = row.Stock
			res.NewStock = newStock
			if res.Action == ActionToUpdate {
				res.Action = ActionUpdated
			}
		}(i)
	}
	wg.Wait()
}

// chunks particiona una lista en lotes de a lo sumo size elementos.
func chunks(codes []string, size int) [][]string {
	var out [][]string
	for len(codes) > size {
		out = append(out, codes[:size])
		codes = codes[size:]
	}
	if len(codes) > 0 {
		out = append(out, codes)
	}
	return out
}

func parseZone(zone string) int {
	n, err := strconv.Atoi(strings.TrimSpace(zone))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
