package purchasing_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/purchasing"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/wizard"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
	"github.com/ferrisoluciones/ferreteria-api/pkg/logger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeInventoryRepo repositorio de inventario en memoria. Los incrementos de
// stock corren en paralelo, así que todas las operaciones toman el candado.
type fakeInventoryRepo struct {
	mu    sync.Mutex
	items map[string]*entity.InventoryItem // por código
	seq   int

	lookupErr      error           // fuerza el fallo de GetByCodes
	failStockForID map[string]bool // fuerza el fallo de UpdateStock por ID
	upsertErr      error
}

func newFakeInventoryRepo(items ...*entity.InventoryItem) *fakeInventoryRepo {
	repo := &fakeInventoryRepo{
		items:          make(map[string]*entity.InventoryItem),
		failStockForID: make(map[string]bool),
	}
	for _, item := range items {
		repo.items[item.Code] = item
	}
	return repo
}

func (f *fakeInventoryRepo) ListAll() ([]*entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.InventoryItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeInventoryRepo) GetByCodes(codes []string) ([]*entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var out []*entity.InventoryItem
	for _, code := range codes {
		if item, ok := f.items[code]; ok {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) UpsertByCode(rows []*entity.InventoryItem) ([]*entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	out := make([]*entity.InventoryItem, 0, len(rows))
	for _, row := range rows {
		cp := *row
		if prev, ok := f.items[row.Code]; ok {
			cp.ID = prev.ID
			cp.Stock = prev.Stock
		} else {
			f.seq++
			cp.ID = fmt.Sprintf("gen-%d", f.seq)
			cp.Stock = decimal.Zero
		}
		f.items[cp.Code] = &cp
		result := cp
		out = append(out, &result)
	}
	return out, nil
}

func (f *fakeInventoryRepo) GetStockByCodes(codes []string) ([]repository.StockRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.StockRow
	for _, code := range codes {
		if item, ok := f.items[code]; ok {
			out = append(out, repository.StockRow{ID: item.ID, Code: item.Code, Stock: item.Stock})
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStockForID[id] {
		return errors.New("update fallido")
	}
	for _, item := range f.items {
		if item.ID == id {
			item.Stock = newStock
			return nil
		}
	}
	return errors.New("id no encontrado")
}

func (f *fakeInventoryRepo) SuggestNextCode() (string, error) {
	return "1001", nil
}

func (f *fakeInventoryRepo) stockOf(code string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item, ok := f.items[code]; ok {
		return item.Stock
	}
	return decimal.Zero
}

func resultFor(t *testing.T, results []purchasing.ItemResult, code string) purchasing.ItemResult {
	t.Helper()
	for _, r := range results {
		if r.Code == code {
			return r
		}
	}
	t.Fatalf("no hay resultado para el código %s", code)
	return purchasing.ItemResult{}
}

func line(code, name string, qty, supplierPrice string) wizard.LineItem {
	return wizard.LineItem{
		Code:          code,
		Name:          name,
		Quantity:      dec(qty),
		SupplierPrice: dec(supplierPrice),
		SalePrice:     dec(supplierPrice).Mul(dec("1.5")),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_ProductoExistenteIncrementaStock(t *testing.T) {
	repo := newFakeInventoryRepo(&entity.InventoryItem{
		ID: "p1", Code: "1001", ProductName: "MARTILLO", Stock: dec("5"),
	})
	rec := purchasing.NewReconciler(repo, logger.Nop())

	results, err := rec.Reconcile("prov-1", []wizard.LineItem{line("1001", "MARTILLO", "3", "10")})
	require.NoError(t, err)

	res := resultFor(t, results, "1001")
	assert.Equal(t, purchasing.ActionUpdated, res.Action)
	assert.True(t, res.PreviousStock.Equal(dec("5")), "stock previo debe ser 5, dio %s", res.PreviousStock)
	assert.True(t, res.NewStock.Equal(dec("8")), "5 + 3 comprados = 8, dio %s", res.NewStock)
	assert.True(t, repo.stockOf("1001").Equal(dec("8")))
}

func TestReconcile_ProductoNuevoSeInsertaConSuCantidad(t *testing.T) {
	repo := newFakeInventoryRepo()
	rec := purchasing.NewReconciler(repo, logger.Nop())

	results, err := rec.Reconcile("prov-1", []wizard.LineItem{line("2001", "TALADRO", "2", "80")})
	require.NoError(t, err)

	res := resultFor(t, results, "2001")
	assert.Equal(t, purchasing.ActionInserted, res.Action)
	assert.True(t, res.NewStock.Equal(dec("2")), "el producto nuevo queda con su cantidad comprada")
	assert.True(t, repo.stockOf("2001").Equal(dec("2")))
}

// Si la consulta de la fase 1 falla la línea se trata como nueva y el upsert
// por código resuelve el conflicto; la reconciliación no se detiene.
func TestReconcile_ConsultaFallidaNoDetiene(t *testing.T) {
	repo := newFakeInventoryRepo(&entity.InventoryItem{
		ID: "p1", Code: "1001", ProductName: "MARTILLO", Stock: dec("5"),
	})
	repo.lookupErr = errors.New("timeout")
	rec := purchasing.NewReconciler(repo, logger.Nop())

	results, err := rec.Reconcile("prov-1", []wizard.LineItem{line("1001", "MARTILLO", "3", "10")})
	require.NoError(t, err)

	res := resultFor(t, results, "1001")
	assert.Equal(t, purchasing.ActionInserted, res.Action, "sin lectura previa la línea se clasifica como nueva")
	assert.True(t, repo.stockOf("1001").Equal(dec("8")), "el upsert conservó la fila y el incremento se aplicó")
}

// Un producto nuevo sin cantidad no tiene stock inicial resoluble: se aborta
// todo antes de escribir nada.
func TestReconcile_NuevoSinCantidadAborta(t *testing.T) {
	repo := newFakeInventoryRepo(&entity.InventoryItem{
		ID: "p1", Code: "1001", ProductName: "MARTILLO", Stock: dec("5"),
	})
	rec := purchasing.NewReconciler(repo, logger.Nop())

	_, err := rec.Reconcile("prov-1", []wizard.LineItem{
		line("1001", "MARTILLO", "3", "10"),
		line("2001", "TALADRO", "0", "80"),
	})

	var missing *purchasing.ErrMissingStock
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"2001"}, missing.Codes)
	assert.True(t, repo.stockOf("1001").Equal(dec("5")), "nada debe escribirse cuando se aborta")
}

// Un producto existente con cantidad no positiva solo se omite: no hay nada
// que sumar pero el resto de la factura continúa.
func TestReconcile_ExistenteSinCantidadSeOmite(t *testing.T) {
	repo := newFakeInventoryRepo(
		&entity.InventoryItem{ID: "p1", Code: "1001", ProductName: "MARTILLO", Stock: dec("5")},
		&entity.InventoryItem{ID: "p2", Code: "1002", ProductName: "CLAVOS", Stock: dec("50")},
	)
	rec := purchasing.NewReconciler(repo, logger.Nop())

	results, err := rec.Reconcile("prov-1", []wizard.LineItem{
		line("1001", "MARTILLO", "0", "10"),
		line("1002", "CLAVOS", "10", "2"),
	})
	require.NoError(t, err)

	assert.Equal(t, purchasing.ActionSkipped, resultFor(t, results, "1001").Action)
	assert.True(t, repo.stockOf("1001").Equal(dec("5")), "la línea omitida no toca el stock")

	res := resultFor(t, results, "1002")
	assert.Equal(t, purchasing.ActionUpdated, res.Action)
	assert.True(t, repo.stockOf("1002").Equal(dec("60")))
}

// Cada incremento falla o acierta por su cuenta: un fallo en una línea no
// detiene a las demás.
func TestReconcile_FalloAisladoPorLinea(t *testing.T) {
	repo := newFakeInventoryRepo(
		&entity.InventoryItem{ID: "p1", Code: "1001", ProductName: "MARTILLO", Stock: dec("5")},
		&entity.InventoryItem{ID: "p2", Code: "1002", ProductName: "CLAVOS", Stock: dec("50")},
	)
	repo.failStockForID["p1"] = true
	rec := purchasing.NewReconciler(repo, logger.Nop())

	results, err := rec.Reconcile("prov-1", []wizard.LineItem{
		line("1001", "MARTILLO", "3", "10"),
		line("1002", "CLAVOS", "10", "2"),
	})
	require.NoError(t, err, "un incremento fallido no es error de la reconciliación")

	failed := resultFor(t, results, "1001")
	assert.Equal(t, purchasing.ActionUpdateFailed, failed.Action)
	assert.NotEmpty(t, failed.Error)

	ok := resultFor(t, results, "1002")
	assert.Equal(t, purchasing.ActionUpdated, ok.Action)
	assert.True(t, repo.stockOf("1002").Equal(dec("60")))
}

// El upsert de metadatos es de todo o nada: si falla, todas las líneas
// pendientes quedan marcadas y se devuelve el error.
func TestReconcile_UpsertFallidoMarcaTodo(t *testing.T) {
	repo := newFakeInventoryRepo(&entity.InventoryItem{
		ID: "p1", Code: "1001", ProductName: "MARTILLO", Stock: dec("5"),
	})
	repo.upsertErr = errors.New("conexión perdida")
	rec := purchasing.NewReconciler(repo, logger.Nop())

	results, err := rec.Reconcile("prov-1", []wizard.LineItem{
		line("1001", "MARTILLO", "3", "10"),
		line("2001", "TALADRO", "2", "80"),
	})
	require.Error(t, err)

	assert.Equal(t, purchasing.ActionFailed, resultFor(t, results, "1001").Action)
	assert.Equal(t, purchasing.ActionFailed, resultFor(t, results, "2001").Action)
	assert.True(t, repo.stockOf("1001").Equal(dec("5")))
}

// Más líneas que el tamaño de lote: todas deben procesarse.
func TestReconcile_MasLineasQueElLote(t *testing.T) {
	var seed []*entity.InventoryItem
	var items []wizard.LineItem
	for i := 0; i < 40; i++ {
		code := fmt.Sprintf("3%03d", i)
		seed = append(seed, &entity.InventoryItem{
			ID: "p-" + code, Code: code, ProductName: "PROD " + code, Stock: dec("1"),
		})
		items = append(items, line(code, "PROD "+code, "2", "5"))
	}
	repo := newFakeInventoryRepo(seed...)
	rec := purchasing.NewReconciler(repo, logger.Nop())

	results, err := rec.Reconcile("prov-1", items)
	require.NoError(t, err)
	require.Len(t, results, 40)

	for _, res := range results {
		assert.Equal(t, purchasing.ActionUpdated, res.Action, "código %s", res.Code)
		assert.True(t, res.NewStock.Equal(dec("3")), "código %s: 1 + 2 = 3, dio %s", res.Code, res.NewStock)
	}
}

func TestReconcile_SinLineas(t *testing.T) {
	rec := purchasing.NewReconciler(newFakeInventoryRepo(), logger.Nop())
	results, err := rec.Reconcile("prov-1", nil)
	assert.NoError(t, err)
	assert.Nil(t, results)
}
