package wizard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/pkg/logger"
)

// memStore almacén de borradores en memoria para las pruebas.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Put(key string, data []byte) error {
	m.data[key] = data
	return nil
}

func (m *memStore) Get(key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func newTestCache(store Store) *Cache {
	return NewCache(store, DraftTTL, logger.Nop())
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func draftState() *State {
	s := NewState(nil)
	s.Supplier = &SupplierRef{ID: "S1", Code: "PRV01", Company: "ACME"}
	s.CurrentStep = StepLineItems
	s.PaymentMethod = "PLAZO"
	s.Discount = mustDec("2.5")
	s.Meta = InvoiceMeta{Number: "F-001", IssueDate: "2026-08-01", DueDate: "2026-09-01"}
	s.LineItems = []LineItem{{
		Code:          "1001",
		Name:          "MARTILLO STANLEY",
		Quantity:      mustDec("3"),
		SupplierPrice: mustDec("10"),
		SalePrice:     mustDec("16.2"),
		Subtotal:      mustDec("30"),
	}}
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardar y restaurar
// ──────────────────────────────────────────────────────────────────────────────

func TestCache_GuardarYRestaurar(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store)

	saved := draftState()
	cache.Save("user-1", saved)

	restored := NewState(nil)
	require.True(t, cache.Load("user-1", restored), "el borrador recién guardado debe restaurarse")

	assert.Equal(t, saved.CurrentStep, restored.CurrentStep)
	require.NotNil(t, restored.Supplier)
	assert.Equal(t, "ACME", restored.Supplier.Company)
	assert.Equal(t, saved.PaymentMethod, restored.PaymentMethod)
	assert.Equal(t, saved.Meta, restored.Meta)
	require.Len(t, restored.LineItems, 1)
	assert.Equal(t, "1001", restored.LineItems[0].Code)
	assert.True(t, restored.LineItems[0].Subtotal.Equal(mustDec("30")))
	assert.True(t, restored.Discount.Equal(mustDec("2.5")))
}

func TestCache_SinBorrador(t *testing.T) {
	cache := newTestCache(newMemStore())
	s := NewState(nil)
	assert.False(t, cache.Load("user-sin-nada", s), "sin borrador guardado no hay restauración")
	assert.Equal(t, StepSupplier, s.CurrentStep)
}

// Un borrador con más de 24 horas se considera abandonado: no se restaura y
// además se elimina del almacén.
func TestCache_BorradorVencido(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store)
	cache.Save("user-1", draftState())

	cache.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	restored := NewState(nil)
	assert.False(t, cache.Load("user-1", restored), "un borrador vencido no debe restaurarse")
	assert.Empty(t, store.data, "el borrador vencido debe eliminarse del almacén")
}

func TestCache_BorradorJustoDentroDeLaVigencia(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store)
	cache.Save("user-1", draftState())

	cache.now = func() time.Time { return time.Now().Add(23 * time.Hour) }

	restored := NewState(nil)
	assert.True(t, cache.Load("user-1", restored), "un borrador de 23 horas sigue vigente")
}

func TestCache_BorradorIlegible(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store)
	store.data["user-1"] = []byte("{esto no es json")

	restored := NewState(nil)
	assert.False(t, cache.Load("user-1", restored))
	assert.Empty(t, store.data, "un borrador ilegible debe descartarse del almacén")
}

// Un borrador con un paso fuera de rango se restaura acotado al paso 1.
func TestCache_PasoFueraDeRango(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store)

	s := draftState()
	s.CurrentStep = 99
	cache.Save("user-1", s)

	restored := NewState(nil)
	require.True(t, cache.Load("user-1", restored))
	assert.Equal(t, StepSupplier, restored.CurrentStep)
}

func TestCache_Clear(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store)
	cache.Save("user-1", draftState())

	cache.Clear("user-1")
	assert.False(t, cache.Load("user-1", NewState(nil)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones
// ──────────────────────────────────────────────────────────────────────────────

type stubLoader struct{}

func (stubLoader) ListAll() ([]*entity.InventoryItem, error) { return nil, nil }

func TestManager_PrimerAccesoRestauraBorrador(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store)
	cache.Save("user-1", draftState())

	mgr := NewManager(cache, stubLoader{})
	sess, err := mgr.Get("user-1")
	require.NoError(t, err)

	assert.True(t, sess.Restored(), "con borrador vigente la sesión arranca restaurada")
	sess.View(func(s *State) {
		assert.Equal(t, StepLineItems, s.CurrentStep)
		require.NotNil(t, s.Supplier)
		assert.Equal(t, "S1", s.Supplier.ID)
	})

	again, err := mgr.Get("user-1")
	require.NoError(t, err)
	assert.Same(t, sess, again, "el segundo acceso reutiliza la misma sesión")
}

func TestSession_MutateGuardaElBorrador(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(newTestCache(store), stubLoader{})
	sess, err := mgr.Get("user-1")
	require.NoError(t, err)

	require.NoError(t, sess.Mutate(func(s *State) error {
		return s.SelectSupplier(SupplierRef{ID: "S1", Code: "PRV01", Company: "ACME"})
	}))
	assert.NotEmpty(t, store.data, "cada mutación exitosa persiste el borrador")

	err = sess.Mutate(func(s *State) error { return domain.ErrInvalidInput })
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSession_DobleGuardadoRechazado(t *testing.T) {
	mgr := NewManager(newTestCache(newMemStore()), stubLoader{})
	sess, err := mgr.Get("user-1")
	require.NoError(t, err)

	require.NoError(t, sess.BeginSubmit())
	assert.ErrorIs(t, sess.BeginSubmit(), domain.ErrSubmitInFlight,
		"el segundo intento de guardado debe rechazarse")

	sess.EndSubmit()
	assert.NoError(t, sess.BeginSubmit(), "al terminar el guardado se acepta otro")
}

func TestSession_FinishSubmitReiniciaYLimpia(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store)
	cache.Save("user-1", draftState())

	mgr := NewManager(cache, stubLoader{})
	sess, err := mgr.Get("user-1")
	require.NoError(t, err)

	sess.FinishSubmit()

	assert.Empty(t, store.data, "el borrador guardado debe eliminarse tras la factura")
	assert.False(t, sess.Restored())
	sess.View(func(s *State) {
		assert.Equal(t, StepSupplier, s.CurrentStep)
		assert.Nil(t, s.Supplier)
		assert.Empty(t, s.LineItems)
	})
}

func TestSession_SnapshotNoComparteLineas(t *testing.T) {
	mgr := NewManager(newTestCache(newMemStore()), stubLoader{})
	sess, err := mgr.Get("user-1")
	require.NoError(t, err)

	require.NoError(t, sess.Mutate(func(s *State) error {
		return s.AddNewProduct("1050", "LLAVE", mustDec("1"), mustDec("10"), mustDec("16.2"), "")
	}))

	snap := sess.Snapshot()
	require.NoError(t, sess.Mutate(func(s *State) error { return s.RemoveItem(0) }))

	assert.Len(t, snap.LineItems, 1, "el snapshot no debe verse afectado por mutaciones posteriores")
}
