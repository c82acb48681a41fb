package wizard

import (
	"sync"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
)

// InventoryLoader carga el snapshot de inventario de una sesión nueva.
type InventoryLoader interface {
	ListAll() ([]*entity.InventoryItem, error)
}

// Session un asistente en curso para un usuario. Toda mutación debe pasar por
// Mutate para que el borrador quede guardado tras cada cambio.
type Session struct {
	mu    sync.Mutex
	key   string
	state *State
	cache *Cache

	restored   bool
	submitting bool
}

// Restored indica si la sesión arrancó desde un borrador recuperado.
func (s *Session) Restored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored
}

// Mutate ejecuta fn sobre el estado bajo el candado de la sesión y persiste
// el borrador resultante. Si fn devuelve error no se guarda nada.
func (s *Session) Mutate(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.state); err != nil {
		return err
	}
	s.cache.Save(s.key, s.state)
	return nil
}

// View ejecuta fn con acceso de solo lectura al estado.
func (s *Session) View(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// BeginSubmit marca la sesión como "guardando". Devuelve ErrSubmitInFlight si
// ya hay un guardado en curso; doble clic en "Guardar Factura" no produce dos
// facturas.
func (s *Session) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return domain.ErrSubmitInFlight
	}
	s.submitting = true
	return nil
}

// EndSubmit libera la marca de guardado.
func (s *Session) EndSubmit() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

// Snapshot copia el estado para usarlo fuera del candado (arma el payload de
// guardado). La copia comparte el snapshot de inventario, que es de solo
// lectura.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.state
	cp.LineItems = append([]LineItem(nil), s.state.LineItems...)
	return cp
}

// FinishSubmit limpia el borrador y reinicia el estado conservando el
// snapshot de inventario, listo para la siguiente factura.
func (s *Session) FinishSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Clear(s.key)
	s.state.Reset(true)
	s.restored = false
}

// Close descarta la sesión: borra el borrador y reinicia todo.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Clear(s.key)
	s.state.Reset(false)
	s.restored = false
}

// Manager mantiene una sesión de asistente por usuario autenticado. La
// primera vez que un usuario accede se carga el inventario y se intenta
// restaurar el borrador guardado.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cache     *Cache
	inventory InventoryLoader
}

// NewManager construye el administrador de sesiones.
func NewManager(cache *Cache, inventory InventoryLoader) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		cache:     cache,
		inventory: inventory,
	}
}

// Get devuelve la sesión del usuario, creándola si es la primera vez.
func (m *Manager) Get(userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[userID]; ok {
		return sess, nil
	}

	items, err := m.inventory.ListAll()
	if err != nil {
		return nil, err
	}
	state := NewState(items)
	restored := m.cache.Load(userID, state)

	sess := &Session{key: userID, state: state, cache: m.cache, restored: restored}
	m.sessions[userID] = sess
	return sess, nil
}

// ReloadInventory refresca el snapshot de inventario de la sesión (se invoca
// tras guardar una factura, para que los productos recién insertados se
// encuentren en la siguiente búsqueda).
func (m *Manager) ReloadInventory(userID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	items, err := m.inventory.ListAll()
	if err != nil {
		return err
	}
	sess.mu.Lock()
	sess.state.Inventory = items
	sess.mu.Unlock()
	return nil
}
