package wizard

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ferrisoluciones/ferreteria-api/pkg/logger"
)

// DraftTTL vigencia máxima de un borrador guardado. Un borrador más viejo se
// considera abandonado y se descarta al intentar restaurarlo.
const DraftTTL = 24 * time.Hour

// Store puerto de persistencia de borradores por clave de usuario.
// Get devuelve (nil, nil) cuando la clave no existe.
type Store interface {
	Put(key string, data []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// draftDoc es el documento serializado de un borrador. Las claves coinciden
// con el formato que venía usando el módulo de captura, de modo que los
// borradores existentes se restauran sin migración.
type draftDoc struct {
	Step          int             `json:"pasoActual"`
	Supplier      *SupplierRef    `json:"proveedorSeleccionado"`
	PaymentMethod string          `json:"metodoPago"`
	Items         []LineItem      `json:"productosEnFactura"`
	Discount      decimal.Decimal `json:"descuento"`
	Meta          InvoiceMeta     `json:"datosFactura"`
	Timestamp     int64           `json:"timestamp"`
}

// Cache guarda y restaura borradores del asistente. Todas sus operaciones son
// de mejor esfuerzo: un fallo del almacén nunca interrumpe la captura, solo
// se pierde la recuperación.
type Cache struct {
	store Store
	ttl   time.Duration
	log   *logger.Logger

	now func() time.Time
}

// NewCache construye la caché de borradores. Con ttl <= 0 se usa DraftTTL.
func NewCache(store Store, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DraftTTL
	}
	return &Cache{store: store, ttl: ttl, log: log, now: time.Now}
}

// Save serializa el estado y lo guarda bajo la clave dada.
func (c *Cache) Save(key string, s *State) {
	doc := draftDoc{
		Step:          s.CurrentStep,
		Supplier:      s.Supplier,
		PaymentMethod: s.PaymentMethod,
		Items:         s.LineItems,
		Discount:      s.Discount,
		Meta:          s.Meta,
		Timestamp:     c.now().UnixMilli(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo serializar el borrador")
		return
	}
	if err := c.store.Put(key, data); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el borrador")
	}
}

// Load restaura un borrador dentro del estado dado. Devuelve false si no hay
// borrador utilizable: ausente, ilegible o vencido (los dos últimos además se
// eliminan del almacén).
func (c *Cache) Load(key string, s *State) bool {
	data, err := c.store.Get(key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo leer el borrador")
		return false
	}
	if data == nil {
		return false
	}

	var doc draftDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("borrador ilegible, se descarta")
		c.Clear(key)
		return false
	}
	if c.now().Sub(time.UnixMilli(doc.Timestamp)) > c.ttl {
		c.log.Info().Str("key", key).Msg("borrador vencido, se descarta")
		c.Clear(key)
		return false
	}

	s.CurrentStep = doc.Step
	if s.CurrentStep < StepSupplier || s.CurrentStep > StepSummary {
		s.CurrentStep = StepSupplier
	}
	s.Supplier = doc.Supplier
	s.PaymentMethod = doc.PaymentMethod
	s.LineItems = doc.Items
	s.Discount = doc.Discount
	s.Meta = doc.Meta
	return true
}

// Clear elimina el borrador de la clave dada.
func (c *Cache) Clear(key string) {
	if err := c.store.Delete(key); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo eliminar el borrador")
	}
}
