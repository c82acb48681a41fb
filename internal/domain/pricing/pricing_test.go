package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// PriceWithFactors / SalePriceForMargin
// ──────────────────────────────────────────────────────────────────────────────

// Vector de referencia: costo 10 al 38% → 10 * 1.38 * 1.02 * 1.15 = 16.1874,
// redondeado a décimas queda 16.20.
func TestSalePriceForMargin_VectorDeReferencia(t *testing.T) {
	sale := pricing.SalePriceForMargin(dec("10"), 38)
	assert.True(t, sale.Equal(dec("16.2")),
		"costo 10 al 38%% debe dar 16.20, dio %s", sale)
}

func TestSalePriceForMargin_TodosLosPorcentajes(t *testing.T) {
	cases := map[int64]string{
		10: "12.9",
		20: "14.1",
		30: "15.3",
		38: "16.2",
		45: "17",
		48: "17.4",
	}
	for pct, want := range cases {
		sale := pricing.SalePriceForMargin(dec("10"), pct)
		assert.True(t, sale.Equal(dec(want)),
			"costo 10 al %d%% debe dar %s, dio %s", pct, want, sale)
	}
}

func TestPriceWithFactors_EntradasNoPositivas(t *testing.T) {
	assert.True(t, pricing.PriceWithFactors(decimal.Zero, 38).IsZero(),
		"costo cero debe dar precio cero")
	assert.True(t, pricing.PriceWithFactors(dec("-5"), 38).IsZero(),
		"costo negativo debe dar precio cero")
	assert.True(t, pricing.PriceWithFactors(dec("10"), 0).IsZero(),
		"porcentaje cero debe dar precio cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// RoundPrice
// ──────────────────────────────────────────────────────────────────────────────

func TestRoundPrice_Casos(t *testing.T) {
	cases := []struct{ in, want string }{
		{"16.1874", "16.2"},
		{"12.903", "12.9"},
		{"15.249", "15.3"},
		{"17.0085", "17"},
		{"14.076", "14.1"},
		{"5", "5"},
		{"0", "0"},
		{"-3", "0"},
	}
	for _, tc := range cases {
		got := pricing.RoundPrice(dec(tc.in))
		assert.True(t, got.Equal(dec(tc.want)),
			"RoundPrice(%s) debe dar %s, dio %s", tc.in, tc.want, got)
	}
}

// Aplicar el redondeo sobre un precio ya redondeado no debe cambiarlo.
func TestRoundPrice_Idempotente(t *testing.T) {
	for _, s := range []string{"12.9", "14.1", "15.3", "16.2", "17", "17.4", "0.1", "100"} {
		once := pricing.RoundPrice(dec(s))
		twice := pricing.RoundPrice(once)
		assert.True(t, once.Equal(twice),
			"RoundPrice debe ser idempotente en %s: %s vs %s", s, once, twice)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// NearestMarginTier
// ──────────────────────────────────────────────────────────────────────────────

// Ida y vuelta: el precio calculado para cada porcentaje debe resolver de
// regreso al mismo porcentaje.
func TestNearestMarginTier_IdaYVuelta(t *testing.T) {
	purchase := dec("10")
	for _, pct := range pricing.MarginTiers {
		sale := pricing.SalePriceForMargin(purchase, pct)
		got, ok := pricing.NearestMarginTier(purchase, sale)
		require.True(t, ok, "el precio del %d%% debe resolver a un porcentaje", pct)
		assert.Equal(t, pct, got, "el precio %s debe resolver al %d%%", sale, pct)
	}
}

func TestNearestMarginTier_FueraDeTolerancia(t *testing.T) {
	_, ok := pricing.NearestMarginTier(dec("10"), dec("99"))
	assert.False(t, ok, "un precio lejos de todos los porcentajes no debe resolver")
}

func TestNearestMarginTier_EntradasNoPositivas(t *testing.T) {
	_, ok := pricing.NearestMarginTier(decimal.Zero, dec("16.2"))
	assert.False(t, ok)
	_, ok = pricing.NearestMarginTier(dec("10"), decimal.Zero)
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// SuggestedSalePrice / MarginPercent
// ──────────────────────────────────────────────────────────────────────────────

func TestSuggestedSalePrice_UsaPorcentajePorDefecto(t *testing.T) {
	suggested := pricing.SuggestedSalePrice(dec("10"))
	explicit := pricing.SalePriceForMargin(dec("10"), pricing.DefaultMargin)
	assert.True(t, suggested.Equal(explicit),
		"el precio sugerido debe coincidir con el del porcentaje por defecto")
}

func TestMarginPercent(t *testing.T) {
	got := pricing.MarginPercent(dec("10"), dec("15"))
	assert.True(t, got.Equal(dec("50")), "de 10 a 15 hay 50%% de ganancia, dio %s", got)

	assert.True(t, pricing.MarginPercent(decimal.Zero, dec("15")).IsZero(),
		"costo cero no tiene porcentaje calculable")
}
