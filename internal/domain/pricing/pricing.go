// Package pricing contiene el cálculo de precios de venta de la ferretería:
// precio sugerido a partir del costo del proveedor y un porcentaje de
// ganancia, redondeo a décimas "bonitas" y búsqueda del porcentaje conocido
// más cercano a un par costo/venta.
package pricing

import "github.com/shopspring/decimal"

// MarginTiers porcentajes de ganancia ofrecidos como botones rápidos.
var MarginTiers = []int64{10, 20, 30, 38, 45, 48}

// DefaultMargin porcentaje sugerido cuando el producto no tiene uno activo.
const DefaultMargin int64 = 38

// Factores fijos aplicados sobre el precio con margen: 2% de comisión y
// 15% de IVA sobre la utilidad.
var (
	commissionFactor = decimal.NewFromFloat(1.02)
	taxFactor        = decimal.NewFromFloat(1.15)

	exactTolerance = decimal.NewFromFloat(0.01)
	maxTolerance   = decimal.NewFromFloat(0.05)

	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// PriceWithFactors calcula el precio de venta sin redondear:
// costo * (1 + porcentaje/100) * 1.02 * 1.15.
// Devuelve 0 si el costo o el porcentaje no son positivos (falla en silencio,
// igual que el flujo de captura donde los campos pueden estar a medio llenar).
func PriceWithFactors(purchase decimal.Decimal, marginPct int64) decimal.Decimal {
	if !purchase.IsPositive() || marginPct <= 0 {
		return decimal.Zero
	}
	base := purchase.Mul(decimal.NewFromInt(1).Add(decimal.NewFromInt(marginPct).Div(hundred)))
	return base.Mul(commissionFactor).Mul(taxFactor)
}

// RoundPrice redondea a décimas: separa parte entera y decimal, escala la
// parte decimal a décimas y redondea hacia abajo si el resto fraccionario de
// ese valor es menor a 0.5, hacia arriba en caso contrario. El resultado
// siempre termina en múltiplos de 0.1 (precios de mostrador), nunca en
// centavos sueltos. Es idempotente.
func RoundPrice(price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	whole := price.Floor()
	frac := price.Sub(whole)

	tenths := frac.Mul(hundred).Round(0).Div(ten)
	rem := tenths.Sub(tenths.Floor())

	if rem.LessThan(half) && tenths.IsPositive() {
		return whole.Add(tenths.Floor().Div(ten))
	}
	return whole.Add(tenths.Ceil().Div(ten))
}

// SuggestedSalePrice precio de venta sugerido con el porcentaje por defecto.
func SuggestedSalePrice(purchase decimal.Decimal) decimal.Decimal {
	return RoundPrice(PriceWithFactors(purchase, DefaultMargin))
}

// SalePriceForMargin precio de venta redondeado para un porcentaje dado.
func SalePriceForMargin(purchase decimal.Decimal, marginPct int64) decimal.Decimal {
	return RoundPrice(PriceWithFactors(purchase, marginPct))
}

// NearestMarginTier busca el porcentaje conocido cuyo precio calculado queda
// más cerca del precio de venta dado. Una diferencia menor a 0.01 se trata
// como coincidencia exacta y corta la búsqueda; si la mínima diferencia
// supera 0.05 no hay porcentaje que represente al par y devuelve ok=false.
func NearestMarginTier(purchase, sale decimal.Decimal) (int64, bool) {
	if !purchase.IsPositive() || !sale.IsPositive() {
		return 0, false
	}

	var (
		nearest  int64
		bestDiff decimal.Decimal
		found    bool
	)
	for _, pct := range MarginTiers {
		candidate := RoundPrice(PriceWithFactors(purchase, pct))
		diff := sale.Sub(candidate).Abs()

		if diff.LessThan(exactTolerance) {
			return pct, true
		}
		if !found || diff.LessThan(bestDiff) {
			bestDiff = diff
			nearest = pct
			found = true
		}
	}

	if bestDiff.GreaterThan(maxTolerance) {
		return 0, false
	}
	return nearest, true
}

// MarginPercent porcentaje de ganancia real de un par costo/venta.
// Devuelve 0 si el costo no es positivo.
func MarginPercent(purchase, sale decimal.Decimal) decimal.Decimal {
	if !purchase.IsPositive() {
		return decimal.Zero
	}
	return sale.Sub(purchase).Div(purchase).Mul(hundred)
}
