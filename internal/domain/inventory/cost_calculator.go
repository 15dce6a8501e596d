package inventory

import "github.com/shopspring/decimal"

// CostCalculator recalcula el costo promedio ponderado que guarda el insumo al registrar una ENTRADA.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un stock previo negativo o nulo no aporta al promedio.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if !stockActual.IsPositive() {
		stockActual = decimal.Zero
	}
	sum := stockActual.Add(cantEntrada)
	if !sum.IsPositive() {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(4)
}
