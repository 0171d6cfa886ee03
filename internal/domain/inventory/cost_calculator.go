package inventory

import "github.com/shopspring/decimal"

// costPrecision decimales del costo unitario (precisión de moneda).
const costPrecision = 2

// WeightedAverageCost calcula el costo promedio ponderado (CPP) tras una ENTRADA.
//
//	NuevoStock = StockActual + CantEntrada
//	CPP = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / NuevoStock
//
// Si NuevoStock no es positivo el CPP es el costo de la entrada. El resultado se redondea a 2
// decimales mitad hacia arriba; la división se hace exacta antes de redondear.
func WeightedAverageCost(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	cantEntrada = cantEntrada.Abs()
	newStock := stockActual.Add(cantEntrada)
	if !newStock.IsPositive() {
		return costoEntrada.Round(costPrecision)
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.DivRound(newStock, costPrecision)
}
