package inventory

import "github.com/shopspring/decimal"

// ReplayBalances reconstruye el saldo posterior de cada movimiento recorriendo el ledger hacia atrás
// desde el stock vigente. deltas debe venir del más reciente al más antiguo y cubrir la historia
// completa posterior al primer movimiento pedido; el saldo de la fila i es el stock inmediatamente
// después de aplicar deltas[i].
func ReplayBalances(current decimal.Decimal, deltas []decimal.Decimal) []decimal.Decimal {
	balances := make([]decimal.Decimal, len(deltas))
	acc := current
	for i, d := range deltas {
		balances[i] = acc
		acc = acc.Sub(d)
	}
	return balances
}

// OpeningBalance stock anterior al movimiento más antiguo de la serie.
func OpeningBalance(current decimal.Decimal, deltas []decimal.Decimal) decimal.Decimal {
	acc := current
	for _, d := range deltas {
		acc = acc.Sub(d)
	}
	return acc
}
