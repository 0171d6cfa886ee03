package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/mantenimiento-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// 10 @ 100.00 + 10 @ 200.00 → 150.00 exacto.
func TestWeightedAverageCost_PromedioExacto(t *testing.T) {
	got := inventory.WeightedAverageCost(d("10"), d("100.00"), d("10"), d("200.00"))
	assert.True(t, got.Equal(d("150.00")), "esperado 150.00, obtenido %s", got)
}

// Sin stock previo el CPP es el costo de la entrada.
func TestWeightedAverageCost_ArranqueEnFrio(t *testing.T) {
	got := inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, d("5"), d("80.00"))
	assert.True(t, got.Equal(d("80.00")), "esperado 80.00, obtenido %s", got)
}

func TestWeightedAverageCost_RedondeoMitadArriba(t *testing.T) {
	cases := []struct {
		name                       string
		stock, cost, qty, unitCost string
		want                       string
	}{
		// (1*10 + 2*10.01)/3 = 10.006666… → 10.01
		{"redondea hacia arriba", "1", "10", "2", "10.01", "10.01"},
		// (1*0.01 + 1*0)/2 = 0.005 → 0.01
		{"mitad exacta sube", "1", "0.01", "1", "0", "0.01"},
		// (3*10 + 1*11)/4 = 10.25
		{"sin redondeo", "3", "10", "1", "11", "10.25"},
		// (2*10 + 1*10.01)/3 = 10.00333… → 10.00
		{"redondea hacia abajo", "2", "10", "1", "10.01", "10.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.WeightedAverageCost(d(tc.stock), d(tc.cost), d(tc.qty), d(tc.unitCost))
			assert.True(t, got.Equal(d(tc.want)), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}

// Recalcular muchas veces con decimales no acumula deriva.
func TestWeightedAverageCost_SinDeriva(t *testing.T) {
	stock := decimal.Zero
	cost := decimal.Zero
	for i := 0; i < 1000; i++ {
		cost = inventory.WeightedAverageCost(stock, cost, d("1"), d("0.10"))
		stock = stock.Add(d("1"))
	}
	assert.True(t, cost.Equal(d("0.10")), "esperado 0.10, obtenido %s", cost)
}
