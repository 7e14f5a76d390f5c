package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/domain/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestComputeLine_VectorReferencia valida el vector de referencia del motor:
// 2 unidades a 90 con IVA 19% (aquí 20% para el vector) y descuento 5%:
// subtotal=180, descuento=9, impuesto=(180−9)*0.20=34.2, total=205.2.
func TestComputeLine_VectorReferencia(t *testing.T) {
	line := pricing.ComputeLine(dec("2"), dec("90"), dec("20"), dec("5"))

	assert.True(t, dec("180").Equal(line.Subtotal), "subtotal: %s", line.Subtotal)
	assert.True(t, dec("9").Equal(line.Discount), "descuento: %s", line.Discount)
	assert.True(t, dec("34.2").Equal(line.Tax), "impuesto: %s", line.Tax)
	assert.True(t, dec("205.2").Equal(line.Total), "total: %s", line.Total)
}

// TestComputeLine_ImpuestoSobreBaseDescontada verifica que el impuesto se calcula
// después del descuento, no sobre el subtotal bruto.
func TestComputeLine_ImpuestoSobreBaseDescontada(t *testing.T) {
	line := pricing.ComputeLine(dec("1"), dec("100"), dec("19"), dec("50"))

	// Base descontada 50 → impuesto 9.5; sobre el bruto habría sido 19.
	assert.True(t, dec("9.5").Equal(line.Tax), "impuesto: %s", line.Tax)
	assert.True(t, dec("59.5").Equal(line.Total), "total: %s", line.Total)
}

// TestComputeLine_Identidad verifica la invariante Total = Subtotal + Tax − Discount
// con igualdad decimal exacta sobre una tabla de combinaciones.
func TestComputeLine_Identidad(t *testing.T) {
	cases := []struct {
		name                    string
		qty, price, tax, disc   string
	}{
		{"sin impuesto ni descuento", "3", "10", "0", "0"},
		{"IVA 19 sin descuento", "2", "90", "19", "0"},
		{"descuento total", "5", "12.50", "19", "100"},
		{"cantidad fraccional", "0.001", "19999.99", "5", "3.5"},
		{"precio cero", "10", "0", "19", "10"},
		{"porcentajes fraccionales", "7", "33.33", "8.75", "2.25"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line := pricing.ComputeLine(dec(tc.qty), dec(tc.price), dec(tc.tax), dec(tc.disc))
			want := line.Subtotal.Add(line.Tax).Sub(line.Discount)
			assert.True(t, want.Equal(line.Total),
				"Total %s != Subtotal %s + Tax %s − Discount %s",
				line.Total, line.Subtotal, line.Tax, line.Discount)
		})
	}
}

// TestComputeLine_DescuentoCien deja el impuesto y el total en cero con descuento 100%.
func TestComputeLine_DescuentoCien(t *testing.T) {
	line := pricing.ComputeLine(dec("4"), dec("25"), dec("19"), dec("100"))

	require.True(t, dec("100").Equal(line.Subtotal))
	assert.True(t, dec("100").Equal(line.Discount))
	assert.True(t, line.Tax.IsZero(), "impuesto: %s", line.Tax)
	assert.True(t, line.Total.IsZero(), "total: %s", line.Total)
}

// TestFunciones_ConsistentesConComputeLine verifica que componer las cuatro funciones
// a mano produce exactamente lo mismo que ComputeLine.
func TestFunciones_ConsistentesConComputeLine(t *testing.T) {
	qty, price, rate, disc := dec("2"), dec("90"), dec("20"), dec("5")

	subtotal := pricing.Subtotal(qty, price)
	discount := pricing.Discount(subtotal, disc)
	tax := pricing.Tax(subtotal, discount, rate)
	total := pricing.Total(subtotal, tax, discount)

	line := pricing.ComputeLine(qty, price, rate, disc)
	assert.True(t, subtotal.Equal(line.Subtotal))
	assert.True(t, discount.Equal(line.Discount))
	assert.True(t, tax.Equal(line.Tax))
	assert.True(t, total.Equal(line.Total))
}
