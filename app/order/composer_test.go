package order_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telascatalogo/telas/app/cart"
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/order"
)

func sampleLines() []cart.Line {
	return []cart.Line{
		{
			Fabric:   models.Fabric{ID: 1, Name: "Algodón Premium", Material: "Algodón 100%", Color: "Blanco", PricePerMeter: 450},
			Quantity: 2,
			Meters:   2.5,
		},
		{
			Fabric:   models.Fabric{ID: 2, Name: "Seda Elegante", Material: "Seda Natural", Color: "Dorado", PricePerMeter: 1200},
			Quantity: 1,
			Meters:   1.5,
		},
	}
}

const expectedMessage = "*FACTURA - CATÁLOGO DE TELAS*\n\n" +
	"*ARTÍCULOS:*\n" +
	"1. Algodón Premium\n" +
	"   • Material: Algodón 100%\n" +
	"   • Color: Blanco\n" +
	"   • Cantidad: 2.5m\n" +
	"   • Precio: 450 CUP/m\n" +
	"   • Subtotal: 1,125 CUP\n\n" +
	"2. Seda Elegante\n" +
	"   • Material: Seda Natural\n" +
	"   • Color: Dorado\n" +
	"   • Cantidad: 1.5m\n" +
	"   • Precio: 1200 CUP/m\n" +
	"   • Subtotal: 1,800 CUP\n\n" +
	"*TOTAL: 2,925 CUP*\n\n" +
	"¡Gracias por tu interés!"

func TestComposeLayout(t *testing.T) {
	var c order.Composer
	assert.Equal(t, expectedMessage, c.Compose(sampleLines()))
}

func TestComposeIsDeterministic(t *testing.T) {
	c := order.Composer{Currency: "CUP"}
	assert.Equal(t, c.Compose(sampleLines()), c.Compose(sampleLines()))
}

func TestComposeCurrency(t *testing.T) {
	c := order.Composer{Currency: "USD"}
	msg := c.Compose(sampleLines()[:1])
	assert.Contains(t, msg, "   • Precio: 450 USD/m\n")
	assert.Contains(t, msg, "*TOTAL: 1,125 USD*")
}

func TestComposeEmptyCart(t *testing.T) {
	var c order.Composer
	assert.Equal(t,
		"*FACTURA - CATÁLOGO DE TELAS*\n\n*ARTÍCULOS:*\n*TOTAL: 0 CUP*\n\n¡Gracias por tu interés!",
		c.Compose(nil))
}

func TestAmount(t *testing.T) {
	cases := map[string]string{
		"2100":      "2,100",
		"1234.5":    "1,234.5",
		"0.3":       "0.3",
		"1234567":   "1,234,567",
		"10.123456": "10.123",
		"0":         "0",
		"-1234.5":   "-1,234.5",
		"0.0005":    "0.001",
		// beyond float64 precision
		"12345678901234567.125":  "12,345,678,901,234,567.125",
		"90071992547409930.0001": "90,071,992,547,409,930",
	}
	for in, want := range cases {
		assert.Equal(t, want, order.Amount(decimal.RequireFromString(in)), in)
	}
}

func TestSummarize(t *testing.T) {
	s := order.Composer{}.Summarize(sampleLines())
	require.Len(t, s.Items, 2)
	assert.Equal(t, "CUP", s.Currency)
	assert.Equal(t, "1125", s.Items[0].Subtotal.String())
	assert.Equal(t, "1800", s.Items[1].Subtotal.String())
	assert.Equal(t, "2925", s.Total.String())
}

func TestDispatch(t *testing.T) {
	c := order.Composer{Phone: "+5355366583"}

	_, err := c.Dispatch(nil)
	assert.ErrorIs(t, err, order.ErrEmptyCart)

	o, err := c.Dispatch(sampleLines())
	require.NoError(t, err)
	assert.Equal(t, expectedMessage, o.Message)
	assert.Equal(t, order.DispatchURL("+5355366583", expectedMessage), o.URL)
	assert.Equal(t, "2925", o.Summary.Total.String())
}

func TestDispatchURLEscaping(t *testing.T) {
	got := order.DispatchURL("+5355366583", "*TOTAL: 1,125 CUP*\n¡Hola! (50% off) a+b")
	assert.Equal(t,
		"https://wa.me/+5355366583?text=*TOTAL%3A%201%2C125%20CUP*%0A%C2%A1Hola!%20(50%25%20off)%20a%2Bb",
		got)
}
