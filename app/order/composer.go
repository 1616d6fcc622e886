// Package order turns a cart into the priced order message sent to the shop
// over WhatsApp.
package order

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/telascatalogo/telas/app/cart"
	"github.com/telascatalogo/telas/pkg/metrics"
)

// DefaultCurrency is printed after every amount unless the composer says otherwise.
const DefaultCurrency = "CUP"

// ErrEmptyCart is returned when an order is requested for a cart with no lines.
var ErrEmptyCart = errors.New("order: cart is empty")

// Item is one priced line of a Summary.
type Item struct {
	FabricID      uint            `json:"fabric_id"`
	Name          string          `json:"name"`
	Material      string          `json:"material"`
	Color         string          `json:"color"`
	Meters        float64         `json:"meters"`
	PricePerMeter float64         `json:"price_per_meter"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// Summary is the structured form of an order.
type Summary struct {
	Items    []Item          `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

// Order is a composed message together with the link that delivers it.
type Order struct {
	Message string  `json:"message"`
	URL     string  `json:"url"`
	Summary Summary `json:"summary"`
}

// Composer formats carts. The zero value uses DefaultCurrency.
type Composer struct {
	Currency string
	Phone    string
}

// CurrencyCode is the currency printed after amounts.
func (c Composer) CurrencyCode() string {
	if c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}

// Summarize prices every line in cart order.
func (c Composer) Summarize(lines []cart.Line) Summary {
	s := Summary{Items: make([]Item, 0, len(lines)), Currency: c.CurrencyCode()}
	for _, ln := range lines {
		s.Items = append(s.Items, Item{
			FabricID:      ln.ID,
			Name:          ln.Name,
			Material:      ln.Material,
			Color:         ln.Color,
			Meters:        ln.Meters,
			PricePerMeter: ln.PricePerMeter,
			Subtotal:      ln.Subtotal(),
		})
	}
	s.Total = cart.Total(lines)
	return s
}

// Compose renders the order text. Output depends only on lines and the
// currency, so the same cart always yields the same bytes.
func (c Composer) Compose(lines []cart.Line) string {
	return c.render(c.Summarize(lines))
}

func (c Composer) render(s Summary) string {
	var b strings.Builder
	b.WriteString("*FACTURA - CATÁLOGO DE TELAS*\n\n")
	b.WriteString("*ARTÍCULOS:*\n")

	for i, it := range s.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it.Name)
		fmt.Fprintf(&b, "   • Material: %s\n", it.Material)
		fmt.Fprintf(&b, "   • Color: %s\n", it.Color)
		fmt.Fprintf(&b, "   • Cantidad: %sm\n", plain(it.Meters))
		fmt.Fprintf(&b, "   • Precio: %s %s/m\n", plain(it.PricePerMeter), s.Currency)
		fmt.Fprintf(&b, "   • Subtotal: %s %s\n\n", Amount(it.Subtotal), s.Currency)
	}

	fmt.Fprintf(&b, "*TOTAL: %s %s*\n\n", Amount(s.Total), s.Currency)
	b.WriteString("¡Gracias por tu interés!")
	return b.String()
}

// Dispatch composes the message for lines and builds the WhatsApp link for
// c.Phone. It does not send anything.
func (c Composer) Dispatch(lines []cart.Line) (Order, error) {
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}
	s := c.Summarize(lines)
	msg := c.render(s)
	metrics.OrdersComposed.Inc()
	return Order{Message: msg, URL: DispatchURL(c.Phone, msg), Summary: s}, nil
}

// Amount formats a money value with thousands separators and at most three
// fraction digits: 2100 → "2,100", 1234.5 → "1,234.5".
func Amount(d decimal.Decimal) string {
	r := d.Round(3)
	sign := ""
	if r.IsNegative() {
		sign, r = "-", r.Neg()
	}
	out := sign + humanize.BigComma(r.Truncate(0).BigInt())
	if _, frac, ok := strings.Cut(r.String(), "."); ok {
		out += "." + frac
	}
	return out
}

func plain(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// uriComponent undoes the QueryEscape choices that differ from a browser's
// encodeURIComponent.
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// DispatchURL is the wa.me link that opens a chat with phone prefilled with text.
func DispatchURL(phone, text string) string {
	return "https://wa.me/" + phone + "?text=" + uriComponent.Replace(url.QueryEscape(text))
}
