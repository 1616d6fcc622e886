package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/telascatalogo/telas/app/cart"
	"github.com/telascatalogo/telas/app/order"
	"github.com/telascatalogo/telas/app/services"
	"github.com/telascatalogo/telas/pkg/ctx"
)

// CartCookie carries the shopper's cart key.
const CartCookie = "telas_cart"

const cartCookieMaxAge = 30 * 24 * 60 * 60

// CartController exposes a per-visitor ledger keyed by the CartCookie.
type CartController struct {
	catalog  *services.Catalog
	store    cart.SnapshotStore
	composer order.Composer
}

func NewCartController(catalog *services.Catalog, store cart.SnapshotStore, composer order.Composer) *CartController {
	return &CartController{catalog: catalog, store: store, composer: composer}
}

type cartItem struct {
	cart.Line
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items     []cartItem      `json:"items"`
	LineCount int             `json:"line_count"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	Degraded  bool            `json:"degraded,omitempty"`
}

// ledger opens the visitor's cart, issuing a new key cookie when the request
// has none or an invalid one.
func (cc *CartController) ledger(c *ctx.Context) *cart.Ledger {
	key, err := c.Cookie(CartCookie)
	if err != nil || uuid.Validate(key) != nil {
		key = uuid.NewString()
	}
	c.SetCookie(CartCookie, key, cartCookieMaxAge)
	return cart.Open(c.Context(), cc.store, key)
}

func (cc *CartController) view(c *ctx.Context, l *cart.Ledger) {
	lines := l.Lines()
	items := make([]cartItem, 0, len(lines))
	for _, ln := range lines {
		items = append(items, cartItem{Line: ln, Subtotal: ln.Subtotal()})
	}
	c.Success(cartView{
		Items:     items,
		LineCount: len(lines),
		Total:     cart.Total(lines),
		Currency:  cc.composer.CurrencyCode(),
		Degraded:  l.Degraded(),
	})
}

func (cc *CartController) Show(c *ctx.Context) {
	cc.view(c, cc.ledger(c))
}

type addItemInput struct {
	FabricID uint    `json:"fabricId" validate:"required"`
	Meters   float64 `json:"meters"`
}

// Add puts a fabric into the cart. Meters below the minimum are raised to it.
func (cc *CartController) Add(c *ctx.Context) {
	var in addItemInput
	if !c.BindJSON(&in) {
		return
	}
	f, err := cc.catalog.Get(c.Context(), in.FabricID)
	if err != nil {
		fail(c, err)
		return
	}
	l := cc.ledger(c)
	l.Add(c.Context(), f, in.Meters)
	cc.view(c, l)
}

type setMetersInput struct {
	Meters *float64 `json:"meters" validate:"required"`
}

func (cc *CartController) SetMeters(c *ctx.Context) {
	id, ok := fabricID(c)
	if !ok {
		return
	}
	var in setMetersInput
	if !c.BindJSON(&in) {
		return
	}
	l := cc.ledger(c)
	l.SetMeters(c.Context(), id, *in.Meters)
	cc.view(c, l)
}

func (cc *CartController) Remove(c *ctx.Context) {
	id, ok := fabricID(c)
	if !ok {
		return
	}
	l := cc.ledger(c)
	l.Remove(c.Context(), id)
	cc.view(c, l)
}

func (cc *CartController) Clear(c *ctx.Context) {
	l := cc.ledger(c)
	l.Clear(c.Context())
	cc.view(c, l)
}

// Order composes the WhatsApp message for the current cart. The cart is left
// as is; the shopper clears it once the chat is sent.
func (cc *CartController) Order(c *ctx.Context) {
	o, err := cc.composer.Dispatch(cc.ledger(c).Lines())
	if errors.Is(err, order.ErrEmptyCart) {
		c.Error(http.StatusBadRequest, "Cart is empty")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Log().Info("order composed", "lines", len(o.Summary.Items), "total", o.Summary.Total.String())
	c.Success(o)
}
