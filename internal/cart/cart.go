package cart

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is the selected color/size combination for a line.
type Variant struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// Line is one product+variant+quantity entry. Lines are keyed by
// (ProductID, Variant.Color, Variant.Size): adding the same combination
// again merges quantities instead of duplicating the line.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Variant   Variant         `json:"variant"`
}

// PricingConfig is the single source of truth for the rates used when
// deriving totals. It is injected from application config; call sites
// never carry their own literals.
type PricingConfig struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingCost      decimal.Decimal
}

// Totals is derived cart state. It is recomputed from the line list on
// every call and never cached.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// TotalMinor returns the grand total in minor currency units, the integer
// form the payment provider expects.
func (t Totals) TotalMinor() int64 {
	return t.Total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Store persists cart snapshots. Every mutation writes through
// immediately; there is no batching.
type Store interface {
	Save(data []byte) error
	Load() ([]byte, error)
}

// Cart holds the shopper's line items and an optional discount.
type Cart struct {
	lines    []Line
	discount decimal.Decimal
	store    Store
}

// New returns an empty cart. store may be nil, in which case snapshots
// are kept in memory only.
func New(store Store) *Cart {
	c := &Cart{store: store}
	if store != nil {
		data, err := store.Load()
		if err == nil && len(data) > 0 {
			c.Restore(data)
		}
	}
	return c
}

type snapshot struct {
	Lines    []Line          `json:"lines"`
	Discount decimal.Decimal `json:"discount"`
}

// Restore replaces the cart contents from a stored snapshot. Corrupt data
// yields an empty cart, never an error.
func (c *Cart) Restore(data []byte) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("[Cart] discarding corrupt snapshot: %v", err)
		c.lines = nil
		c.discount = decimal.Zero
		return
	}
	c.lines = snap.Lines
	c.discount = snap.Discount
}

// Snapshot serializes the cart for persistence.
func (c *Cart) Snapshot() ([]byte, error) {
	return json.Marshal(snapshot{Lines: c.lines, Discount: c.discount})
}

// AddItem merges the item into an existing line when the product and
// variant match, otherwise appends a new line. Quantity is clamped to at
// least 1.
func (c *Cart) AddItem(item Line, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.lines {
		if c.lines[i].ProductID == item.ProductID && c.lines[i].Variant == item.Variant {
			c.lines[i].Quantity += quantity
			c.persist()
			return
		}
	}

	item.Quantity = quantity
	c.lines = append(c.lines, item)
	c.persist()
}

// RemoveItem drops every line for the given product id.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
	c.persist()
}

// UpdateQuantity sets the quantity on every line for the product,
// clamped to at least 1. Removal is a distinct explicit action.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
		}
	}
	c.persist()
}

// UpdateVariant changes the selected variant on the product's lines.
// Empty fields leave the current selection untouched.
func (c *Cart) UpdateVariant(productID uuid.UUID, variant Variant) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if variant.Color != "" {
				c.lines[i].Variant.Color = variant.Color
			}
			if variant.Size != "" {
				c.lines[i].Variant.Size = variant.Size
			}
		}
	}
	c.persist()
}

// ApplyDiscount records a discount deducted from the grand total.
// Negative values are treated as zero.
func (c *Cart) ApplyDiscount(amount decimal.Decimal) {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	c.discount = amount
	c.persist()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.discount = decimal.Zero
	c.persist()
}

// Lines returns a copy of the current line items.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Totals derives subtotal, tax, shipping and total from the current
// lines. Pure with respect to cart state: no mutation, no caching.
func (c *Cart) Totals(cfg PricingConfig) Totals {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(cfg.TaxRate).Round(2)

	shipping := decimal.Zero
	if len(c.lines) > 0 && subtotal.LessThan(cfg.FreeShippingThreshold) {
		shipping = cfg.FlatShippingCost.Round(2)
	}

	discount := c.discount.Round(2)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(tax).Add(shipping).Sub(discount).Round(2),
	}
}

func (c *Cart) persist() {
	if c.store == nil {
		return
	}
	data, err := c.Snapshot()
	if err != nil {
		log.Printf("[Cart] snapshot failed: %v", err)
		return
	}
	if err := c.store.Save(data); err != nil {
		log.Printf("[Cart] persist failed: %v", err)
	}
}
