package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPricing() PricingConfig {
	return PricingConfig{
		TaxRate:               decimal.RequireFromString("0.125"),
		FreeShippingThreshold: decimal.RequireFromString("200"),
		FlatShippingCost:      decimal.RequireFromString("15"),
	}
}

func line(id uuid.UUID, price string, color, size string) Line {
	return Line{
		ProductID: id,
		Title:     "test product",
		UnitPrice: decimal.RequireFromString(price),
		Variant:   Variant{Color: color, Size: size},
	}
}

func TestAddItemMergesSameVariant(t *testing.T) {
	c := New(nil)
	id := uuid.New()

	c.AddItem(line(id, "50.00", "red", "m"), 1)
	c.AddItem(line(id, "50.00", "red", "m"), 2)
	c.AddItem(line(id, "50.00", "red", "m"), 4)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestAddItemDistinctVariantsStaySeparate(t *testing.T) {
	c := New(nil)
	id := uuid.New()

	c.AddItem(line(id, "50.00", "red", "m"), 1)
	c.AddItem(line(id, "50.00", "blue", "m"), 1)
	c.AddItem(line(id, "50.00", "red", "l"), 1)

	assert.Len(t, c.Lines(), 3)
}

func TestAddItemClampsQuantity(t *testing.T) {
	c := New(nil)
	c.AddItem(line(uuid.New(), "10.00", "", ""), 0)
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	c.AddItem(line(uuid.New(), "10.00", "", ""), -5)
	assert.Equal(t, 1, c.Lines()[1].Quantity)
}

func TestRemoveItemDropsAllVariants(t *testing.T) {
	c := New(nil)
	id := uuid.New()
	other := uuid.New()

	c.AddItem(line(id, "10.00", "red", "m"), 1)
	c.AddItem(line(id, "10.00", "blue", "m"), 1)
	c.AddItem(line(other, "20.00", "", ""), 1)

	c.RemoveItem(id)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, other, lines[0].ProductID)
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	c := New(nil)
	id := uuid.New()
	c.AddItem(line(id, "10.00", "", ""), 3)

	c.UpdateQuantity(id, 0)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	c.UpdateQuantity(id, 9)
	assert.Equal(t, 9, c.Lines()[0].Quantity)
}

func TestUpdateVariant(t *testing.T) {
	c := New(nil)
	id := uuid.New()
	c.AddItem(line(id, "10.00", "red", "m"), 1)

	c.UpdateVariant(id, Variant{Color: "green"})

	got := c.Lines()[0].Variant
	assert.Equal(t, "green", got.Color)
	assert.Equal(t, "m", got.Size)
}

func TestTotalsIsPure(t *testing.T) {
	c := New(nil)
	c.AddItem(line(uuid.New(), "33.33", "", ""), 3)

	first := c.Totals(testPricing())
	second := c.Totals(testPricing())

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Shipping.Equal(second.Shipping))
	assert.True(t, first.Total.Equal(second.Total))
	assert.Len(t, c.Lines(), 1)
}

func TestShippingThresholdBoundary(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		shipping string
	}{
		{"just under threshold", "199.99", "15"},
		{"exactly at threshold", "200.00", "0"},
		{"over threshold", "350.00", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil)
			c.AddItem(line(uuid.New(), tt.subtotal, "", ""), 1)

			totals := c.Totals(testPricing())
			assert.True(t, totals.Shipping.Equal(decimal.RequireFromString(tt.shipping)),
				"subtotal %s: got shipping %s", tt.subtotal, totals.Shipping)
		})
	}
}

func TestCheckoutPricingScenario(t *testing.T) {
	// cart = [{price: 50.00, qty: 2}], taxRate=0.125, threshold=200, flat=15
	c := New(nil)
	c.AddItem(line(uuid.New(), "50.00", "", ""), 2)

	totals := c.Totals(testPricing())

	assert.Equal(t, "100.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "12.50", totals.Tax.StringFixed(2))
	assert.Equal(t, "15.00", totals.Shipping.StringFixed(2))
	assert.Equal(t, "127.50", totals.Total.StringFixed(2))
	assert.Equal(t, int64(12750), totals.TotalMinor())
}

func TestTotalsAtTenPercentRate(t *testing.T) {
	cfg := testPricing()
	cfg.TaxRate = decimal.RequireFromString("0.10")

	c := New(nil)
	c.AddItem(line(uuid.New(), "50.00", "", ""), 2)

	totals := c.Totals(cfg)
	assert.Equal(t, "10.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "125.00", totals.Total.StringFixed(2))
}

func TestDiscountReducesTotal(t *testing.T) {
	c := New(nil)
	c.AddItem(line(uuid.New(), "100.00", "", ""), 1)
	c.ApplyDiscount(decimal.RequireFromString("20"))

	totals := c.Totals(testPricing())
	// 100 + 12.50 tax + 15 shipping - 20 discount
	assert.Equal(t, "107.50", totals.Total.StringFixed(2))
}

func TestEmptyCartTotalsAreZero(t *testing.T) {
	totals := New(nil).Totals(testPricing())
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.Shipping.IsZero())
}

func TestRestoreCorruptSnapshotYieldsEmptyCart(t *testing.T) {
	c := New(nil)
	c.AddItem(line(uuid.New(), "10.00", "", ""), 1)

	c.Restore([]byte("{not json"))

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Totals(testPricing()).Total.IsZero())
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := New(nil)
	id := uuid.New()
	c.AddItem(line(id, "42.50", "black", "xl"), 3)
	c.ApplyDiscount(decimal.RequireFromString("5"))

	data, err := c.Snapshot()
	require.NoError(t, err)

	restored := New(nil)
	restored.Restore(data)

	require.Len(t, restored.Lines(), 1)
	got := restored.Lines()[0]
	assert.Equal(t, id, got.ProductID)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, "black", got.Variant.Color)
	assert.True(t, restored.Totals(testPricing()).Discount.Equal(decimal.RequireFromString("5")))
}

type memStore struct {
	saves int
	data  []byte
}

func (s *memStore) Save(data []byte) error {
	s.saves++
	s.data = data
	return nil
}

func (s *memStore) Load() ([]byte, error) { return s.data, nil }

func TestEveryMutationWritesThrough(t *testing.T) {
	store := &memStore{}
	c := New(store)
	id := uuid.New()

	c.AddItem(line(id, "10.00", "", ""), 1)
	c.UpdateQuantity(id, 2)
	c.RemoveItem(id)
	c.Clear()

	assert.Equal(t, 4, store.saves)
}

func TestNewLoadsFromStore(t *testing.T) {
	store := &memStore{}
	first := New(store)
	first.AddItem(line(uuid.New(), "10.00", "", ""), 2)

	second := New(store)
	require.Len(t, second.Lines(), 1)
	assert.Equal(t, 2, second.Lines()[0].Quantity)
}
