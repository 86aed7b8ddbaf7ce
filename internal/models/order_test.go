package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidOrderTransition(t *testing.T) {
	allowed := [][2]string{
		{OrderPending, OrderProcessing},
		{OrderPending, OrderCancelled},
		{OrderProcessing, OrderDelivered},
		{OrderProcessing, OrderCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, ValidOrderTransition(tr[0], tr[1]), "%s -> %s should be allowed", tr[0], tr[1])
	}

	denied := [][2]string{
		{OrderPending, OrderDelivered}, // must pass through processing
		{OrderDelivered, OrderPending},
		{OrderDelivered, OrderCancelled},
		{OrderCancelled, OrderPending},
		{OrderCancelled, OrderProcessing},
		{OrderDelivered, OrderDelivered},
		{"unknown", OrderProcessing},
	}
	for _, tr := range denied {
		assert.False(t, ValidOrderTransition(tr[0], tr[1]), "%s -> %s should be denied", tr[0], tr[1])
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, (&Order{OrderStatus: OrderDelivered}).IsTerminal())
	assert.True(t, (&Order{OrderStatus: OrderCancelled}).IsTerminal())
	assert.False(t, (&Order{OrderStatus: OrderPending}).IsTerminal())
	assert.False(t, (&Order{OrderStatus: OrderProcessing}).IsTerminal())
}
